// Package api exposes the bank's call surface over HTTP. It translates
// between JSON and the engine's operations and error kinds; no business rules
// live here.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/bank"
	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

// Handler serves the bank API.
type Handler struct {
	bank   *bank.Bank
	logger *slog.Logger
}

// NewHandler creates a Handler around a bank.
func NewHandler(b *bank.Bank, logger *slog.Logger) *Handler {
	return &Handler{bank: b, logger: logger}
}

// fail writes the error response, logging anything the client cannot act on.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		h.logger.Error("operation failed", "error", err)
	}
	writeError(w, err)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type clientRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type clientView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func viewClient(c model.Client) clientView {
	return clientView{ID: c.ID, Name: c.Name, Category: string(c.Category)}
}

func (h *Handler) registerClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	cat := model.Category(req.Category)
	if cat != model.CategoryIndividual && cat != model.CategoryOrganization {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be individual or organization"})
		return
	}

	err := h.bank.RegisterClient(r.Context(), model.Client{ID: req.ID, Name: req.Name, Category: cat})
	countOp("register_client", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewClient(model.Client{ID: req.ID, Name: req.Name, Category: cat}))
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	var clients []model.Client
	if cat := r.URL.Query().Get("category"); cat != "" {
		clients = h.bank.ClientsByCategory(model.Category(cat))
	} else {
		clients = h.bank.Clients()
	}
	views := make([]clientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, viewClient(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.bank.FindClient(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewClient(c))
}

func (h *Handler) removeClient(w http.ResponseWriter, r *http.Request) {
	err := h.bank.RemoveClient(r.Context(), chi.URLParam(r, "id"))
	countOp("remove_client", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type openAccountRequest struct {
	Number         string           `json:"number"`
	OwnerID        string           `json:"owner_id"`
	Kind           string           `json:"kind"`
	Balance        decimal.Decimal  `json:"balance"`
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty"`
	BaseFee        *decimal.Decimal `json:"base_fee,omitempty"`
}

type accountView struct {
	Number          string           `json:"number"`
	OwnerID         string           `json:"owner_id"`
	Kind            string           `json:"kind"`
	Balance         decimal.Decimal  `json:"balance"`
	OverdraftLimit  *decimal.Decimal `json:"overdraft_limit,omitempty"`
	BaseFee         *decimal.Decimal `json:"base_fee,omitempty"`
	InitialCapital  *decimal.Decimal `json:"initial_capital,omitempty"`
	AnnualRate      *decimal.Decimal `json:"annual_rate,omitempty"`
	CreatedAt       *time.Time       `json:"created_at,omitempty"`
	MaturesAt       *time.Time       `json:"matures_at,omitempty"`
	AccruedInterest *decimal.Decimal `json:"accrued_interest,omitempty"`
}

func viewAccount(a model.Account) accountView {
	base := a.Base()
	v := accountView{
		Number:  base.Number,
		OwnerID: base.OwnerID,
		Kind:    string(a.Kind()),
		Balance: base.Balance,
	}
	switch acct := a.(type) {
	case *model.CheckingAccount:
		v.OverdraftLimit = &acct.OverdraftLimit
		v.BaseFee = &acct.BaseFee
	case *model.FixedTermAccount:
		v.InitialCapital = &acct.InitialCapital
		v.AnnualRate = &acct.AnnualRate
		v.CreatedAt = &acct.CreatedAt
		v.MaturesAt = &acct.MaturesAt
		v.AccruedInterest = &acct.AccruedInterest
	}
	return v
}

func (h *Handler) openAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var acct model.Account
	switch model.AccountKind(req.Kind) {
	case model.KindSavings:
		acct = model.NewSavings(req.Number, req.OwnerID, req.Balance)
	case model.KindChecking:
		limit := decimal.Zero
		if req.OverdraftLimit != nil {
			limit = *req.OverdraftLimit
		}
		if limit.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "overdraft_limit must not be negative"})
			return
		}
		fee := h.bank.Params().CheckingBaseFee
		if req.BaseFee != nil {
			fee = *req.BaseFee
		}
		acct = model.NewChecking(req.Number, req.OwnerID, req.Balance, limit, fee)
	default:
		// Fixed-term accounts are only created through POST /fixed-terms.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be savings or checking"})
		return
	}

	err := h.bank.OpenAccount(r.Context(), acct)
	countOp("open_account", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewAccount(acct))
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []model.Account
	switch {
	case r.URL.Query().Get("kind") != "":
		accounts = h.bank.AccountsByKind(model.AccountKind(r.URL.Query().Get("kind")))
	case r.URL.Query().Get("owner") != "":
		accounts = h.bank.AccountsByOwner(r.URL.Query().Get("owner"))
	default:
		accounts = h.bank.Accounts()
	}
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, viewAccount(a))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.bank.FindAccount(chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(a))
}

func (h *Handler) closeAccount(w http.ResponseWriter, r *http.Request) {
	err := h.bank.CloseAccount(r.Context(), chi.URLParam(r, "number"))
	countOp("close_account", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "deposit", h.bank.Deposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "withdraw", h.bank.Withdraw)
}

func (h *Handler) applyAmount(w http.ResponseWriter, r *http.Request, op string,
	apply func(ctx context.Context, number string, amount decimal.Decimal) error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	number := chi.URLParam(r, "number")

	err := apply(r.Context(), number, req.Amount)
	countOp(op, err)
	if err != nil {
		h.fail(w, err)
		return
	}
	a, err := h.bank.FindAccount(number)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(a))
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string          `json:"from"`
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	err := h.bank.Transfer(r.Context(), req.From, req.To, req.Amount)
	countOp("transfer", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (h *Handler) createFixedTerm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source   string          `json:"source"`
		Capital  decimal.Decimal `json:"capital"`
		TermDays int             `json:"term_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	number, err := h.bank.CreateFixedTerm(r.Context(), req.Source, req.Capital, req.TermDays)
	countOp("create_fixed_term", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"number": number})
}

func (h *Handler) accrueInterest(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	err := h.bank.AccrueInterest(r.Context(), number)
	countOp("accrue_interest", err)
	if err != nil {
		h.fail(w, err)
		return
	}
	a, err := h.bank.FindAccount(number)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAccount(a))
}

type movementView struct {
	ID      string          `json:"id"`
	Account string          `json:"account"`
	At      time.Time       `json:"at"`
	Kind    string          `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	f := store.MovementFilter{
		Account: chi.URLParam(r, "number"),
		Kind:    r.URL.Query().Get("kind"),
	}
	var err error
	if f.From, err = parseTimeParam(r, "from"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if f.To, err = parseTimeParam(r, "to"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	views := []movementView{}
	for m := range h.bank.Movements(f) {
		views = append(views, movementView{
			ID:      m.ID.String(),
			Account: m.Account,
			At:      m.At,
			Kind:    m.Kind,
			Amount:  m.Amount,
			Balance: m.Balance,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type reportView struct {
	Clients        int             `json:"clients"`
	Accounts       int             `json:"accounts"`
	Total          decimal.Decimal `json:"total"`
	Savings        decimal.Decimal `json:"savings"`
	Checking       decimal.Decimal `json:"checking"`
	FixedTerm      decimal.Decimal `json:"fixed_term"`
	OverdraftInUse decimal.Decimal `json:"overdraft_in_use"`
}

func (h *Handler) report(w http.ResponseWriter, _ *http.Request) {
	s := h.bank.Summarize()
	writeJSON(w, http.StatusOK, reportView{
		Clients:        s.Clients,
		Accounts:       s.Accounts,
		Total:          s.Total,
		Savings:        s.Savings,
		Checking:       s.Checking,
		FixedTerm:      s.FixedTerm,
		OverdraftInUse: s.OverdraftInUse,
	})
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: must be RFC 3339", name)
	}
	return t, nil
}
