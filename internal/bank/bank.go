// Package bank implements the account ledger and transaction engine: the
// client and account registries, per-variant withdrawal rules, the
// transfer/commission algorithm, and the fixed-term deposit lifecycle.
//
// A single mutex serializes every operation, including the two multi-step
// sequences (transfer's fee-then-amount and fixed-term's withdraw-then-
// register), so no partial state is ever visible. The store is written after
// each successful in-memory mutation; store failures surface as
// ErrPersistence without rolling memory back.
package bank

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

// Params are the ledger-wide tunable parameters. They take effect on the next
// operation that reads them; accounts already opened keep their stored fields.
type Params struct {
	TransferCommission decimal.Decimal
	FixedTermRate      decimal.Decimal
	CheckingBaseFee    decimal.Decimal
}

// DefaultParams mirrors the historical defaults: commission 50, annual
// fixed-term rate 10%, checking base fee 50.
func DefaultParams() Params {
	return Params{
		TransferCommission: decimal.NewFromInt(50),
		FixedTermRate:      decimal.NewFromFloat(0.10),
		CheckingBaseFee:    decimal.NewFromInt(50),
	}
}

// Bank is the aggregate holding both registries and orchestrating every
// operation over them.
type Bank struct {
	mu       sync.Mutex
	store    store.Store
	clients  map[string]model.Client
	accounts map[string]model.Account
	params   Params
	now      func() time.Time
}

// Option configures a Bank.
type Option func(*Bank)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// New creates an empty bank backed by the given store.
func New(st store.Store, params Params, opts ...Option) *Bank {
	b := &Bank{
		store:    st,
		clients:  make(map[string]model.Client),
		accounts: make(map[string]model.Account),
		params:   params,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open creates a bank and rebuilds in-memory state from the store: clients,
// accounts, and each account's movement history.
func Open(ctx context.Context, st store.Store, params Params, opts ...Option) (*Bank, error) {
	b := New(st, params, opts...)

	clients, err := st.Clients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	for _, c := range clients {
		b.clients[c.ID] = c
	}

	accounts, err := st.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	movements, err := st.Movements(ctx, store.MovementFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading movements: %w", err)
	}
	byAccount := make(map[string][]model.Movement)
	for _, m := range movements {
		byAccount[m.Account] = append(byAccount[m.Account], m)
	}
	for _, a := range accounts {
		a.Base().Movements = byAccount[a.Base().Number]
		b.accounts[a.Base().Number] = a
	}

	return b, nil
}

// Params returns the current tunable parameters.
func (b *Bank) Params() Params {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params
}

// SetTransferCommission updates the inter-owner transfer commission.
func (b *Bank) SetTransferCommission(v decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params.TransferCommission = v
}

// SetFixedTermRate updates the annual rate applied to new fixed-term deposits.
func (b *Bank) SetFixedTermRate(v decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params.FixedTermRate = v
}

// SetCheckingBaseFee updates the default base fee for new checking accounts.
func (b *Bank) SetCheckingBaseFee(v decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params.CheckingBaseFee = v
}

// RegisterClient adds a client to the registry.
func (b *Bank) RegisterClient(ctx context.Context, c model.Client) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.clients[c.ID]; exists {
		return fmt.Errorf("client %s: %w", c.ID, ErrDuplicateKey)
	}
	b.clients[c.ID] = c

	if err := b.store.UpsertClient(ctx, c); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// RemoveClient removes a client that owns no accounts.
func (b *Bank) RemoveClient(ctx context.Context, clientID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.clients[clientID]; !exists {
		return fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	for _, a := range b.accounts {
		if a.Base().OwnerID == clientID {
			return fmt.Errorf("client %s: %w", clientID, ErrHasActiveAccounts)
		}
	}
	delete(b.clients, clientID)

	if err := b.store.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// FindClient returns a client by ID.
func (b *Bank) FindClient(clientID string) (model.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.clients[clientID]
	if !ok {
		return model.Client{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	return c, nil
}

// Clients returns all clients ordered by ID.
func (b *Bank) Clients() []model.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clientList(func(model.Client) bool { return true })
}

// ClientsByCategory returns clients of one category, ordered by ID.
func (b *Bank) ClientsByCategory(cat model.Category) []model.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clientList(func(c model.Client) bool { return c.Category == cat })
}

func (b *Bank) clientList(keep func(model.Client) bool) []model.Client {
	out := make([]model.Client, 0, len(b.clients))
	for _, c := range b.clients {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, c model.Client) int { return strings.Compare(a.ID, c.ID) })
	return out
}

// OpenAccount registers an account under its number. Fixed-term accounts are
// normally created through CreateFixedTerm; opening one directly is allowed
// for state rebuilds only.
func (b *Bank) OpenAccount(ctx context.Context, a model.Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openLocked(ctx, a)
}

func (b *Bank) openLocked(ctx context.Context, a model.Account) error {
	number := a.Base().Number
	if _, exists := b.accounts[number]; exists {
		return fmt.Errorf("account %s: %w", number, ErrDuplicateKey)
	}
	b.accounts[number] = a

	if err := b.store.UpsertAccount(ctx, a); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// CloseAccount removes an account unconditionally; no balance or movement
// check is made, matching client-facing behavior that predates this engine.
func (b *Bank) CloseAccount(ctx context.Context, number string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[number]; !exists {
		return fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	delete(b.accounts, number)

	if err := b.store.DeleteAccount(ctx, number); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// FindAccount returns a detached copy of an account by number, safe to read
// after the lock is released.
func (b *Bank) FindAccount(number string) (model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	return model.Snapshot(a), nil
}

// Accounts returns all accounts ordered by number.
func (b *Bank) Accounts() []model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accountList(func(model.Account) bool { return true })
}

// AccountsByKind returns accounts of one variant, ordered by number.
func (b *Bank) AccountsByKind(kind model.AccountKind) []model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accountList(func(a model.Account) bool { return a.Kind() == kind })
}

// AccountsByOwner returns the accounts owned by a client, ordered by number.
func (b *Bank) AccountsByOwner(clientID string) []model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accountList(func(a model.Account) bool { return a.Base().OwnerID == clientID })
}

// accountList returns detached copies of the accounts passing keep, ordered
// by number.
func (b *Bank) accountList(keep func(model.Account) bool) []model.Account {
	out := make([]model.Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		if keep(a) {
			out = append(out, model.Snapshot(a))
		}
	}
	slices.SortFunc(out, func(a, c model.Account) int {
		return strings.Compare(a.Base().Number, c.Base().Number)
	})
	return out
}

// MaintenanceCost returns the informational maintenance cost of an account,
// resolving the owner's category through the client registry.
func (b *Bank) MaintenanceCost(number string) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	owner, ok := b.clients[a.Base().OwnerID]
	if !ok {
		return decimal.Zero, fmt.Errorf("client %s: %w", a.Base().OwnerID, ErrNotFound)
	}
	return a.MaintenanceCost(owner.Category), nil
}

// apply adjusts an account's balance by delta and appends the audit movement.
// Eligibility must already have been checked.
func (b *Bank) apply(a model.Account, kind string, delta decimal.Decimal) model.Movement {
	base := a.Base()
	base.Balance = base.Balance.Add(delta)
	m := model.NewMovement(base.Number, kind, b.now(), delta, base.Balance)
	base.Movements = append(base.Movements, m)
	return m
}

// record appends an audit movement without changing the balance. Used for
// log-only records whose amount was already applied by another movement.
func (b *Bank) record(a model.Account, kind string, amount decimal.Decimal) model.Movement {
	base := a.Base()
	m := model.NewMovement(base.Number, kind, b.now(), amount, base.Balance)
	base.Movements = append(base.Movements, m)
	return m
}

// persist writes accounts and movements after a successful mutation. All
// writes are attempted even if an earlier one fails, so the store misses as
// little as possible; any failure is reported as ErrPersistence.
func (b *Bank) persist(ctx context.Context, accounts []model.Account, movements []model.Movement) error {
	var errs []error
	for _, a := range accounts {
		if err := b.store.UpsertAccount(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range movements {
		if err := b.store.AppendMovement(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrPersistence, errors.Join(errs...))
	}
	return nil
}
