package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/bank"
	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	at := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	b := bank.New(store.NewMemory(), bank.DefaultParams(),
		bank.WithClock(func() time.Time { return at }))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewHandler(b, logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, data
}

func seedServer(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp, _ := do(t, srv, http.MethodPost, "/api/v1/clients",
		`{"id":"111","name":"Ana Gomez","category":"individual"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/clients",
		`{"id":"222","name":"Acme SA","category":"organization"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"CA001","owner_id":"111","kind":"savings","balance":"500"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"CA003","owner_id":"222","kind":"savings","balance":"0"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestClientLifecycle(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	// Duplicate registration conflicts.
	resp, _ := do(t, srv, http.MethodPost, "/api/v1/clients",
		`{"id":"111","name":"Ana Gomez","category":"individual"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/clients",
		`{"id":"333","name":"Bob","category":"club"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/clients/111", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c clientView
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Equal(t, "Ana Gomez", c.Name)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/clients/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/clients?category=organization", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []clientView
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "222", list[0].ID)

	// A client with open accounts cannot be removed.
	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/clients/111", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/accounts/CA001", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/clients/111", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestOpenAccountValidation(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"PF-1","owner_id":"111","kind":"fixed_term","balance":"0"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"CC001","owner_id":"111","kind":"checking","balance":"0","overdraft_limit":"-10"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"CA001","owner_id":"111","kind":"savings","balance":"0"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Checking picks up the configured base fee when none is sent.
	resp, body := do(t, srv, http.MethodPost, "/api/v1/accounts",
		`{"number":"CC001","owner_id":"111","kind":"checking","balance":"0","overdraft_limit":"1000"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var a accountView
	require.NoError(t, json.Unmarshal(body, &a))
	require.NotNil(t, a.BaseFee)
	assert.Equal(t, "50", a.BaseFee.String())
}

func TestDepositWithdraw(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/deposit", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a accountView
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "600", a.Balance.String())

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/deposit", `{"amount":"-5"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/withdraw", `{"amount":"601"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/withdraw", `{"amount":"50"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "550", a.Balance.String())

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts/missing/deposit", `{"amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransferEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/transfers",
		`{"from":"CA001","to":"CA001","amount":"10"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Cross-owner transfer charges the commission.
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/transfers",
		`{"from":"CA001","to":"CA003","amount":"100"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/accounts/CA001", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a accountView
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "350", a.Balance.String())

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/transfers",
		`{"from":"CA001","to":"CA003","amount":"10000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestFixedTermEndpoints(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/fixed-terms",
		`{"source":"CA001","capital":"300","term_days":30}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Number string `json:"number"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.True(t, strings.HasPrefix(created.Number, "PF-"))

	resp, body = do(t, srv, http.MethodGet, "/api/v1/accounts/"+created.Number, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a accountView
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "fixed_term", a.Kind)
	require.NotNil(t, a.InitialCapital)
	assert.Equal(t, "300", a.InitialCapital.String())

	// Not yet matured, accrual leaves the balance alone.
	resp, body = do(t, srv, http.MethodPost, "/api/v1/fixed-terms/"+created.Number+"/accrue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, "300", a.Balance.String())

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/fixed-terms",
		`{"source":"CA001","capital":"10000","term_days":30}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/fixed-terms/CA001/accrue", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovementsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)
	resp, _ := do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/deposit", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/api/v1/accounts/CA001/withdraw", `{"amount":"40"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/accounts/CA001/movements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movements []movementView
	require.NoError(t, json.Unmarshal(body, &movements))
	require.Len(t, movements, 2)
	assert.Equal(t, model.MovementDeposit, movements[0].Kind)
	assert.Equal(t, model.MovementWithdrawal, movements[1].Kind)

	resp, body = do(t, srv, http.MethodGet, "/api/v1/movements?kind=DEPOSIT", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &movements))
	assert.Len(t, movements, 1)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/movements?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedServer(t, srv)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report reportView
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.Clients)
	assert.Equal(t, 2, report.Accounts)
	assert.Equal(t, "500", report.Total.String())
	assert.Equal(t, "500", report.Savings.String())
}

func TestStatusMapping(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{bank.ErrInvalidAmount, http.StatusBadRequest},
		{bank.ErrSameAccount, http.StatusBadRequest},
		{bank.ErrNotFound, http.StatusNotFound},
		{bank.ErrDuplicateKey, http.StatusConflict},
		{bank.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{bank.ErrHasActiveAccounts, http.StatusUnprocessableEntity},
		{bank.ErrWithdrawalFailed, http.StatusUnprocessableEntity},
		{bank.ErrCreationFailed, http.StatusUnprocessableEntity},
		{bank.ErrPersistence, http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.status, statusFor(tc.err), tc.err.Error())
	}
}
