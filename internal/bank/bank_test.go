package bank

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// testClock is a controllable time source for maturity tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *testClock) AdvanceDays(days int)    { c.now = c.now.AddDate(0, 0, days) }

func newTestBank(t *testing.T) (*Bank, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	b := New(store.NewMemory(), DefaultParams(), WithClock(clock.Now))
	return b, clock
}

// seedAccounts registers client 111 with savings CA001 (500) and client 222
// with savings CA003 (0), the fixture most operation tests build on.
func seedAccounts(t *testing.T, b *Bank) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, b.RegisterClient(ctx, model.Client{ID: "111", Name: "Ana Gomez", Category: model.CategoryIndividual}))
	require.NoError(t, b.RegisterClient(ctx, model.Client{ID: "222", Name: "Acme SA", Category: model.CategoryOrganization}))
	require.NoError(t, b.OpenAccount(ctx, model.NewSavings("CA001", "111", dec("500"))))
	require.NoError(t, b.OpenAccount(ctx, model.NewSavings("CA003", "222", dec("0"))))
}

func TestRegisterClient_Duplicate(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()

	c := model.Client{ID: "111", Name: "Ana Gomez", Category: model.CategoryIndividual}
	require.NoError(t, b.RegisterClient(ctx, c))

	err := b.RegisterClient(ctx, model.Client{ID: "111", Name: "Someone Else", Category: model.CategoryOrganization})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// Registry unchanged by the failed attempt.
	got, err := b.FindClient("111")
	require.NoError(t, err)
	assert.Equal(t, "Ana Gomez", got.Name)
}

func TestRemoveClient(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)

	err := b.RemoveClient(ctx, "999")
	require.ErrorIs(t, err, ErrNotFound)

	// 111 still owns CA001.
	err = b.RemoveClient(ctx, "111")
	require.ErrorIs(t, err, ErrHasActiveAccounts)

	require.NoError(t, b.CloseAccount(ctx, "CA001"))
	require.NoError(t, b.RemoveClient(ctx, "111"))

	_, err = b.FindClient("111")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientsByCategory(t *testing.T) {
	b, _ := newTestBank(t)
	seedAccounts(t, b)

	orgs := b.ClientsByCategory(model.CategoryOrganization)
	require.Len(t, orgs, 1)
	assert.Equal(t, "222", orgs[0].ID)

	assert.Len(t, b.Clients(), 2)
}

func TestOpenAccount_Duplicate(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)

	err := b.OpenAccount(ctx, model.NewSavings("CA001", "222", dec("0")))
	require.ErrorIs(t, err, ErrDuplicateKey)

	// The original account is untouched.
	a, err := b.FindAccount("CA001")
	require.NoError(t, err)
	assert.Equal(t, "111", a.Base().OwnerID)
}

func TestCloseAccount_NoBalanceCheck(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)

	// Closing ignores the non-zero balance.
	require.NoError(t, b.CloseAccount(ctx, "CA001"))
	_, err := b.FindAccount("CA001")
	require.ErrorIs(t, err, ErrNotFound)

	err = b.CloseAccount(ctx, "CA001")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountsByKindAndOwner(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)
	require.NoError(t, b.OpenAccount(ctx, model.NewChecking("CC001", "111", dec("0"), dec("1000"), dec("50"))))

	savings := b.AccountsByKind(model.KindSavings)
	require.Len(t, savings, 2)
	assert.Equal(t, "CA001", savings[0].Base().Number)

	owned := b.AccountsByOwner("111")
	require.Len(t, owned, 2)

	assert.Len(t, b.Accounts(), 3)
}

func TestMaintenanceCost_OrganizationDiscount(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)
	require.NoError(t, b.OpenAccount(ctx, model.NewChecking("CC001", "111", dec("0"), dec("1000"), dec("50"))))
	require.NoError(t, b.OpenAccount(ctx, model.NewChecking("CC002", "222", dec("0"), dec("1000"), dec("50"))))

	cost, err := b.MaintenanceCost("CC001")
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("50")))

	cost, err = b.MaintenanceCost("CC002")
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("45")), "organizations get 10%% off, got %s", cost)

	_, err = b.MaintenanceCost("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetParams_TakeEffectOnNextOperation(t *testing.T) {
	b, _ := newTestBank(t)
	ctx := context.Background()
	seedAccounts(t, b)

	b.SetTransferCommission(dec("10"))
	require.NoError(t, b.Transfer(ctx, "CA001", "CA003", dec("100")))

	// Source paid 100 + the new commission of 10.
	src, err := b.FindAccount("CA001")
	require.NoError(t, err)
	assert.Equal(t, "390.00", src.Base().Balance.StringFixed(2))
}

func TestOpenRebuildsStateFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	b := New(st, DefaultParams(), WithClock(clock.Now))
	seedAccounts(t, b)
	require.NoError(t, b.Deposit(ctx, "CA001", dec("250")))
	_, err := b.CreateFixedTerm(ctx, "CA001", dec("300"), 30)
	require.NoError(t, err)

	// A fresh bank over the same store sees the same world.
	reopened, err := Open(ctx, st, DefaultParams(), WithClock(clock.Now))
	require.NoError(t, err)

	assert.Len(t, reopened.Clients(), 2)
	assert.Len(t, reopened.Accounts(), 3)

	a, err := reopened.FindAccount("CA001")
	require.NoError(t, err)
	assert.Equal(t, "450.00", a.Base().Balance.StringFixed(2))
	// DEPOSIT + WITHDRAWAL + FIXED_TERM_CREATION history survived the reload.
	assert.Len(t, a.Base().Movements, 3)

	fts := reopened.AccountsByKind(model.KindFixedTerm)
	require.Len(t, fts, 1)
	ft := fts[0].(*model.FixedTermAccount)
	assert.True(t, ft.InitialCapital.Equal(dec("300")))
	assert.Equal(t, clock.Now().AddDate(0, 0, 30), ft.MaturesAt)
}
