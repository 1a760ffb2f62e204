package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/bank"
	"github.com/corebank-dev/corebank/internal/export"
	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

func TestWriteAccountsCSV(t *testing.T) {
	ctx := context.Background()
	b := bank.New(store.NewMemory(), bank.DefaultParams())
	require.NoError(t, b.RegisterClient(ctx, model.Client{ID: "111", Name: "Ana Gomez", Category: model.CategoryIndividual}))
	require.NoError(t, b.RegisterClient(ctx, model.Client{ID: "222", Name: "Acme SA", Category: model.CategoryOrganization}))
	require.NoError(t, b.OpenAccount(ctx, model.NewSavings("CA001", "111", decimal.NewFromInt(500))))
	require.NoError(t, b.OpenAccount(ctx, model.NewChecking("CC001", "222",
		decimal.NewFromInt(100), decimal.NewFromInt(1000), decimal.NewFromInt(50))))

	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, writeAccountsCSV(b, b.Accounts(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, export.AccountsHeader, lines[0])
	assert.Equal(t, "CA001,111,savings,500.00,0.00", lines[1])
	// Organization owner gets the discounted maintenance cost.
	assert.Equal(t, "CC001,222,checking,100.00,45.00", lines[2])
}

func TestWriteAccountsCSV_UnresolvableOwner(t *testing.T) {
	ctx := context.Background()
	b := bank.New(store.NewMemory(), bank.DefaultParams())
	require.NoError(t, b.RegisterClient(ctx, model.Client{ID: "111", Name: "Ana Gomez", Category: model.CategoryIndividual}))
	require.NoError(t, b.OpenAccount(ctx, model.NewSavings("CA001", "111", decimal.NewFromInt(500))))
	accounts := b.Accounts()
	require.NoError(t, b.CloseAccount(ctx, "CA001"))

	path := filepath.Join(t.TempDir(), "accounts.csv")
	err := writeAccountsCSV(b, accounts, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CA001")
}
