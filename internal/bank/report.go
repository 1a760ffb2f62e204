package bank

import (
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// Summary holds the on-demand aggregate figures over current in-memory state.
// Nothing here is cached.
type Summary struct {
	Clients        int
	Accounts       int
	Total          decimal.Decimal
	Savings        decimal.Decimal
	Checking       decimal.Decimal
	FixedTerm      decimal.Decimal
	OverdraftInUse decimal.Decimal
}

// Summarize computes total balances, totals by variant, and the overdraft
// currently in use across checking accounts.
func (b *Bank) Summarize() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Summary{
		Clients:        len(b.clients),
		Accounts:       len(b.accounts),
		Total:          decimal.Zero,
		Savings:        decimal.Zero,
		Checking:       decimal.Zero,
		FixedTerm:      decimal.Zero,
		OverdraftInUse: decimal.Zero,
	}
	for _, a := range b.accounts {
		balance := a.Base().Balance
		s.Total = s.Total.Add(balance)
		switch v := a.(type) {
		case *model.SavingsAccount:
			s.Savings = s.Savings.Add(balance)
		case *model.CheckingAccount:
			s.Checking = s.Checking.Add(balance)
			s.OverdraftInUse = s.OverdraftInUse.Add(v.OverdraftInUse())
		case *model.FixedTermAccount:
			s.FixedTerm = s.FixedTerm.Add(balance)
		}
	}
	return s
}
