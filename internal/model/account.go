package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the account variants.
type AccountKind string

const (
	KindSavings   AccountKind = "savings"
	KindChecking  AccountKind = "checking"
	KindFixedTerm AccountKind = "fixed_term"
)

// organizationDiscount is applied to maintenance fees for organization owners.
var organizationDiscount = decimal.NewFromFloat(0.9)

// AccountBase holds the state shared by every account variant. The owner is a
// non-owning relation: only the client ID is stored, and the client registry
// resolves it.
type AccountBase struct {
	Number    string
	OwnerID   string
	Balance   decimal.Decimal
	Movements []Movement
}

// Account is the tagged-variant view of an account. Each variant supplies its
// own withdrawal-eligibility predicate and maintenance-cost rule; balance
// mutation and movement appends go through Base and are driven by the bank.
type Account interface {
	Kind() AccountKind
	Base() *AccountBase

	// CanWithdraw reports whether withdrawing amount is currently permitted
	// under the variant's rules. It never mutates state.
	CanWithdraw(amount decimal.Decimal, now time.Time) bool

	// MaintenanceCost returns the informational monthly maintenance cost for
	// an owner of the given category. No operation deducts it.
	MaintenanceCost(owner Category) decimal.Decimal
}

// Snapshot returns a value copy of an account, detached from the original:
// later mutations of the live account do not show through it. The movement
// slice is cloned as well.
func Snapshot(a Account) Account {
	base := *a.Base()
	base.Movements = slices.Clone(base.Movements)
	switch v := a.(type) {
	case *SavingsAccount:
		cp := *v
		cp.AccountBase = base
		return &cp
	case *CheckingAccount:
		cp := *v
		cp.AccountBase = base
		return &cp
	case *FixedTermAccount:
		cp := *v
		cp.AccountBase = base
		return &cp
	default:
		return a
	}
}

// SavingsAccount never allows a negative balance and carries no fee.
type SavingsAccount struct {
	AccountBase
}

// NewSavings creates a savings account with an opening balance.
func NewSavings(number, ownerID string, balance decimal.Decimal) *SavingsAccount {
	return &SavingsAccount{AccountBase{Number: number, OwnerID: ownerID, Balance: balance}}
}

func (a *SavingsAccount) Kind() AccountKind  { return KindSavings }
func (a *SavingsAccount) Base() *AccountBase { return &a.AccountBase }

func (a *SavingsAccount) CanWithdraw(amount decimal.Decimal, _ time.Time) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

func (a *SavingsAccount) MaintenanceCost(_ Category) decimal.Decimal {
	return decimal.Zero
}

// CheckingAccount may go overdrawn down to -OverdraftLimit and carries a base
// maintenance fee, discounted 10% for organization owners.
type CheckingAccount struct {
	AccountBase
	OverdraftLimit decimal.Decimal
	BaseFee        decimal.Decimal
}

// NewChecking creates a checking account with an opening balance, overdraft
// limit, and base maintenance fee.
func NewChecking(number, ownerID string, balance, overdraftLimit, baseFee decimal.Decimal) *CheckingAccount {
	return &CheckingAccount{
		AccountBase:    AccountBase{Number: number, OwnerID: ownerID, Balance: balance},
		OverdraftLimit: overdraftLimit,
		BaseFee:        baseFee,
	}
}

func (a *CheckingAccount) Kind() AccountKind  { return KindChecking }
func (a *CheckingAccount) Base() *AccountBase { return &a.AccountBase }

func (a *CheckingAccount) CanWithdraw(amount decimal.Decimal, _ time.Time) bool {
	return a.Balance.Add(a.OverdraftLimit).GreaterThanOrEqual(amount)
}

func (a *CheckingAccount) MaintenanceCost(owner Category) decimal.Decimal {
	if owner == CategoryOrganization {
		return a.BaseFee.Mul(organizationDiscount)
	}
	return a.BaseFee
}

// OverdraftInUse returns how far the balance is below zero, or zero.
func (a *CheckingAccount) OverdraftInUse() decimal.Decimal {
	if a.Balance.IsNegative() {
		return a.Balance.Neg()
	}
	return decimal.Zero
}

// FixedTermAccount locks its capital until maturity. Withdrawals are refused
// before MaturesAt regardless of balance, and interest is credited once at or
// after maturity.
type FixedTermAccount struct {
	AccountBase
	InitialCapital  decimal.Decimal
	AnnualRate      decimal.Decimal
	CreatedAt       time.Time
	MaturesAt       time.Time
	AccruedInterest decimal.Decimal
}

// NewFixedTerm creates a fixed-term account holding capital for termDays at
// the given annual rate.
func NewFixedTerm(number, ownerID string, capital, annualRate decimal.Decimal, createdAt time.Time, termDays int) *FixedTermAccount {
	return &FixedTermAccount{
		AccountBase:    AccountBase{Number: number, OwnerID: ownerID, Balance: capital},
		InitialCapital: capital,
		AnnualRate:     annualRate,
		CreatedAt:      createdAt,
		MaturesAt:      createdAt.AddDate(0, 0, termDays),
	}
}

func (a *FixedTermAccount) Kind() AccountKind  { return KindFixedTerm }
func (a *FixedTermAccount) Base() *AccountBase { return &a.AccountBase }

func (a *FixedTermAccount) CanWithdraw(amount decimal.Decimal, now time.Time) bool {
	return a.Matured(now) && a.Balance.GreaterThanOrEqual(amount)
}

func (a *FixedTermAccount) MaintenanceCost(_ Category) decimal.Decimal {
	return decimal.Zero
}

// Matured reports whether the maturity timestamp has been reached.
func (a *FixedTermAccount) Matured(now time.Time) bool {
	return !now.Before(a.MaturesAt)
}

// AccrueInterest credits the term's interest at or after maturity:
// interest = capital * rate * months/12, with months = term days / 30.
// Before maturity it is a no-op. Recomputing after maturity always yields the
// same balance, so repeated calls are safe. Accrual is a silent balance
// adjustment and is not recorded as a movement.
func (a *FixedTermAccount) AccrueInterest(now time.Time) {
	if !a.Matured(now) {
		return
	}
	days := int64(a.MaturesAt.Sub(a.CreatedAt).Hours() / 24)
	months := decimal.NewFromInt(days).Div(decimal.NewFromInt(30))
	interest := a.InitialCapital.Mul(a.AnnualRate).Mul(months).Div(decimal.NewFromInt(12))
	a.Balance = a.InitialCapital.Add(interest)
	a.AccruedInterest = interest
}
