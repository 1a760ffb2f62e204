package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/id"
	"github.com/corebank-dev/corebank/internal/model"
)

// CreateFixedTerm funds a new fixed-term deposit by withdrawing capital from
// the source account. The new account is owned by the source's client, uses
// the ledger's current fixed-term rate, and matures termDays after creation.
// Returns the generated account number.
//
// The capital must not exceed the source's current balance, a stricter check
// than the variant eligibility rule: a checking account cannot fund a deposit
// out of its overdraft.
func (b *Bank) CreateFixedTerm(ctx context.Context, sourceNumber string, capital decimal.Decimal, termDays int) (string, error) {
	if !capital.IsPositive() {
		return "", fmt.Errorf("fixed-term capital %s: %w", capital, ErrInvalidAmount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok := b.accounts[sourceNumber]
	if !ok {
		return "", fmt.Errorf("account %s: %w", sourceNumber, ErrNotFound)
	}
	if capital.GreaterThan(src.Base().Balance) {
		return "", fmt.Errorf("capital %s exceeds balance of %s: %w", capital, sourceNumber, ErrInsufficientFunds)
	}

	now := b.now()
	if !src.CanWithdraw(capital, now) {
		return "", fmt.Errorf("funding withdrawal from %s: %w", sourceNumber, ErrWithdrawalFailed)
	}
	withdrawal := b.apply(src, model.MovementWithdrawal, capital.Neg())

	number := id.NewFixedTermNumber(now)
	acct := model.NewFixedTerm(number, src.Base().OwnerID, capital, b.params.FixedTermRate, now, termDays)

	if _, exists := b.accounts[number]; exists {
		// Best-effort compensation, not a two-phase commit: put the capital
		// back and report failure.
		compensation := b.apply(src, model.MovementDeposit, capital)
		if err := b.persist(ctx, []model.Account{src}, []model.Movement{withdrawal, compensation}); err != nil {
			return "", fmt.Errorf("%w: compensation not persisted: %v", ErrCreationFailed, err)
		}
		return "", fmt.Errorf("account %s already exists: %w", number, ErrCreationFailed)
	}
	b.accounts[number] = acct

	// The funding was already debited by the WITHDRAWAL above; the creation
	// movement is an additional audit record and must not hit the balance a
	// second time.
	creation := b.record(src, model.MovementFixedTermCreation, capital.Neg())

	if err := b.persist(ctx, []model.Account{src, acct}, []model.Movement{withdrawal, creation}); err != nil {
		return number, err
	}
	return number, nil
}

// AccrueInterest credits a matured fixed-term account's interest and persists
// the new balance. It is a no-op before maturity and idempotent after it. No
// movement is recorded; accrual is a silent balance adjustment.
func (b *Bank) AccrueInterest(ctx context.Context, number string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	ft, ok := a.(*model.FixedTermAccount)
	if !ok {
		return fmt.Errorf("account %s is not a fixed-term deposit: %w", number, ErrNotFound)
	}
	if !ft.Matured(b.now()) {
		return nil
	}

	ft.AccrueInterest(b.now())

	if err := b.store.UpsertAccount(ctx, ft); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// AccrueMatured accrues interest on every matured fixed-term account and
// returns how many were credited for the first time. Safe to run on a
// schedule.
func (b *Bank) AccrueMatured(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	credited := 0
	var errs []error
	for _, a := range b.accounts {
		ft, ok := a.(*model.FixedTermAccount)
		if !ok || !ft.Matured(b.now()) {
			continue
		}
		first := ft.AccruedInterest.IsZero()
		ft.AccrueInterest(b.now())
		if first {
			credited++
		}
		if err := b.store.UpsertAccount(ctx, ft); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return credited, fmt.Errorf("%w: %v", ErrPersistence, errors.Join(errs...))
	}
	return credited, nil
}
