package bank

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// Deposit increases an account's balance. Any positive amount is accepted.
func (b *Bank) Deposit(ctx context.Context, number string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit of %s: %w", amount, ErrInvalidAmount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return fmt.Errorf("account %s: %w", number, ErrNotFound)
	}

	m := b.apply(a, model.MovementDeposit, amount)
	return b.persist(ctx, []model.Account{a}, []model.Movement{m})
}

// Withdraw decreases an account's balance if the variant's eligibility rule
// permits it.
func (b *Bank) Withdraw(ctx context.Context, number string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdrawal of %s: %w", amount, ErrInvalidAmount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	if !a.CanWithdraw(amount, b.now()) {
		return fmt.Errorf("withdrawal of %s from %s: %w", amount, number, ErrInsufficientFunds)
	}

	m := b.apply(a, model.MovementWithdrawal, amount.Neg())
	return b.persist(ctx, []model.Account{a}, []model.Movement{m})
}

// Transfer moves amount from one account to another. When the accounts belong
// to different clients, the ledger's commission is charged to the source on
// top of the amount. The source must be eligible to withdraw amount plus
// commission as one combined check; otherwise nothing is mutated on either
// side.
func (b *Bank) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("transfer of %s: %w", amount, ErrInvalidAmount)
	}
	if fromNumber == toNumber {
		return fmt.Errorf("transfer from %s to itself: %w", fromNumber, ErrSameAccount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok := b.accounts[fromNumber]
	if !ok {
		return fmt.Errorf("account %s: %w", fromNumber, ErrNotFound)
	}
	dst, ok := b.accounts[toNumber]
	if !ok {
		return fmt.Errorf("account %s: %w", toNumber, ErrNotFound)
	}

	commission := decimal.Zero
	if src.Base().OwnerID != dst.Base().OwnerID {
		commission = b.params.TransferCommission
	}

	if !src.CanWithdraw(amount.Add(commission), b.now()) {
		return fmt.Errorf("transfer of %s from %s: %w", amount, fromNumber, ErrInsufficientFunds)
	}

	var movements []model.Movement
	if commission.IsPositive() {
		movements = append(movements, b.apply(src, model.MovementTransferFee, commission.Neg()))
	}
	movements = append(movements,
		b.apply(src, model.TransferTo(toNumber), amount.Neg()),
		b.apply(dst, model.TransferFrom(fromNumber), amount),
	)

	return b.persist(ctx, []model.Account{src, dst}, movements)
}
