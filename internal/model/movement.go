package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds. Transfer kinds carry the counterpart account number as a
// suffix; use TransferTo/TransferFrom to build them.
const (
	MovementDeposit           = "DEPOSIT"
	MovementWithdrawal        = "WITHDRAWAL"
	MovementTransferFee       = "TRANSFER_FEE"
	MovementFixedTermCreation = "FIXED_TERM_CREATION"
)

// TransferTo labels the debit leg of a transfer on the source account.
func TransferTo(dest string) string { return "TRANSFER_TO:" + dest }

// TransferFrom labels the credit leg of a transfer on the destination account.
func TransferFrom(source string) string { return "TRANSFER_FROM:" + source }

// Movement is one immutable row in an account's audit trail. Amount is signed
// (debits negative), and Balance is the account balance immediately after the
// movement was applied.
type Movement struct {
	ID      uuid.UUID
	Account string
	At      time.Time
	Kind    string
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// NewMovement builds a movement for an account at a point in time.
func NewMovement(account, kind string, at time.Time, amount, balance decimal.Decimal) Movement {
	return Movement{
		ID:      uuid.New(),
		Account: account,
		At:      at,
		Kind:    kind,
		Amount:  amount,
		Balance: balance,
	}
}
