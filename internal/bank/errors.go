package bank

import "errors"

// Domain error kinds. Callers branch on these with errors.Is; none of them is
// fatal to the process.
var (
	// ErrInvalidAmount rejects non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotFound means the referenced client or account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey means a client ID or account number is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrSameAccount rejects transfers where source and destination match.
	ErrSameAccount = errors.New("source and destination are the same account")

	// ErrInsufficientFunds means the variant's eligibility rule refused the
	// withdrawal. No state was mutated.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrHasActiveAccounts blocks removal of a client that still owns accounts.
	ErrHasActiveAccounts = errors.New("client has active accounts")

	// ErrWithdrawalFailed means the funding withdrawal of a fixed-term
	// creation was refused.
	ErrWithdrawalFailed = errors.New("withdrawal failed")

	// ErrCreationFailed means fixed-term registration failed after the funding
	// withdrawal; the capital was deposited back into the source account.
	ErrCreationFailed = errors.New("fixed-term creation failed")

	// ErrPersistence reports a store failure. The in-memory mutation it
	// follows is NOT rolled back; memory and store may disagree until the
	// next successful write or restart.
	ErrPersistence = errors.New("persistence failed")
)
