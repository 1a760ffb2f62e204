// Package store persists clients, accounts, and movements. The bank calls it
// after each successful in-memory mutation and reads it back only at startup
// to rebuild state.
package store

import (
	"context"
	"time"

	"github.com/corebank-dev/corebank/internal/model"
)

// MovementFilter narrows a movement query. Zero values leave a dimension
// unfiltered; From and To are inclusive.
type MovementFilter struct {
	Account string
	Kind    string
	From    time.Time
	To      time.Time
}

// Matches reports whether a movement passes the filter.
func (f MovementFilter) Matches(m model.Movement) bool {
	if f.Account != "" && m.Account != f.Account {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if !f.From.IsZero() && m.At.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && m.At.After(f.To) {
		return false
	}
	return true
}

// Store is the durable record of bank state. Implementations must treat
// movements as append-only.
type Store interface {
	UpsertClient(ctx context.Context, c model.Client) error
	DeleteClient(ctx context.Context, id string) error
	Clients(ctx context.Context) ([]model.Client, error)

	UpsertAccount(ctx context.Context, a model.Account) error
	DeleteAccount(ctx context.Context, number string) error
	Accounts(ctx context.Context) ([]model.Account, error)

	AppendMovement(ctx context.Context, m model.Movement) error
	Movements(ctx context.Context, f MovementFilter) ([]model.Movement, error)
}
