package store

import (
	"context"
	"sync"

	"github.com/corebank-dev/corebank/internal/model"
)

// Memory is an in-process Store for tests and for running without a database.
// It keeps its own copies of accounts so later in-memory mutations by the bank
// do not leak into "persisted" state.
type Memory struct {
	mu        sync.Mutex
	clients   map[string]model.Client
	accounts  map[string]model.Account
	movements []model.Movement
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		clients:  make(map[string]model.Client),
		accounts: make(map[string]model.Account),
	}
}

func (s *Memory) UpsertClient(_ context.Context, c model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return nil
}

func (s *Memory) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
	return nil
}

func (s *Memory) Clients(_ context.Context) ([]model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out, nil
}

func (s *Memory) UpsertAccount(_ context.Context, a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Base().Number] = snapshotAccount(a)
	return nil
}

func (s *Memory) DeleteAccount(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, number)
	return nil
}

func (s *Memory) Accounts(_ context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, snapshotAccount(a))
	}
	return out, nil
}

func (s *Memory) AppendMovement(_ context.Context, m model.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
	return nil
}

func (s *Memory) Movements(_ context.Context, f MovementFilter) ([]model.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Movement
	for _, m := range s.movements {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// snapshotAccount copies the scalar state of an account. Movement history
// lives in the movements table, not on the stored account.
func snapshotAccount(a model.Account) model.Account {
	cp := model.Snapshot(a)
	cp.Base().Movements = nil
	return cp
}
