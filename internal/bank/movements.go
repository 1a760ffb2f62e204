package bank

import (
	"iter"
	"slices"

	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/store"
)

// Movements returns the movements matching the filter as a lazy, restartable
// sequence in chronological order. The sequence iterates over a snapshot
// taken when Movements is called; an unknown account yields an empty
// sequence.
func (b *Bank) Movements(f store.MovementFilter) iter.Seq[model.Movement] {
	b.mu.Lock()
	var snapshot []model.Movement
	if f.Account != "" {
		if a, ok := b.accounts[f.Account]; ok {
			snapshot = slices.Clone(a.Base().Movements)
		}
	} else {
		for _, a := range b.accounts {
			snapshot = append(snapshot, a.Base().Movements...)
		}
		slices.SortStableFunc(snapshot, func(a, c model.Movement) int {
			return a.At.Compare(c.At)
		})
	}
	b.mu.Unlock()

	return func(yield func(model.Movement) bool) {
		for _, m := range snapshot {
			if !f.Matches(m) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}
