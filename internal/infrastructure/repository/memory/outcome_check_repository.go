package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
)

// OutcomeCheckRepository keeps the ledger in process. It backs one-shot
// commands run without a database.
type OutcomeCheckRepository struct {
	mu    sync.RWMutex
	items []outcomecheck.Check
}

var _ outcomecheck.Repository = (*OutcomeCheckRepository)(nil)

func NewOutcomeCheckRepository() *OutcomeCheckRepository {
	return &OutcomeCheckRepository{}
}

func (r *OutcomeCheckRepository) Save(_ context.Context, checks []outcomecheck.Check) error {
	for i, c := range checks {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("check %d: %w", i, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, checks...)
	return nil
}

func (r *OutcomeCheckRepository) ListByRun(_ context.Context, runID string) ([]outcomecheck.Check, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]outcomecheck.Check, 0)
	for _, c := range r.items {
		if c.RunID == runID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListFailingSince returns the newest failing checks first.
func (r *OutcomeCheckRepository) ListFailingSince(_ context.Context, since time.Time, limit int) ([]outcomecheck.Check, error) {
	r.mu.RLock()
	out := make([]outcomecheck.Check, 0)
	for _, c := range r.items {
		if c.Failing() && !c.CheckedAt.Before(since) {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckedAt.After(out[j].CheckedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
