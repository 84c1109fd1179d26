package outcomecheck

import (
	"context"
	"time"
)

// Repository stores review sweep results.
type Repository interface {
	Save(ctx context.Context, checks []Check) error
	ListByRun(ctx context.Context, runID string) ([]Check, error)
	ListFailingSince(ctx context.Context, since time.Time, limit int) ([]Check, error)
}
