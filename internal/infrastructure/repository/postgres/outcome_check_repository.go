package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
	qb "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/querybuilder"
)

// saveChunkSize keeps a batch under postgres' 65535 bind parameter limit.
const saveChunkSize = 500

type OutcomeCheckRepository struct {
	db *sqlx.DB
}

var _ outcomecheck.Repository = (*OutcomeCheckRepository)(nil)

func NewOutcomeCheckRepository(db *sqlx.DB) *OutcomeCheckRepository {
	return &OutcomeCheckRepository{db: db}
}

// Save writes a sweep's checks in one transaction. A check already stored
// for the same run and duel is left as is.
func (r *OutcomeCheckRepository) Save(ctx context.Context, checks []outcomecheck.Check) error {
	if len(checks) == 0 {
		return nil
	}

	models := make([]outcomeCheckModel, 0, len(checks))
	for i, c := range checks {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("check %d: %w", i, err)
		}
		models = append(models, newOutcomeCheckModel(c))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save outcome checks: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(models); start += saveChunkSize {
		end := min(start+saveChunkSize, len(models))
		query, args, err := qb.InsertModels(outcomeChecksTable, models[start:end], "ON CONFLICT (run_id, duel_key) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert outcome checks query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert outcome checks run_id=%s: %w", checks[0].RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit outcome checks: %w", err)
	}
	return nil
}

func (r *OutcomeCheckRepository) ListByRun(ctx context.Context, runID string) ([]outcomecheck.Check, error) {
	query, args, err := qb.Select(outcomeCheckColumns...).From(outcomeChecksTable).
		Where(qb.Eq("run_id", runID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select outcome checks by run query: %w", err)
	}
	return r.selectChecks(ctx, query, args)
}

func (r *OutcomeCheckRepository) ListFailingSince(ctx context.Context, since time.Time, limit int) ([]outcomecheck.Check, error) {
	query, args, err := qb.Select(outcomeCheckColumns...).From(outcomeChecksTable).
		Where(
			qb.Expr("checked_at >= ?", since.UTC()),
			qb.Expr("status <> ?", string(outcome.StatusValid)),
		).
		OrderBy("checked_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select failing outcome checks query: %w", err)
	}
	return r.selectChecks(ctx, query, args)
}

func (r *OutcomeCheckRepository) selectChecks(ctx context.Context, query string, args []any) ([]outcomecheck.Check, error) {
	var rows []outcomeCheckModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select outcome checks: %w", err)
	}

	out := make([]outcomecheck.Check, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
