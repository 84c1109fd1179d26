package memory

import (
	"context"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
)

func check(runID, status string, at time.Time) outcomecheck.Check {
	return outcomecheck.Check{RunID: runID, DuelKey: "11:22:" + at.Format("150405"), Status: status, CheckedAt: at}
}

func TestOutcomeCheckRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2022, 11, 2, 8, 0, 0, 0, time.UTC)
	repo := NewOutcomeCheckRepository()

	if err := repo.Save(ctx, []outcomecheck.Check{
		check("r1", "valid", base),
		check("r1", "score_mismatch", base.Add(time.Minute)),
	}); err != nil {
		t.Fatalf("save r1: %v", err)
	}
	if err := repo.Save(ctx, []outcomecheck.Check{
		check("r2", "error", base.Add(24*time.Hour)),
		check("r2", "ambiguous", base.Add(24*time.Hour+time.Minute)),
	}); err != nil {
		t.Fatalf("save r2: %v", err)
	}

	byRun, err := repo.ListByRun(ctx, "r1")
	if err != nil || len(byRun) != 2 {
		t.Fatalf("unexpected run listing: %+v %v", byRun, err)
	}

	failing, err := repo.ListFailingSince(ctx, base, 2)
	if err != nil {
		t.Fatalf("list failing: %v", err)
	}
	if len(failing) != 2 || failing[0].Status != "ambiguous" || failing[1].Status != "error" {
		t.Fatalf("expected newest failing checks first, got %+v", failing)
	}
}

func TestOutcomeCheckRepositoryRejectsInvalidCheck(t *testing.T) {
	t.Parallel()

	repo := NewOutcomeCheckRepository()
	if err := repo.Save(context.Background(), []outcomecheck.Check{{RunID: "r1"}}); err == nil {
		t.Fatal("expected validation error")
	}
}
