package app

import (
	"context"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler(context.Background(), time.UTC, logging.NewNop(), Job{
		Name: "broken",
		Spec: "every morning",
		Run:  func(context.Context) error { return nil },
	})
	if err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestSchedulerRunsJobsUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)

	scheduler, err := NewScheduler(ctx, time.UTC, logging.NewNop(), Job{
		Name: "tick",
		Spec: "@every 1s",
		Run: func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if scheduler.Entries() != 1 {
		t.Fatalf("expected one entry, got %d", scheduler.Entries())
	}

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
