package clock

import (
	"context"
	"testing"
	"time"
)

func TestSystemSleepHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := System().Sleep(ctx, time.Hour); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFakeSleepAdvancesTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2022, 11, 1, 10, 0, 0, 0, time.UTC)
	fake := NewFake(start)
	if err := fake.Sleep(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	fake.Advance(time.Minute)

	if got := fake.Now(); !got.Equal(start.Add(time.Minute + 3*time.Second)) {
		t.Fatalf("unexpected now: %s", got)
	}
	if sleeps := fake.Sleeps(); len(sleeps) != 1 || sleeps[0] != 3*time.Second {
		t.Fatalf("unexpected sleeps: %v", sleeps)
	}
}
