package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
)

func TestValueReusesUntilTTL(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC))
	var logins atomic.Int32
	session := NewValue(time.Hour, fake, func(context.Context) (int32, error) {
		return logins.Add(1), nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := session.Get(ctx)
		if err != nil || got != 1 {
			t.Fatalf("Get #%d = %d, %v", i, got, err)
		}
	}

	fake.Advance(time.Hour)
	got, err := session.Get(ctx)
	if err != nil || got != 2 {
		t.Fatalf("Get after ttl = %d, %v; want 2", got, err)
	}

	fetchedAt, ok := session.FetchedAt()
	if !ok || !fetchedAt.Equal(fake.Now()) {
		t.Fatalf("unexpected fetchedAt %s (%v)", fetchedAt, ok)
	}
}

func TestValueRefreshForcesReload(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	v := NewValue(time.Hour, nil, func(context.Context) (int32, error) {
		return loads.Add(1), nil
	})

	ctx := context.Background()
	if _, err := v.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, err := v.Refresh(ctx)
	if err != nil || got != 2 {
		t.Fatalf("Refresh = %d, %v; want 2", got, err)
	}
	v.Invalidate()
	if got, _ := v.Get(ctx); got != 3 {
		t.Fatalf("Get after Invalidate = %d, want 3", got)
	}
}

func TestValueConcurrentMissLoadsOnce(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	v := NewValue(time.Hour, nil, func(context.Context) (string, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "token", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := v.Get(context.Background()); err != nil || got != "token" {
				t.Errorf("Get = %q, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestValueDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	v := NewValue(time.Hour, nil, func(context.Context) (string, error) {
		if attempts.Add(1) == 1 {
			return "", errors.New("login failed")
		}
		return "ok", nil
	})

	if _, err := v.Get(context.Background()); err == nil {
		t.Fatalf("expected first load to fail")
	}
	if got, err := v.Get(context.Background()); err != nil || got != "ok" {
		t.Fatalf("second Get = %q, %v", got, err)
	}
}
