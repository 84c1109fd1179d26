package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/resilience"
)

// Value holds one lazily loaded value with an explicit freshness window:
// {value, fetchedAt, ttl}. Get reuses the value until the TTL elapses and
// Refresh forces a reload. Concurrent loads share one loader call.
type Value[T any] struct {
	load  func(context.Context) (T, error)
	ttl   time.Duration
	clock clock.Clock

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	loaded    bool

	flight resilience.SingleFlight[T]
}

func NewValue[T any](ttl time.Duration, clk clock.Clock, load func(context.Context) (T, error)) *Value[T] {
	if clk == nil {
		clk = clock.System()
	}
	return &Value[T]{load: load, ttl: ttl, clock: clk}
}

// Get returns the cached value, loading it when missing or stale.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	if value, ok := v.fresh(); ok {
		return value, nil
	}
	return v.reload(ctx, false)
}

// Refresh discards the cached value and loads a new one.
func (v *Value[T]) Refresh(ctx context.Context) (T, error) {
	return v.reload(ctx, true)
}

// Invalidate drops the cached value so the next Get reloads it.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	var zero T
	v.value, v.loaded, v.fetchedAt = zero, false, time.Time{}
	v.mu.Unlock()
}

// FetchedAt reports when the current value was loaded.
func (v *Value[T]) FetchedAt() (time.Time, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fetchedAt, v.loaded
}

func (v *Value[T]) fresh() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.loaded {
		var zero T
		return zero, false
	}
	if v.ttl > 0 && !v.clock.Now().Before(v.fetchedAt.Add(v.ttl)) {
		var zero T
		return zero, false
	}
	return v.value, true
}

func (v *Value[T]) reload(ctx context.Context, force bool) (T, error) {
	if v.load == nil {
		var zero T
		return zero, errors.New("cache value has no loader")
	}

	value, err, _ := v.flight.Do("value", func() (T, error) {
		if !force {
			if cached, ok := v.fresh(); ok {
				return cached, nil
			}
		}

		loaded, err := v.load(ctx)
		if err != nil {
			var zero T
			return zero, err
		}

		v.mu.Lock()
		v.value, v.fetchedAt, v.loaded = loaded, v.clock.Now(), true
		v.mu.Unlock()
		return loaded, nil
	})
	return value, err
}
