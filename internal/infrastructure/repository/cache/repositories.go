package cache

import (
	"context"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	basecache "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/cache"
)

// Feed caches every sheet of the wrapped feed by URL, so the several reads
// a single command makes hit the network once per TTL.
type Feed struct {
	next  league.Feed
	cache *basecache.Store
}

var _ league.Feed = (*Feed)(nil)

func NewFeed(next league.Feed, cache *basecache.Store) *Feed {
	return &Feed{next: next, cache: cache}
}

func (f *Feed) Roster(ctx context.Context, group league.Group) ([]league.RosterRow, error) {
	v, err := f.cache.GetOrLoad(ctx, "sheet:players:"+group.PlayersURL, func(ctx context.Context) (any, error) {
		items, err := f.next.Roster(ctx, group)
		if err != nil {
			return nil, err
		}
		return append([]league.RosterRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.RosterRow)
	return append([]league.RosterRow(nil), items...), nil
}

func (f *Feed) Schedule(ctx context.Context, group league.Group) ([]league.ScheduleRow, error) {
	v, err := f.cache.GetOrLoad(ctx, "sheet:schedule:"+group.ScheduleURL, func(ctx context.Context) (any, error) {
		items, err := f.next.Schedule(ctx, group)
		if err != nil {
			return nil, err
		}
		return append([]league.ScheduleRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.ScheduleRow)
	return append([]league.ScheduleRow(nil), items...), nil
}

func (f *Feed) Results(ctx context.Context, group league.Group) ([]league.ResultRow, error) {
	v, err := f.cache.GetOrLoad(ctx, "sheet:results:"+group.ResultsURL, func(ctx context.Context) (any, error) {
		items, err := f.next.Results(ctx, group)
		if err != nil {
			return nil, err
		}
		return append([]league.ResultRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.ResultRow)
	return append([]league.ResultRow(nil), items...), nil
}

func (f *Feed) Calendar(ctx context.Context, group league.Group) ([]league.CalendarRow, error) {
	if group.CalendarURL == "" {
		return nil, nil
	}
	v, err := f.cache.GetOrLoad(ctx, "sheet:calendar:"+group.CalendarURL, func(ctx context.Context) (any, error) {
		items, err := f.next.Calendar(ctx, group)
		if err != nil {
			return nil, err
		}
		return append([]league.CalendarRow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.CalendarRow)
	return append([]league.CalendarRow(nil), items...), nil
}

// Invalidate forgets every cached sheet.
func (f *Feed) Invalidate(ctx context.Context) {
	f.cache.DeletePrefix(ctx, "sheet:")
}
