package league

import (
	"context"
	"time"
)

type RosterRow struct {
	ID   int64
	Name string
}

type ScheduleRow struct {
	Player1     string
	Player2     string
	Planned     time.Time
	ScheduledAt time.Time
}

type ResultRow struct {
	Player1     string
	Player2     string
	SubmittedAt time.Time
	Score1      int
	Score2      int
	NotPlayed   bool
}

type CalendarRow struct {
	Player1 string
	Player2 string
	Round   int
	Start   time.Time
}

// Feed reads the published sheets of a group. Rows are returned in sheet
// order with dates already resolved to absolute times.
type Feed interface {
	Roster(ctx context.Context, group Group) ([]RosterRow, error)
	Schedule(ctx context.Context, group Group) ([]ScheduleRow, error)
	Results(ctx context.Context, group Group) ([]ResultRow, error)
	Calendar(ctx context.Context, group Group) ([]CalendarRow, error)
}
