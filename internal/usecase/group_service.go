package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/calendar"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

// Review is the result of checking one submitted duel.
type Review struct {
	Group   league.Group
	Duel    duel.Duel
	Verdict outcome.Verdict
	Err     error
}

// Failing reports whether the duel needs a human to look at it.
func (r Review) Failing() bool {
	return r.Err != nil || !r.Verdict.Valid()
}

func (r Review) Describe() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: check failed: %v", r.Duel.String(), r.Err)
	}
	return r.Verdict.Describe(r.Duel)
}

// GroupService answers questions about one group: its roster, its schedule,
// its submitted results and which of those look wrong.
type GroupService struct {
	feed     league.Feed
	outcomes *OutcomeService
	clock    clock.Clock
	location *time.Location
	pacing   time.Duration
	logger   *logging.Logger
}

func NewGroupService(feed league.Feed, outcomes *OutcomeService, clk clock.Clock, location *time.Location, pacing time.Duration, logger *logging.Logger) *GroupService {
	if clk == nil {
		clk = clock.System()
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GroupService{
		feed:     feed,
		outcomes: outcomes,
		clock:    clk,
		location: location,
		pacing:   pacing,
		logger:   logger,
	}
}

func (s *GroupService) Players(ctx context.Context, g league.Group) ([]player.Player, error) {
	rows, err := s.feed.Roster(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("read roster of group %s: %w", g.Name, err)
	}

	out := make([]player.Player, 0, len(rows))
	for i, row := range rows {
		p, err := player.New(row.ID, row.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: group %s roster row %d: %v", ErrInvalidInput, g.Name, i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// FindPlayer looks a name up in the roster ignoring case.
func FindPlayer(g league.Group, players []player.Player, name string) (player.Player, error) {
	for _, p := range players {
		if p.Matches(name) {
			return p, nil
		}
	}
	return player.Player{}, fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, name, g.Name)
}

func (s *GroupService) Schedule(ctx context.Context, g league.Group) ([]duel.Duel, error) {
	players, err := s.Players(ctx, g)
	if err != nil {
		return nil, err
	}
	return s.schedule(ctx, g, players)
}

func (s *GroupService) schedule(ctx context.Context, g league.Group, players []player.Player) ([]duel.Duel, error) {
	rows, err := s.feed.Schedule(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("read schedule of group %s: %w", g.Name, err)
	}

	out := make([]duel.Duel, 0, len(rows))
	for _, row := range rows {
		p1, p2, err := findPair(g, players, row.Player1, row.Player2)
		if err != nil {
			return nil, err
		}
		out = append(out, duel.Scheduled(p1, p2, row.Planned, row.ScheduledAt))
	}
	return out, nil
}

// Outcome lists submitted duels. A result borrows the planned and scheduling
// times of its schedule row; results never scheduled use the submission time
// for both.
func (s *GroupService) Outcome(ctx context.Context, g league.Group) ([]duel.Duel, error) {
	players, err := s.Players(ctx, g)
	if err != nil {
		return nil, err
	}
	schedule, err := s.schedule(ctx, g, players)
	if err != nil {
		return nil, err
	}

	rows, err := s.feed.Results(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("read results of group %s: %w", g.Name, err)
	}

	out := make([]duel.Duel, 0, len(rows))
	for _, row := range rows {
		p1, p2, err := findPair(g, players, row.Player1, row.Player2)
		if err != nil {
			return nil, err
		}

		planned, scheduledAt := row.SubmittedAt, row.SubmittedAt
		if scheduled, err := findScheduled(schedule, p1, p2); err == nil {
			planned, scheduledAt = scheduled.Planned, scheduled.ScheduledAt
		}
		out = append(out, duel.Submitted(p1, p2, planned, scheduledAt, row.SubmittedAt, row.Score1, row.Score2, !row.NotPlayed))
	}
	return out, nil
}

// FindScheduledDuel returns the schedule entry for an ordered pair.
func (s *GroupService) FindScheduledDuel(ctx context.Context, g league.Group, p1, p2 player.Player) (duel.Duel, error) {
	schedule, err := s.Schedule(ctx, g)
	if err != nil {
		return duel.Duel{}, err
	}
	return findScheduled(schedule, p1, p2)
}

// ShowsSchedule reports whether a query for day lists planned duels rather
// than submitted results: today, future days, or when forced.
func (s *GroupService) ShowsSchedule(day time.Time, force bool) bool {
	return force || !s.startOfDay(day).Before(s.today())
}

// Duels returns the group's duels for a day ordered by planned time. Today
// and later days list the schedule by planned day; earlier days list results
// by submission day. force always lists the schedule.
func (s *GroupService) Duels(ctx context.Context, g league.Group, day time.Time, force bool) ([]duel.Duel, error) {
	var (
		all []duel.Duel
		at  func(duel.Duel) time.Time
		err error
	)
	if s.ShowsSchedule(day, force) {
		all, err = s.Schedule(ctx, g)
		at = func(d duel.Duel) time.Time { return d.Planned }
	} else {
		all, err = s.Outcome(ctx, g)
		at = func(d duel.Duel) time.Time { return d.SubmittedAt }
	}
	if err != nil {
		return nil, err
	}
	return s.onDay(all, day, at), nil
}

// Submitted returns the results submitted on day ordered by planned time.
func (s *GroupService) Submitted(ctx context.Context, g league.Group, day time.Time) ([]duel.Duel, error) {
	all, err := s.Outcome(ctx, g)
	if err != nil {
		return nil, err
	}
	return s.onDay(all, day, func(d duel.Duel) time.Time { return d.SubmittedAt }), nil
}

// Calendar returns the group's round calendar; ok is false when the group
// publishes none.
func (s *GroupService) Calendar(ctx context.Context, g league.Group) (*calendar.Calendar, bool, error) {
	if g.CalendarURL == "" {
		return nil, false, nil
	}
	players, err := s.Players(ctx, g)
	if err != nil {
		return nil, false, err
	}
	rows, err := s.feed.Calendar(ctx, g)
	if err != nil {
		return nil, false, fmt.Errorf("read calendar of group %s: %w", g.Name, err)
	}

	cal := calendar.New()
	for _, row := range rows {
		if row.Player1 == "" || row.Player2 == "" {
			continue
		}
		p1, p2, err := findPair(g, players, row.Player1, row.Player2)
		if err != nil {
			return nil, false, err
		}
		cal.Add(p1, p2, row.Round, row.Start)
	}
	return cal, true, nil
}

// Unscheduled lists the pairings of the previous round that never got a
// schedule row.
func (s *GroupService) Unscheduled(ctx context.Context, g league.Group) ([]calendar.Pairing, error) {
	cal, ok, err := s.Calendar(ctx, g)
	if err != nil || !ok {
		return nil, err
	}
	schedule, err := s.Schedule(ctx, g)
	if err != nil {
		return nil, err
	}

	var out []calendar.Pairing
	for _, pairing := range cal.Pairings(cal.CurrentRound(s.clock.Now()) - 1) {
		if _, err := findScheduled(schedule, pairing.P1, pairing.P2); errors.Is(err, ErrDuelNotFound) {
			out = append(out, pairing)
		}
	}
	return out, nil
}

// ReviewDay checks every result submitted on day, one duel at a time with a
// pacing delay after each. A provider failure is recorded on that duel's
// review and the sweep moves on.
func (s *GroupService) ReviewDay(ctx context.Context, g league.Group, day time.Time) ([]Review, error) {
	duels, err := s.Submitted(ctx, g, day)
	if err != nil {
		return nil, err
	}

	reviews := make([]Review, 0, len(duels))
	for _, d := range duels {
		verdict, err := s.outcomes.CheckStrict(ctx, d)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return reviews, ctxErr
			}
			s.logger.ErrorContext(ctx, "outcome check failed",
				"group", g.Name,
				"duel", d.String(),
				"error", err,
			)
		}
		reviews = append(reviews, Review{Group: g, Duel: d, Verdict: verdict, Err: err})

		if s.pacing > 0 {
			if err := s.clock.Sleep(ctx, s.pacing); err != nil {
				return reviews, err
			}
		}
	}
	return reviews, nil
}

// WrongOutcomes returns the failing reviews of a day.
func (s *GroupService) WrongOutcomes(ctx context.Context, g league.Group, day time.Time) ([]Review, error) {
	reviews, err := s.ReviewDay(ctx, g, day)
	failing := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Failing() {
			failing = append(failing, r)
		}
	}
	return failing, err
}

func (s *GroupService) onDay(all []duel.Duel, day time.Time, at func(duel.Duel) time.Time) []duel.Duel {
	start := s.startOfDay(day)
	end := start.AddDate(0, 0, 1)

	out := make([]duel.Duel, 0)
	for _, d := range all {
		t := at(d)
		if t.IsZero() || t.Before(start) || !t.Before(end) {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Planned.Before(out[j].Planned)
	})
	return out
}

func (s *GroupService) today() time.Time {
	return s.startOfDay(s.clock.Now())
}

func (s *GroupService) startOfDay(t time.Time) time.Time {
	local := t.In(s.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
}

func findPair(g league.Group, players []player.Player, name1, name2 string) (player.Player, player.Player, error) {
	p1, err := FindPlayer(g, players, name1)
	if err != nil {
		return player.Player{}, player.Player{}, err
	}
	p2, err := FindPlayer(g, players, name2)
	if err != nil {
		return player.Player{}, player.Player{}, err
	}
	return p1, p2, nil
}

func findScheduled(schedule []duel.Duel, p1, p2 player.Player) (duel.Duel, error) {
	for _, d := range schedule {
		if d.P1.Equal(p1) && d.P2.Equal(p2) {
			return d, nil
		}
	}
	return duel.Duel{}, fmt.Errorf("%w: %s vs %s", ErrDuelNotFound, p1.String(), p2.String())
}
