package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
	leaguemock "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/mocks/domain/league"
	outcomecheckmock "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/mocks/domain/outcomecheck"
	usecasemock "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/mocks/usecase"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const pacing = 5 * time.Second

var (
	madrid = mustLocation("Europe/Madrid")
	groupA = league.Group{Name: "Elite", Order: 1, PlayersURL: "a/players", ScheduleURL: "a/schedule", ResultsURL: "a/results"}
	groupB = league.Group{Name: "Primera", Order: 2, PlayersURL: "b/players", ScheduleURL: "b/schedule", ResultsURL: "b/results"}
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func inMadrid(day, hour, minute int) time.Time {
	return time.Date(2022, time.November, day, hour, minute, 0, 0, madrid)
}

func roster() []league.RosterRow {
	return []league.RosterRow{
		{ID: 11, Name: "Alice"},
		{ID: 22, Name: "Bob"},
		{ID: 33, Name: "Carol"},
		{ID: 44, Name: "Dave"},
	}
}

func stubFeed(t *testing.T, g league.Group, schedule []league.ScheduleRow, results []league.ResultRow) *leaguemock.Feed {
	feed := leaguemock.NewFeed(t)
	feed.On("Roster", mock.Anything, g).Return(roster(), nil).Maybe()
	feed.On("Schedule", mock.Anything, g).Return(schedule, nil).Maybe()
	feed.On("Results", mock.Anything, g).Return(results, nil).Maybe()
	return feed
}

func newGroupService(feed league.Feed, provider usecase.GameHistoryProvider, clk clock.Clock) *usecase.GroupService {
	outcomes := usecase.NewOutcomeService(provider, clk, usecase.OutcomeServiceConfig{}, logging.NewNop())
	return usecase.NewGroupService(feed, outcomes, clk, madrid, pacing, logging.NewNop())
}

func TestGroupService_Duels_TodayListsScheduleByPlannedTime(t *testing.T) {
	t.Parallel()

	feed := stubFeed(t, groupA, []league.ScheduleRow{
		{Player1: "carol", Player2: "dave", Planned: inMadrid(2, 22, 0), ScheduledAt: inMadrid(1, 9, 0)},
		{Player1: "Alice", Player2: "Bob", Planned: inMadrid(2, 18, 30), ScheduledAt: inMadrid(1, 9, 0)},
		{Player1: "Alice", Player2: "Carol", Planned: inMadrid(3, 18, 30), ScheduledAt: inMadrid(1, 9, 0)},
	}, nil)
	clk := clock.NewFake(inMadrid(2, 10, 0))
	service := newGroupService(feed, usecasemock.NewGameHistoryProvider(t), clk)

	duels, err := service.Duels(context.Background(), groupA, clk.Now(), false)
	if err != nil {
		t.Fatalf("duels: %v", err)
	}
	if len(duels) != 2 {
		t.Fatalf("expected two duels today, got %d", len(duels))
	}
	if duels[0].P1.Name != "Alice" || duels[1].P1.Name != "Carol" {
		t.Fatalf("expected planned time order, got %s then %s", duels[0], duels[1])
	}
	if got := duels[0].String(); got != "Alice - Bob: 18:30" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestGroupService_Duels_PastDayListsResultsBySubmission(t *testing.T) {
	t.Parallel()

	feed := stubFeed(t, groupA,
		[]league.ScheduleRow{
			{Player1: "Alice", Player2: "Bob", Planned: inMadrid(1, 20, 0), ScheduledAt: inMadrid(1, 9, 0)},
		},
		[]league.ResultRow{
			{Player1: "Alice", Player2: "Bob", SubmittedAt: inMadrid(1, 21, 30), Score1: 2, Score2: 1},
			{Player1: "Carol", Player2: "Dave", SubmittedAt: inMadrid(2, 0, 15), Score1: 0, Score2: 2},
		},
	)
	clk := clock.NewFake(inMadrid(2, 10, 0))
	service := newGroupService(feed, usecasemock.NewGameHistoryProvider(t), clk)

	duels, err := service.Duels(context.Background(), groupA, inMadrid(1, 12, 0), false)
	if err != nil {
		t.Fatalf("duels: %v", err)
	}
	if len(duels) != 1 {
		t.Fatalf("expected one result on the 1st, got %d", len(duels))
	}
	if !duels[0].Planned.Equal(inMadrid(1, 20, 0)) {
		t.Fatalf("expected planned time borrowed from the schedule, got %s", duels[0].Planned)
	}
	if got := duels[0].String(); got != "Alice 2 - 1 Bob" {
		t.Fatalf("unexpected rendering: %q", got)
	}

	forced, err := service.Duels(context.Background(), groupA, inMadrid(1, 12, 0), true)
	if err != nil {
		t.Fatalf("forced duels: %v", err)
	}
	if len(forced) != 1 || forced[0].HasOutcome() {
		t.Fatalf("expected the forced query to list the schedule, got %+v", forced)
	}
}

func TestGroupService_UnknownPlayer(t *testing.T) {
	t.Parallel()

	feed := stubFeed(t, groupA, []league.ScheduleRow{
		{Player1: "Alice", Player2: "Mallory", Planned: inMadrid(2, 20, 0)},
	}, nil)
	service := newGroupService(feed, usecasemock.NewGameHistoryProvider(t), clock.NewFake(inMadrid(2, 10, 0)))

	_, err := service.Schedule(context.Background(), groupA)
	if !errors.Is(err, usecase.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestGroupService_ReviewDay_ContinuesAfterProviderFailure(t *testing.T) {
	t.Parallel()

	feed := stubFeed(t, groupA, nil, []league.ResultRow{
		{Player1: "Alice", Player2: "Bob", SubmittedAt: inMadrid(1, 20, 0), Score1: 2, Score2: 0},
		{Player1: "Carol", Player2: "Dave", SubmittedAt: inMadrid(1, 21, 0), Score1: 2, Score2: 0},
	})
	provider := usecasemock.NewGameHistoryProvider(t)
	provider.
		On("FetchTables", mock.Anything, mock.MatchedBy(func(q usecase.TableQuery) bool { return q.P1ID == 11 })).
		Return(nil, usecase.ErrProviderTimeout).
		Once()
	provider.
		On("FetchTables", mock.Anything, mock.MatchedBy(func(q usecase.TableQuery) bool { return q.P1ID == 33 })).
		Return([]outcome.Table{
			{ID: "1", PlayerNames: "Carol,Dave", Scores: "110,90"},
			{ID: "2", PlayerNames: "Carol,Dave", Scores: "100,70"},
		}, nil).
		Once()

	clk := clock.NewFake(inMadrid(2, 10, 0))
	service := newGroupService(feed, provider, clk)

	reviews, err := service.ReviewDay(context.Background(), groupA, inMadrid(1, 0, 0))
	if err != nil {
		t.Fatalf("review day: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected both duels reviewed, got %d", len(reviews))
	}
	if !errors.Is(reviews[0].Err, usecase.ErrProviderTimeout) || !reviews[0].Failing() {
		t.Fatalf("expected first review to carry the provider error, got %+v", reviews[0])
	}
	if reviews[1].Err != nil || !reviews[1].Verdict.Valid() {
		t.Fatalf("expected second review valid, got %+v", reviews[1])
	}

	var paced int
	for _, d := range clk.Sleeps() {
		if d == pacing {
			paced++
		}
	}
	if paced != 2 {
		t.Fatalf("expected a pacing pause after each duel, got %v", clk.Sleeps())
	}
}

func TestReviewService_Sweep_RecordsEveryCheck(t *testing.T) {
	t.Parallel()

	feedA := stubFeed(t, groupA, nil, []league.ResultRow{
		{Player1: "Alice", Player2: "Bob", SubmittedAt: inMadrid(1, 20, 0), Score1: 1, Score2: 2},
	})
	feedA.On("Roster", mock.Anything, groupB).Return(nil, errors.New("sheet unpublished")).Once()

	provider := usecasemock.NewGameHistoryProvider(t)
	provider.
		On("FetchTables", mock.Anything, mock.Anything).
		Return([]outcome.Table{{ID: "1", PlayerNames: "Alice,Bob", Scores: "120,80"}}, nil).
		Twice()

	ledger := outcomecheckmock.NewRepository(t)
	ledger.
		On("Save", mock.Anything, mock.MatchedBy(func(checks []outcomecheck.Check) bool {
			return len(checks) == 1 &&
				checks[0].RunID == "run_1" &&
				checks[0].GroupName == "Elite" &&
				checks[0].Status == string(outcome.StatusInsufficientData) &&
				checks[0].ClaimedP1 == 1 && checks[0].ClaimedP2 == 2
		})).
		Return(nil).
		Once()

	clk := clock.NewFake(inMadrid(2, 10, 0))
	leagues, err := usecase.NewLeagueService([]league.Season{{Number: 7, Groups: []league.Group{groupB, groupA}}}, 0)
	if err != nil {
		t.Fatalf("new league service: %v", err)
	}
	groups := newGroupService(feedA, provider, clk)
	service := usecase.NewReviewService(leagues, groups, ledger, fixedIDs{"run_1"}, clk, logging.NewNop())

	report, err := service.Sweep(context.Background(), 0, inMadrid(1, 0, 0))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if report.Season != 7 || report.RunID != "run_1" {
		t.Fatalf("unexpected report header: %+v", report)
	}
	if len(report.Failing()) != 1 {
		t.Fatalf("expected one failing review, got %d", len(report.Failing()))
	}
	if _, ok := report.GroupErrors["Primera"]; !ok {
		t.Fatalf("expected Primera group error, got %v", report.GroupErrors)
	}
}

func TestDigestService_Build(t *testing.T) {
	t.Parallel()

	feedA := stubFeed(t, groupA, []league.ScheduleRow{
		{Player1: "Alice", Player2: "Bob", Planned: inMadrid(2, 18, 30)},
	}, nil)
	feedA.On("Roster", mock.Anything, groupB).Return(roster(), nil).Maybe()
	feedA.On("Schedule", mock.Anything, groupB).Return([]league.ScheduleRow{}, nil).Maybe()

	clk := clock.NewFake(inMadrid(2, 10, 0))
	leagues, err := usecase.NewLeagueService([]league.Season{{Number: 7, Groups: []league.Group{groupA, groupB}}}, 7)
	if err != nil {
		t.Fatalf("new league service: %v", err)
	}
	service := usecase.NewDigestService(leagues, newGroupService(feedA, usecasemock.NewGameHistoryProvider(t), clk))

	digest, err := service.Build(context.Background(), 7, clk.Now(), false)
	if err != nil {
		t.Fatalf("build digest: %v", err)
	}
	if digest.Kind != usecase.DigestSchedule {
		t.Fatalf("expected schedule digest, got %s", digest.Kind)
	}
	if len(digest.Sections) != 1 || digest.Sections[0].Group.Name != "Elite" {
		t.Fatalf("expected only the Elite section, got %+v", digest.Sections)
	}
}

type fixedIDs struct {
	id string
}

func (f fixedIDs) NewID() (string, error) {
	return f.id, nil
}
