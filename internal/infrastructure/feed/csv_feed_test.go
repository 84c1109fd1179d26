package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

var madrid = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(err)
	}
	return loc
}()

var sheets = map[string]string{
	"/players": "\ufeffid,name,telegram\n11,Alice,@alice\n22, Bob ,\n",
	"/schedule": "timestamp,player1,player2,date,time\n" +
		"31/10/2022 09:15:00,Alice,Bob,01/11/2022,22:30:00\n",
	"/results": "Timestamp,Player1,Player2,Score1,Score2,Not Played\n" +
		"01/11/2022 23:59:10,Alice,Bob,2,1,\n" +
		"2022-11-02 10:00:00,Bob,Alice,2,0,x\n",
	"/calendar": "round,date,player1,player2\n" +
		"1,24/10/2022,Alice,Bob\n" +
		"1,24/10/2022,,\n",
	"/broken": "timestamp,player1,player2,score1,score2\n01/11/2022,Alice,Bob,two,1\n",
}

func newTestFeed(t *testing.T) (*CSVFeed, league.Group) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := sheets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	feed := NewCSVFeed(CSVFeedConfig{HTTPClient: server.Client(), Location: madrid, Logger: logging.NewNop()})
	return feed, league.Group{
		Name:        "Elite",
		PlayersURL:  server.URL + "/players",
		ScheduleURL: server.URL + "/schedule",
		ResultsURL:  server.URL + "/results",
		CalendarURL: server.URL + "/calendar",
	}
}

func TestCSVFeedRoster(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	rows, err := feed.Roster(context.Background(), group)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 11 || rows[0].Name != "Alice" || rows[1].Name != "Bob" {
		t.Fatalf("unexpected roster: %+v", rows)
	}
}

func TestCSVFeedScheduleCombinesDateAndTime(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	rows, err := feed.Schedule(context.Background(), group)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	wantPlanned := time.Date(2022, 11, 1, 22, 30, 0, 0, madrid)
	if !rows[0].Planned.Equal(wantPlanned) {
		t.Fatalf("unexpected planned: got=%s want=%s", rows[0].Planned, wantPlanned)
	}
	if !rows[0].ScheduledAt.Equal(time.Date(2022, 10, 31, 9, 15, 0, 0, madrid)) {
		t.Fatalf("unexpected scheduled at: %s", rows[0].ScheduledAt)
	}
}

func TestCSVFeedResults(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	rows, err := feed.Results(context.Background(), group)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}
	if rows[0].Score1 != 2 || rows[0].Score2 != 1 || rows[0].NotPlayed {
		t.Fatalf("unexpected first result: %+v", rows[0])
	}
	if !rows[1].NotPlayed || !rows[1].SubmittedAt.Equal(time.Date(2022, 11, 2, 10, 0, 0, 0, madrid)) {
		t.Fatalf("unexpected second result: %+v", rows[1])
	}
}

func TestCSVFeedCalendarSkipsBlankPairings(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	rows, err := feed.Calendar(context.Background(), group)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(rows) != 1 || rows[0].Round != 1 {
		t.Fatalf("unexpected calendar rows: %+v", rows)
	}
}

func TestCSVFeedBadRowIsInvalidInput(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	group.ResultsURL = group.PlayersURL[:len(group.PlayersURL)-len("/players")] + "/broken"

	_, err := feed.Results(context.Background(), group)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCSVFeedMissingSheet(t *testing.T) {
	t.Parallel()

	feed, group := newTestFeed(t)
	group.PlayersURL += "-gone"

	_, err := feed.Roster(context.Background(), group)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want time.Time
	}{
		{raw: "01/11/2022 22:30:15", want: time.Date(2022, 11, 1, 22, 30, 15, 0, madrid)},
		{raw: "01/11/2022 22:30", want: time.Date(2022, 11, 1, 22, 30, 0, 0, madrid)},
		{raw: "2022-11-01 22:30:15", want: time.Date(2022, 11, 1, 22, 30, 15, 0, madrid)},
		{raw: " 01/11/2022 ", want: time.Date(2022, 11, 1, 0, 0, 0, 0, madrid)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.raw, madrid)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parse %q: got=%s want=%s", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseTimestamp("yesterday", madrid); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
