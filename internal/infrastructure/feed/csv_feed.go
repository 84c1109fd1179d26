package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const maxSheetBytes = 8 << 20

type CSVFeedConfig struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Location   *time.Location
	Logger     *logging.Logger
}

// CSVFeed reads group sheets published as CSV. The first row of every sheet
// holds the column names.
type CSVFeed struct {
	httpClient *http.Client
	location   *time.Location
	logger     *logging.Logger
}

var _ league.Feed = (*CSVFeed)(nil)

func NewCSVFeed(cfg CSVFeedConfig) *CSVFeed {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &CSVFeed{httpClient: httpClient, location: location, logger: logger}
}

func (f *CSVFeed) Roster(ctx context.Context, group league.Group) ([]league.RosterRow, error) {
	rows, err := f.read(ctx, group.PlayersURL)
	if err != nil {
		return nil, err
	}
	out := make([]league.RosterRow, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(strings.TrimSpace(row.get("id")), 10, 64)
		if err != nil {
			return nil, rowError(group, "players", i, err)
		}
		out = append(out, league.RosterRow{ID: id, Name: row.get("name")})
	}
	return out, nil
}

func (f *CSVFeed) Schedule(ctx context.Context, group league.Group) ([]league.ScheduleRow, error) {
	rows, err := f.read(ctx, group.ScheduleURL)
	if err != nil {
		return nil, err
	}
	out := make([]league.ScheduleRow, 0, len(rows))
	for i, row := range rows {
		scheduledAt, err := ParseTimestamp(row.get("timestamp"), f.location)
		if err != nil {
			return nil, rowError(group, "schedule", i, err)
		}
		planned, err := ParseTimestamp(row.get("date")+" "+row.get("time"), f.location)
		if err != nil {
			return nil, rowError(group, "schedule", i, err)
		}
		out = append(out, league.ScheduleRow{
			Player1:     row.get("player1"),
			Player2:     row.get("player2"),
			Planned:     planned,
			ScheduledAt: scheduledAt,
		})
	}
	return out, nil
}

func (f *CSVFeed) Results(ctx context.Context, group league.Group) ([]league.ResultRow, error) {
	rows, err := f.read(ctx, group.ResultsURL)
	if err != nil {
		return nil, err
	}
	out := make([]league.ResultRow, 0, len(rows))
	for i, row := range rows {
		submittedAt, err := ParseTimestamp(row.get("timestamp"), f.location)
		if err != nil {
			return nil, rowError(group, "results", i, err)
		}
		score1, err := strconv.Atoi(strings.TrimSpace(row.get("score1")))
		if err != nil {
			return nil, rowError(group, "results", i, err)
		}
		score2, err := strconv.Atoi(strings.TrimSpace(row.get("score2")))
		if err != nil {
			return nil, rowError(group, "results", i, err)
		}
		out = append(out, league.ResultRow{
			Player1:     row.get("player1"),
			Player2:     row.get("player2"),
			SubmittedAt: submittedAt,
			Score1:      score1,
			Score2:      score2,
			NotPlayed:   row.get("not played") != "",
		})
	}
	return out, nil
}

func (f *CSVFeed) Calendar(ctx context.Context, group league.Group) ([]league.CalendarRow, error) {
	if group.CalendarURL == "" {
		return nil, nil
	}
	rows, err := f.read(ctx, group.CalendarURL)
	if err != nil {
		return nil, err
	}
	out := make([]league.CalendarRow, 0, len(rows))
	for i, row := range rows {
		p1, p2 := row.get("player1"), row.get("player2")
		if p1 == "" || p2 == "" {
			continue
		}
		start, err := ParseTimestamp(row.get("date"), f.location)
		if err != nil {
			return nil, rowError(group, "calendar", i, err)
		}
		round, err := strconv.Atoi(strings.TrimSpace(row.get("round")))
		if err != nil {
			return nil, rowError(group, "calendar", i, err)
		}
		out = append(out, league.CalendarRow{Player1: p1, Player2: p2, Round: round, Start: start})
	}
	return out, nil
}

// record maps lower cased column names to trimmed cell values.
type record map[string]string

func (r record) get(column string) string {
	return r[column]
}

func (f *CSVFeed) read(ctx context.Context, sheetURL string) ([]record, error) {
	if strings.TrimSpace(sheetURL) == "" {
		return nil, fmt.Errorf("%w: sheet url is empty", usecase.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build sheet request")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch sheet: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: sheet status=%d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	records, err := parseCSV(io.LimitReader(resp.Body, maxSheetBytes))
	if err != nil {
		return nil, crerr.Wrapf(err, "parse sheet %s", sheetURL)
	}
	f.logger.DebugContext(ctx, "sheet fetched", "url", sheetURL, "rows", len(records))
	return records, nil
}

func parseCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	}

	var out []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(record, len(columns))
		for i, value := range fields {
			if i < len(columns) && columns[i] != "" {
				row[columns[i]] = strings.TrimSpace(value)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func rowError(group league.Group, sheet string, index int, err error) error {
	// +2: one for the header, one for 1-based rows.
	return fmt.Errorf("%w: group %s %s row %d: %v", usecase.ErrInvalidInput, group.Name, sheet, index+2, err)
}
