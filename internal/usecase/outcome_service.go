package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/cache"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

const (
	defaultTableWindow     = 24 * time.Hour
	defaultLateTableWindow = 72 * time.Hour
)

type OutcomeServiceConfig struct {
	// Throttle is slept after every provider call.
	Throttle time.Duration
	// Window is how far around the submission time tables are searched.
	Window time.Duration
	// LateWindow replaces the lower bound of Window when too few tables are
	// found, for results submitted days after the games.
	LateWindow time.Duration
	// GamesTTL bounds how long mapped games are reused per duel.
	GamesTTL time.Duration
}

// OutcomeService checks claimed duel results against the game history
// provider. Calls are serial and paced by a fixed throttle.
type OutcomeService struct {
	provider   GameHistoryProvider
	clock      clock.Clock
	throttle   time.Duration
	window     time.Duration
	lateWindow time.Duration
	games      *cache.Store
	logger     *logging.Logger
}

func NewOutcomeService(provider GameHistoryProvider, clk clock.Clock, cfg OutcomeServiceConfig, logger *logging.Logger) *OutcomeService {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultTableWindow
	}
	if cfg.LateWindow <= 0 {
		cfg.LateWindow = defaultLateTableWindow
	}
	if cfg.GamesTTL <= 0 {
		cfg.GamesTTL = time.Hour
	}
	return &OutcomeService{
		provider:   provider,
		clock:      clk,
		throttle:   cfg.Throttle,
		window:     cfg.Window,
		lateWindow: cfg.LateWindow,
		games:      cache.NewStore(cfg.GamesTTL, clk),
		logger:     logger,
	}
}

// FetchTables returns the candidate tables for a submitted duel. When fewer
// than two tables are found around the submission time, the search is
// repeated once starting further back.
func (s *OutcomeService) FetchTables(ctx context.Context, d duel.Duel) (outcome.Evidence, error) {
	anchor, ok := d.Anchor()
	if !ok {
		s.logger.InfoContext(ctx, "duel has no submitted outcome, skipping table fetch", "duel", d.String())
		return outcome.Evidence{}, nil
	}

	tables, err := s.fetchTables(ctx, d, anchor.Add(-s.window), anchor.Add(s.window))
	if err != nil {
		return outcome.Evidence{}, err
	}
	candidates := outcome.Candidates(tables)
	if len(candidates) >= outcome.MinTables || !d.PlayedForReal {
		return outcome.Evidence{Tables: candidates}, nil
	}

	s.logger.InfoContext(ctx, "too few tables, widening window",
		"duel", d.String(),
		"tables", len(candidates),
	)
	tables, err = s.fetchTables(ctx, d, anchor.Add(-s.lateWindow), anchor.Add(s.window))
	if err != nil {
		return outcome.Evidence{}, err
	}
	return outcome.Evidence{Tables: outcome.Candidates(tables), WindowWidened: true}, nil
}

// FetchTableStats returns the per-player stats of one table.
func (s *OutcomeService) FetchTableStats(ctx context.Context, tableID string) (duel.Stats, error) {
	stats, err := s.provider.FetchTableStats(ctx, tableID)
	if pauseErr := s.pause(ctx); pauseErr != nil && err == nil {
		err = pauseErr
	}
	if err != nil {
		return nil, fmt.Errorf("fetch stats for table %s: %w", tableID, err)
	}
	return stats, nil
}

// CheckStrict flags duels whose claimed score differs from the provider.
func (s *OutcomeService) CheckStrict(ctx context.Context, d duel.Duel) (outcome.Verdict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OutcomeService.CheckStrict", duelAttributes(d)...)
	defer span.End()

	if !d.HasOutcome() {
		return outcome.Verdict{}, ErrNoOutcome
	}

	evidence, err := s.FetchTables(ctx, d)
	if err != nil {
		return outcome.Verdict{}, err
	}

	verdict, err := outcome.Strict(d, evidence)
	if err != nil {
		return outcome.Verdict{}, providerDataError(d, err)
	}
	s.logVerdict(ctx, d, verdict)
	return verdict, nil
}

// CheckTolerant accepts claims that are plausible once ties are given to
// either player.
func (s *OutcomeService) CheckTolerant(ctx context.Context, d duel.Duel) (outcome.Verdict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OutcomeService.CheckTolerant", duelAttributes(d)...)
	defer span.End()

	if !d.HasOutcome() {
		return outcome.Verdict{}, ErrNoOutcome
	}

	games, err := s.Games(ctx, d)
	if err != nil {
		return outcome.Verdict{}, err
	}
	verdict, err := outcome.Tolerant(d, games)
	if err != nil {
		return outcome.Verdict{}, err
	}
	s.logVerdict(ctx, d, verdict)
	return verdict, nil
}

// Games maps the duel's provider tables onto games with their stats. Results
// are cached per duel. A stats failure leaves that game's stats empty.
func (s *OutcomeService) Games(ctx context.Context, d duel.Duel) (duel.Games, error) {
	value, err := s.games.GetOrLoad(ctx, "games:"+d.Key(), func(ctx context.Context) (any, error) {
		return s.loadGames(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	games, _ := value.(duel.Games)
	return append(duel.Games(nil), games...), nil
}

func (s *OutcomeService) loadGames(ctx context.Context, d duel.Duel) (duel.Games, error) {
	evidence, err := s.FetchTables(ctx, d)
	if err != nil {
		return nil, err
	}

	games, err := outcome.MapGames(d, evidence.Tables)
	if err != nil {
		return nil, providerDataError(d, err)
	}

	for i := range games {
		stats, err := s.FetchTableStats(ctx, games[i].TableID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.WarnContext(ctx, "table stats unavailable",
				"duel", d.String(),
				"table_id", games[i].TableID,
				"error", err,
			)
			continue
		}
		games[i].Stats = stats
	}
	return games, nil
}

func (s *OutcomeService) fetchTables(ctx context.Context, d duel.Duel, from, to time.Time) ([]outcome.Table, error) {
	tables, err := s.provider.FetchTables(ctx, TableQuery{
		P1ID: d.P1.ID,
		P2ID: d.P2.ID,
		From: from,
		To:   to,
	})
	if pauseErr := s.pause(ctx); pauseErr != nil && err == nil {
		err = pauseErr
	}
	if err != nil {
		return nil, fmt.Errorf("fetch tables for %s: %w", d.String(), err)
	}
	return tables, nil
}

func (s *OutcomeService) pause(ctx context.Context) error {
	if s.throttle <= 0 {
		return nil
	}
	return s.clock.Sleep(ctx, s.throttle)
}

func (s *OutcomeService) logVerdict(ctx context.Context, d duel.Duel, v outcome.Verdict) {
	if v.Valid() {
		s.logger.DebugContext(ctx, "outcome confirmed", append([]any{"duel", d.String()}, v.LogFields()...)...)
		return
	}
	s.logger.WarnContext(ctx, v.Describe(d), append([]any{"duel", d.String()}, v.LogFields()...)...)
}

func providerDataError(d duel.Duel, err error) error {
	if errors.Is(err, outcome.ErrMalformedTable) || errors.Is(err, outcome.ErrWrongPlayers) {
		return fmt.Errorf("%w: duel %s: %w", ErrProviderData, d.String(), err)
	}
	return err
}

func duelAttributes(d duel.Duel) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("duel.p1_id", d.P1.ID),
		attribute.Int64("duel.p2_id", d.P2.ID),
		attribute.String("duel.key", d.Key()),
	}
}
