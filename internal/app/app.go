package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/bga"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/gcalendar"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/telegram"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/twitter"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/config"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcomecheck"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/infrastructure/feed"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/infrastructure/repository/cache"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/infrastructure/repository/memory"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/infrastructure/repository/postgres"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/interfaces/publish"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/interfaces/telegrambot"
	basecache "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/cache"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	idgen "github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/id"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/resilience"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

// App holds the wired services behind every duelbot command.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	Clock      clock.Clock
	League     *usecase.LeagueService
	Groups     *usecase.GroupService
	Outcomes   *usecase.OutcomeService
	Digests    *usecase.DigestService
	Reviews    *usecase.ReviewService
	Dispatcher *publish.Dispatcher
	Telegram   *telegram.Client
	Formatter  publish.TelegramFormatter

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	clk := clock.System()

	leagueFile, err := config.LoadLeague(cfg.LeagueFile)
	if err != nil {
		return nil, err
	}
	current := cfg.Season
	if current == 0 {
		current = leagueFile.CurrentSeason
	}
	leagueSvc, err := usecase.NewLeagueService(leagueFile.DomainSeasons(), current)
	if err != nil {
		return nil, fmt.Errorf("build league: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Clock: clk, League: leagueSvc}

	sheets := feed.NewCSVFeed(feed.CSVFeedConfig{
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport), Timeout: cfg.FeedTimeout},
		Location:   cfg.Location,
		Logger:     logger.Named("feed"),
	})
	cachedSheets := cache.NewFeed(sheets, basecache.NewStore(cfg.FeedCacheTTL, clk))

	sessions := bga.NewSessionManager(bga.SessionConfig{
		HomeURL:  cfg.BGAHomeURL,
		LoginURL: cfg.BGALoginURL,
		CSRFURL:  cfg.BGACSRFURL,
		Email:    cfg.BGAEmail,
		Password: cfg.BGAPassword,
		TTL:      cfg.BGASessionTTL,
		Timeout:  cfg.BGATimeout,
		Clock:    clk,
		Logger:   logger.Named("bga"),
	})
	provider := bga.NewClient(bga.ClientConfig{
		Sessions:  sessions,
		TablesURL: cfg.BGATablesURL,
		StatsURL:  cfg.BGAStatsURL,
		Logger:    logger.Named("bga"),
		CircuitBreaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.BGACircuitEnabled,
			FailureThreshold: cfg.BGACircuitFailureCount,
			OpenTimeout:      cfg.BGACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BGACircuitHalfOpenMaxReq,
		}),
		Now: clk.Now,
	})

	a.Outcomes = usecase.NewOutcomeService(provider, clk, usecase.OutcomeServiceConfig{
		Throttle:   cfg.BGAThrottle,
		Window:     cfg.BGATableWindow,
		LateWindow: cfg.BGALateTableWindow,
	}, logger.Named("outcome"))
	a.Groups = usecase.NewGroupService(cachedSheets, a.Outcomes, clk, cfg.Location, cfg.SweepPacing, logger.Named("group"))
	a.Digests = usecase.NewDigestService(leagueSvc, a.Groups)

	ledger, err := a.openLedger(ctx)
	if err != nil {
		return nil, err
	}
	a.Reviews = usecase.NewReviewService(leagueSvc, a.Groups, ledger, idgen.NewRunGenerator("run", clk.Now), clk, logger.Named("review"))

	links := duel.Links{PlayerTemplate: cfg.BGAPlayerURL, HistoryTemplate: cfg.BGAHistoryURL, Location: cfg.Location}
	publishers, err := a.publishers(ctx, links)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Dispatcher = publish.NewDispatcher(logger.Named("publish"), publishers...)

	return a, nil
}

func (a *App) openLedger(ctx context.Context) (outcomecheck.Repository, error) {
	if a.Config.LedgerBackend != config.LedgerPostgres {
		return memory.NewOutcomeCheckRepository(), nil
	}
	db, err := openDB(ctx, a.Config)
	if err != nil {
		return nil, err
	}
	a.db = db
	return postgres.NewOutcomeCheckRepository(db), nil
}

func (a *App) publishers(ctx context.Context, links duel.Links) ([]publish.Publisher, error) {
	cfg := a.Config
	var out []publish.Publisher

	a.Formatter = publish.TelegramFormatter{
		Headers: publish.Headers{Schedule: cfg.TelegramScheduleHeader, Results: cfg.TelegramResultsHeader},
		Links:   links,
	}
	if cfg.TelegramToken != "" {
		a.Telegram = telegram.NewClient(cfg.TelegramToken, telegram.WithTimeout(cfg.TelegramTimeout))
	}
	if cfg.TelegramEnabled {
		chats := make([]publish.Chat, 0, len(cfg.TelegramChats))
		for _, c := range cfg.TelegramChats {
			chats = append(chats, publish.Chat{ID: c.ID, ThreadID: c.ThreadID})
		}
		out = append(out, publish.NewTelegramPublisher(a.Telegram, a.Formatter, chats, cfg.TelegramWorkers, a.Logger))
	}

	if cfg.TwitterEnabled {
		client, err := twitter.NewClient(ctx, twitter.Config{
			ClientID:     cfg.TwitterClientID,
			ClientSecret: cfg.TwitterClientSecret,
			RefreshToken: cfg.TwitterRefreshToken,
		})
		if err != nil {
			return nil, fmt.Errorf("twitter client: %w", err)
		}
		out = append(out, publish.NewTwitterPublisher(client, publish.TwitterFormatter{
			Headers: publish.Headers{Schedule: cfg.TwitterScheduleHeader, Results: cfg.TwitterResultsHeader},
		}, a.Logger))
	}

	if cfg.GCalendarEnabled {
		client, err := gcalendar.NewClient(ctx, gcalendar.Config{
			ClientID:     cfg.GCalendarClientID,
			ClientSecret: cfg.GCalendarClientSecret,
			RefreshToken: cfg.GCalendarRefreshToken,
			CalendarID:   cfg.GCalendarID,
		})
		if err != nil {
			return nil, fmt.Errorf("calendar client: %w", err)
		}
		out = append(out, publish.NewCalendarPublisher(client, publish.CalendarPublisherConfig{
			Links:    links,
			Location: cfg.Location,
		}, a.Clock, a.Logger))
	}

	return out, nil
}

// Bot returns the Telegram command bot, or nil without a token.
func (a *App) Bot() *telegrambot.Bot {
	if a.Telegram == nil {
		return nil
	}
	return telegrambot.New(a.Telegram, a.Digests, a.Formatter, a.Clock, telegrambot.Config{
		Season:      a.League.CurrentSeason(),
		Location:    a.Config.Location,
		PollTimeout: a.Config.TelegramPollTimeout,
	}, a.Logger)
}

// Today is the start of the current day in the league time zone.
func (a *App) Today() time.Time {
	now := a.Clock.Now().In(a.Config.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.Config.Location)
}

// PublishDay builds the digest for day and sends it to every publisher.
func (a *App) PublishDay(ctx context.Context, day time.Time, force bool) error {
	digest, err := a.Digests.Build(ctx, 0, day, force)
	if err != nil {
		return err
	}
	return a.Dispatcher.Publish(ctx, digest)
}

// Sweep reviews the outcomes submitted on day across the current season.
func (a *App) Sweep(ctx context.Context, day time.Time) (usecase.SweepReport, error) {
	return a.Reviews.Sweep(ctx, 0, day)
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("close database", "error", err)
		}
	}
}
