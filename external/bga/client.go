package bga

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/resilience"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	defaultTablesURL = "https://boardgamearena.com/gamestats/gamestats/getGames.html?player=%d&opponent_id=%d&start_date=%d&end_date=%d&game_id=1&finished=1&updateStats=0"
	defaultStatsURL  = "https://boardgamearena.com/table/table/tableinfos.html?id=%s"
	maxBodyBytes     = 6 << 20
)

var errBGATransient = crerr.New("bga transient failure")

type ClientConfig struct {
	Sessions *SessionManager
	// TablesURL takes player id, opponent id, window start and window end
	// (unix seconds).
	TablesURL string
	// StatsURL takes the table id.
	StatsURL       string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client reads game history from Board Game Arena through a logged in
// session. It implements usecase.GameHistoryProvider.
type Client struct {
	sessions  *SessionManager
	tablesURL string
	statsURL  string
	logger    *logging.Logger
	breaker   *resilience.CircuitBreaker
}

var _ usecase.GameHistoryProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		sessions:  cfg.Sessions,
		tablesURL: firstNonEmpty(cfg.TablesURL, defaultTablesURL),
		statsURL:  firstNonEmpty(cfg.StatsURL, defaultStatsURL),
		logger:    logger,
		breaker:   resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker, cfg.Now),
	}
}

func (c *Client) FetchTables(ctx context.Context, query usecase.TableQuery) ([]outcome.Table, error) {
	target := fmt.Sprintf(c.tablesURL, query.P1ID, query.P2ID, query.From.Unix(), query.To.Unix())

	var payload tablesEnvelope
	if err := c.doJSON(ctx, target, &payload); err != nil {
		return nil, fmt.Errorf("fetch tables p1=%d p2=%d: %w", query.P1ID, query.P2ID, err)
	}
	if payload.Data == nil || payload.Data.Tables == nil {
		return nil, fmt.Errorf("%w: tables payload has no data.tables", usecase.ErrProviderData)
	}

	out := make([]outcome.Table, 0, len(payload.Data.Tables))
	for _, item := range payload.Data.Tables {
		out = append(out, item.toTable())
	}
	return out, nil
}

func (c *Client) FetchTableStats(ctx context.Context, tableID string) (duel.Stats, error) {
	target := fmt.Sprintf(c.statsURL, tableID)

	var payload statsEnvelope
	if err := c.doJSON(ctx, target, &payload); err != nil {
		return nil, fmt.Errorf("fetch stats table_id=%s: %w", tableID, err)
	}
	if payload.Data == nil || payload.Data.Result == nil || payload.Data.Result.Stats == nil {
		return nil, fmt.Errorf("%w: stats payload for table %s has no data.result.stats", usecase.ErrProviderData, tableID)
	}
	return payload.Data.Result.Stats.Player.toStats(), nil
}

func (c *Client) doJSON(ctx context.Context, target string, out any) error {
	if c.sessions == nil {
		return fmt.Errorf("%w: bga session is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "bga circuit breaker rejected request", "state", string(c.breaker.State()))
		return fmt.Errorf("%w: game history provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	raw, err := c.execute(ctx, target)
	if stderrors.Is(err, errBGATransient) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrProviderData, err)
	}
	return nil
}

// execute sends one GET, retrying once when it times out.
func (c *Client) execute(ctx context.Context, target string) ([]byte, error) {
	session, err := c.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.get(ctx, session, target)
	if err == nil || !isTimeout(err) {
		return raw, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	c.logger.WarnContext(ctx, "bga request timed out, retrying once", "url", target)
	raw, err = c.get(ctx, session, target)
	if err != nil && isTimeout(err) {
		return nil, fmt.Errorf("%w: %w: %v", usecase.ErrProviderTimeout, errBGATransient, err)
	}
	return raw, err
}

func (c *Client) get(ctx context.Context, session *Session, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Token", session.Token)

	resp, err := session.HTTPClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errBGATransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.sessions.Invalidate()
		return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errBGATransient, resp.StatusCode, abbreviateBody(raw))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: provider status=%d body=%s", usecase.ErrProviderData, resp.StatusCode, abbreviateBody(raw))
	}
	return raw, nil
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 240 {
		return text[:240] + "..."
	}
	return text
}
