package bga

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/cache"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	defaultHomeURL    = "https://boardgamearena.com"
	defaultLoginURL   = "https://boardgamearena.com/account/account/login.html"
	defaultCSRFURL    = "https://boardgamearena.com/account"
	defaultSessionTTL = time.Hour
	defaultTimeout    = 20 * time.Second
	maxPageBytes      = 4 << 20
)

type SessionConfig struct {
	Transport http.RoundTripper
	HomeURL   string
	LoginURL  string
	CSRFURL   string
	Email     string
	Password  string
	TTL       time.Duration
	Timeout   time.Duration
	Clock     clock.Clock
	Logger    *logging.Logger
}

// Session is a logged in provider session. Requests must go through
// HTTPClient, which carries the session cookies, and send Token as the
// X-Request-Token header.
type Session struct {
	HTTPClient *http.Client
	Token      string
}

// SessionManager logs in lazily and reuses the session until its TTL
// elapses. A failed login is not retried; the next call tries again.
type SessionManager struct {
	cfg    SessionConfig
	value  *cache.Value[*Session]
	logger *logging.Logger
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.Transport == nil {
		cfg.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	cfg.HomeURL = firstNonEmpty(cfg.HomeURL, defaultHomeURL)
	cfg.LoginURL = firstNonEmpty(cfg.LoginURL, defaultLoginURL)
	cfg.CSRFURL = firstNonEmpty(cfg.CSRFURL, defaultCSRFURL)
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	m := &SessionManager{cfg: cfg, logger: logger}
	m.value = cache.NewValue(cfg.TTL, cfg.Clock, m.login)
	return m
}

// Get returns the cached session, logging in when there is none.
func (m *SessionManager) Get(ctx context.Context) (*Session, error) {
	return m.value.Get(ctx)
}

// Refresh logs in again regardless of the cached session's age.
func (m *SessionManager) Refresh(ctx context.Context) (*Session, error) {
	return m.value.Refresh(ctx)
}

// Invalidate drops the cached session so the next Get logs in again.
func (m *SessionManager) Invalidate() {
	m.value.Invalidate()
}

func (m *SessionManager) login(ctx context.Context) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, authError(crerr.Wrap(err, "create cookie jar"))
	}
	client := &http.Client{
		Transport: m.cfg.Transport,
		Timeout:   m.cfg.Timeout,
		Jar:       jar,
	}

	page, err := m.fetchPage(ctx, client, http.MethodGet, m.cfg.HomeURL, nil)
	if err != nil {
		return nil, authError(crerr.Wrap(err, "load home page"))
	}
	loginToken, err := scrapeRequestToken(page)
	if err != nil {
		return nil, authError(crerr.Wrap(err, "home page"))
	}

	form := url.Values{}
	form.Set("email", m.cfg.Email)
	form.Set("password", m.cfg.Password)
	form.Set("request_token", loginToken)
	if _, err := m.fetchPage(ctx, client, http.MethodPost, m.cfg.LoginURL, form); err != nil {
		return nil, authError(crerr.Wrap(err, "submit login"))
	}

	page, err = m.fetchPage(ctx, client, http.MethodGet, m.cfg.CSRFURL, nil)
	if err != nil {
		return nil, authError(crerr.Wrap(err, "load csrf page"))
	}
	apiToken, err := scrapeRequestToken(page)
	if err != nil {
		return nil, authError(crerr.Wrap(err, "csrf page"))
	}

	m.logger.InfoContext(ctx, "bga session established")
	return &Session{HTTPClient: client, Token: apiToken}, nil
}

func (m *SessionManager) fetchPage(ctx context.Context, client *http.Client, method, target string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Newf("unexpected status=%d", resp.StatusCode)
	}
	return raw, nil
}

func authError(err error) error {
	return fmt.Errorf("%w: %w", usecase.ErrProviderAuth, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
