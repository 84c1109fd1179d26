package gcalendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	defaultAPIBaseURL = "https://www.googleapis.com/calendar/v3"
	defaultTokenURL   = "https://oauth2.googleapis.com/token"
	calendarScope     = "https://www.googleapis.com/auth/calendar"
	listPageSize      = 1000
)

type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
	Transport    http.RoundTripper
}

// Client manages the events of one Google calendar.
type Client struct {
	httpClient *http.Client
	eventsURL  string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.CalendarID) == "" {
		return nil, fmt.Errorf("%w: calendar id is required", usecase.ErrInvalidInput)
	}
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.RefreshToken) == "" {
		return nil, fmt.Errorf("%w: google client id and refresh token are required", usecase.ErrInvalidInput)
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiBaseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{calendarScope},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: transport, Timeout: timeout})
	httpClient := oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}))
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		eventsURL:  apiBaseURL + "/calendars/" + url.PathEscape(cfg.CalendarID) + "/events",
	}, nil
}

// ListEvents returns every single event starting from timeMin.
func (c *Client) ListEvents(ctx context.Context, timeMin time.Time) ([]Event, error) {
	var out []Event
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
		query.Set("maxResults", fmt.Sprint(listPageSize))
		query.Set("singleEvents", "true")
		query.Set("orderBy", "startTime")
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page eventsPage
		if err := c.do(ctx, http.MethodGet, c.eventsURL+"?"+query.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("list calendar events: %w", err)
		}
		out = append(out, page.Items...)
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) Insert(ctx context.Context, event Event) (Event, error) {
	var created Event
	if err := c.do(ctx, http.MethodPost, c.eventsURL, event, &created); err != nil {
		return Event{}, fmt.Errorf("insert calendar event %q: %w", event.Summary, err)
	}
	return created, nil
}

func (c *Client) Update(ctx context.Context, eventID string, event Event) (Event, error) {
	var updated Event
	if err := c.do(ctx, http.MethodPut, c.eventsURL+"/"+url.PathEscape(eventID), event, &updated); err != nil {
		return Event{}, fmt.Errorf("update calendar event %s: %w", eventID, err)
	}
	return updated, nil
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := sonic.Marshal(in)
		if err != nil {
			return crerr.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return crerr.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return crerr.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return crerr.Newf("calendar status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrap(err, "decode response")
	}
	return nil
}
