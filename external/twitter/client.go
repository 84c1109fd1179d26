package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	defaultAPIBaseURL = "https://api.twitter.com"
	defaultTokenURL   = "https://api.twitter.com/2/oauth2/token"
)

type Config struct {
	ClientID     string
	ClientSecret string
	// RefreshToken comes from a one-off user authorization; the client
	// exchanges it for access tokens as they expire.
	RefreshToken string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
	// Transport is the base transport under the oauth2 one.
	Transport http.RoundTripper
}

// Client posts tweets on behalf of the league account.
type Client struct {
	httpClient *http.Client
	apiBaseURL string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.RefreshToken) == "" {
		return nil, fmt.Errorf("%w: twitter client id and refresh token are required", usecase.ErrInvalidInput)
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
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
	}

	base := &http.Client{Transport: transport, Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}))
	httpClient.Timeout = timeout

	return &Client{httpClient: httpClient, apiBaseURL: apiBaseURL}, nil
}

// Tweet posts text, as a reply when replyTo is set, and returns the new
// tweet id.
func (c *Client) Tweet(ctx context.Context, text, replyTo string) (string, error) {
	req := createTweetRequest{Text: text}
	if replyTo != "" {
		req.Reply = &tweetReply{InReplyToTweetID: replyTo}
	}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return "", crerr.Wrap(err, "marshal tweet")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", crerr.Wrap(err, "build tweet request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: post tweet: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", crerr.Wrap(err, "read tweet response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", crerr.Newf("twitter status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var created createTweetResponse
	if err := sonic.Unmarshal(raw, &created); err != nil {
		return "", crerr.Wrap(err, "decode tweet response")
	}
	if created.Data.ID == "" {
		return "", crerr.Newf("twitter response has no tweet id: %s", strings.TrimSpace(string(raw)))
	}
	return created.Data.ID, nil
}

// Thread posts texts as a chain, each replying to the previous one.
func (c *Client) Thread(ctx context.Context, texts []string) ([]string, error) {
	ids := make([]string, 0, len(texts))
	replyTo := ""
	for i, text := range texts {
		id, err := c.Tweet(ctx, text, replyTo)
		if err != nil {
			return ids, fmt.Errorf("tweet %d of %d: %w", i+1, len(texts), err)
		}
		ids = append(ids, id)
		replyTo = id
	}
	return ids, nil
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}
