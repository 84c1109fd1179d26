package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const defaultBaseURL = "https://api.telegram.org"

type Client struct {
	baseURL string
	token   string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// NewClient talks to the Bot API with the given bot token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:        defaultBaseURL,
		token:          strings.TrimSpace(token),
		http:           &fasthttp.Client{ReadTimeout: 70 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage posts text to a chat, optionally inside a forum thread. The
// message is never retried so a slow API cannot produce duplicates.
func (c *Client) SendMessage(ctx context.Context, msg Message) (int64, error) {
	if msg.ChatID == "" {
		return 0, fmt.Errorf("%w: chat id is required", usecase.ErrInvalidInput)
	}
	req := sendMessageRequest{
		ChatID:                msg.ChatID,
		MessageThreadID:       msg.ThreadID,
		Text:                  msg.Text,
		DisableWebPagePreview: msg.DisablePreview,
	}
	if msg.HTML {
		req.ParseMode = "HTML"
	}

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	if err := c.call(ctx, "sendMessage", req, &sent, false, c.defaultTimeout); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// GetUpdates long polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates, true, c.defaultTimeout+timeout); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, in any, out any, retry bool, timeout time.Duration) error {
	if c.token == "" {
		return fmt.Errorf("%w: telegram token is not configured", usecase.ErrDependencyUnavailable)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + "/bot" + c.token + "/" + method)
	req.Header.SetContentType("application/json")

	payload, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}
	req.SetBody(payload)

	attempts := 1
	if retry && c.retryMax > 0 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, computeDeadline(ctx, timeout))
		if err != nil {
			lastErr = fmt.Errorf("telegram %s request failed: %s", method, c.redact(err.Error()))
		} else {
			status := resp.StatusCode()
			var envelope apiResponse
			if decodeErr := sonic.Unmarshal(resp.Body(), &envelope); decodeErr != nil {
				lastErr = fmt.Errorf("decode telegram %s response status=%d: %w", method, status, decodeErr)
			} else if !envelope.OK {
				lastErr = fmt.Errorf("telegram %s error: status=%d code=%d description=%s", method, status, envelope.ErrorCode, envelope.Description)
				if !shouldRetryStatus(status) {
					return lastErr
				}
			} else {
				if out != nil && len(envelope.Result) > 0 {
					if err := sonic.Unmarshal(envelope.Result, out); err != nil {
						return fmt.Errorf("decode telegram %s result: %w", method, err)
					}
				}
				return nil
			}
		}

		if attempt == attempts {
			break
		}
		if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
			return lastErr
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown telegram error")
	}
	return lastErr
}

func (c *Client) redact(text string) string {
	if c.token == "" {
		return text
	}
	return strings.ReplaceAll(text, c.token, "REDACTED")
}

func computeDeadline(ctx context.Context, timeout time.Duration) time.Time {
	clientDL := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
