package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/retry"
	"go.uber.org/zap"
)

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// StatusError is a non-200 answer from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ESPN API error: status=%d, body=%s", e.StatusCode, e.Body)
}

// Client handles ESPN API requests for one sport
type Client struct {
	httpClient *http.Client
	baseURL    string
	sportPath  string
	userAgent  string
	retry      *retry.RetryPolicy
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry retries failed requests with the given policy
func WithRetry(policy *retry.RetryPolicy) Option {
	return func(c *Client) { c.retry = policy }
}

// WithLogger sets the logger used for retried requests
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new ESPN API client
func New(sportPath string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   BaseURL,
		sportPath: sportPath,
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
		retry:     retry.NewRetryPolicy(1, 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchScoreboard fetches whatever ESPN considers "today" for the sport
func (c *Client) FetchScoreboard(ctx context.Context) (map[string]interface{}, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%s/scoreboard", c.baseURL, c.sportPath))
}

// FetchGameSummary fetches detailed game summary with box scores
func (c *Client) FetchGameSummary(ctx context.Context, eventID string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, c.sportPath, url.QueryEscape(eventID))
	return c.fetch(ctx, u)
}

// fetch retries get on transport errors and 5xx answers
func (c *Client) fetch(ctx context.Context, u string) (map[string]interface{}, error) {
	var result map[string]interface{}
	attempt := 0

	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		attempt++
		var err error
		result, err = c.get(ctx, u)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			return retry.Permanent(err)
		}
		if attempt < c.retry.Attempts() {
			c.logger.Debug("retrying ESPN request", zap.String("url", u), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// get makes an HTTP GET request and returns parsed JSON
func (c *Client) get(ctx context.Context, u string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}
