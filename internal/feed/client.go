package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIError is the typed failure of the fetch client. StatusCode is zero for
// transport-level failures where no response arrived. The Retryable flag and
// status code together are the public error contract the presentation layer
// maps to user-facing messages.
type APIError struct {
	Message    string
	StatusCode int
	Retryable  bool
}

func (e *APIError) Error() string { return e.Message }

const (
	defaultRetries   = 3
	defaultBaseDelay = time.Second
)

// Client fetches the upstream listings feed with classified retries: 5xx and
// 429 responses are retried with exponential backoff, everything else fails
// immediately.
type Client struct {
	http      *http.Client
	retries   int
	baseDelay time.Duration
	logger    *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return NewClientWithOptions(ClientOptions{}, logger)
}

// ClientOptions overrides the retry budget, backoff base and HTTP client.
// Zero values fall back to the defaults.
type ClientOptions struct {
	Retries    int
	BaseDelay  time.Duration
	HTTPClient *http.Client
}

func NewClientWithOptions(opts ClientOptions, logger *zap.Logger) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		retries:   opts.Retries,
		baseDelay: opts.BaseDelay,
		logger:    logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.retries <= 0 {
		c.retries = defaultRetries
	}
	if c.baseDelay <= 0 {
		c.baseDelay = defaultBaseDelay
	}
	return c
}

// FetchWithRetry issues GETs until a success, a non-retryable failure, or the
// retry budget runs out.
func (c *Client) FetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; attempt < c.retries; attempt++ {
		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			return nil, &APIError{Message: fmt.Sprintf("failed to fetch: %v", err)}
		}

		lastAttempt := attempt == c.retries-1
		if lastAttempt || !apiErr.Retryable {
			return nil, apiErr
		}

		delay := c.baseDelay * (1 << attempt)
		c.logger.Warn("retrying feed fetch",
			zap.Int("attempt", attempt+1),
			zap.Int("retries", c.retries),
			zap.Duration("delay", delay),
			zap.Int("status", apiErr.StatusCode))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &APIError{Message: fmt.Sprintf("failed to fetch: %v", ctx.Err())}
		}
	}

	return nil, &APIError{Message: "maximum retries exceeded"}
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, &APIError{
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			StatusCode: resp.StatusCode,
			Retryable:  retryable,
		}
	}

	return io.ReadAll(resp.Body)
}
