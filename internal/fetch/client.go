// Package fetch provides the rate-limited, retrying HTTP client shared by
// every source adapter.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"jobhound/internal/config"
	"jobhound/internal/logging"
)

// FetchError is surfaced after the retry budget for a URL is exhausted.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client is a rate-limited HTTP client. Requests to the same host are
// spaced by at least the configured request delay; requests to different
// hosts proceed independently. The limiter map is the only shared state
// and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	delay      time.Duration
	maxRetries int
	logger     zerolog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a fetch client from the scraping configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Scraping.Timeout},
		userAgent:  cfg.Scraping.UserAgent,
		delay:      cfg.Scraping.RequestDelay,
		maxRetries: cfg.Scraping.MaxRetries,
		logger:     logging.Component("fetch"),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Get performs a rate-limited GET with retries and exponential backoff.
// Intermediate failures are retried silently; only the final failure is
// surfaced, as a *FetchError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	host := hostOf(rawURL)
	limiter := c.hostLimiter(host)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: rawURL, Attempts: attempt + 1, Err: err}
		}

		body, err := c.do(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		c.logger.Debug().Str("url", rawURL).Int("attempt", attempt).Err(err).Msg("request failed")

		if attempt == c.maxRetries {
			break
		}

		// Backoff: request_delay × 2^attempt.
		backoff := c.delay * (1 << attempt)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, &FetchError{URL: rawURL, Attempts: attempt + 1, Err: ctx.Err()}
		}
	}

	return nil, &FetchError{URL: rawURL, Attempts: c.maxRetries + 1, Err: lastErr}
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// hostLimiter returns the limiter gating requests to a host, creating it on
// first use.
func (c *Client) hostLimiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(c.delay), 1)
	c.limiters[host] = l
	return l
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Host)
}
