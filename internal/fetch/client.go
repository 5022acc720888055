package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/softnav/softnav/internal/config"
)

// ErrUnavailable is returned while the client is cooling down after a
// run of consecutive transport failures.
var ErrUnavailable = errors.New("fetch: host marked unavailable")

const (
	failureTrip = 8
	failureCool = 10 * time.Second
)

// Client wraps resty over a retryable transport with a client-side rate
// limiter and a consecutive-failure trip. Retrying happens only at the
// transport level; a settled fetch is never re-issued by the pipeline.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter

	mu        sync.Mutex
	failures  int
	openUntil time.Time
}

// NewClient creates a client from fetch configuration.
func NewClient(cfg config.FetchConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.TransportRetries
	retryClient.Logger = nil

	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.TransportRetries).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html; charset=UTF-8")
	rc.SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{resty: rc, limiter: limiter}
}

// Get issues one GET for url, honoring the rate limiter and the
// failure trip.
func (c *Client) Get(ctx context.Context, url string) (*resty.Response, error) {
	if !c.allow() {
		return nil, ErrUnavailable
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.resty.R().SetContext(ctx).Get(url)
	c.report(err == nil)
	return resp, err
}

// allow reports whether requests may proceed; it closes the trip again
// once the cool-down has passed.
func (c *Client) allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.openUntil.IsZero() {
		return true
	}
	if time.Now().Before(c.openUntil) {
		return false
	}
	c.openUntil = time.Time{}
	c.failures = 0
	return true
}

// report tracks consecutive transport failures and opens the trip after
// failureTrip of them in a row.
func (c *Client) report(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok {
		c.failures = 0
		return
	}
	c.failures++
	if c.failures >= failureTrip {
		c.openUntil = time.Now().Add(failureCool)
	}
}
