// Package riot is the single network chokepoint for the upstream game API.
// All stages fetch through Client; nothing else talks to the network.
package riot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// Client issues rate-limited GETs against the upstream API.
//
// A shared token bucket enforces the aggregate request ceiling, so the pool
// size of callers never changes the request rate. 429 and transient upstream
// failures are retried after a flat cooldown with no retry cap: for a
// multi-day batch job the only forward-progress mechanism is waiting the
// limiter out, so callers must not layer their own retry cap on top.
// 404 is returned to the caller as ErrNotFound (resource gone, not
// transient).
type Client struct {
	http     *resty.Client
	gate     *rate.Limiter
	cooldown time.Duration

	// platformURL serves league/summoner endpoints (e.g. na1),
	// regionURL serves match endpoints (e.g. americas).
	platformURL string
	regionURL   string

	log logger.Logger
}

// New creates a Client. An API key is required unless the base URLs point
// at a mock upstream.
func New(opts ...Option) *Client {
	c := &Client{
		gate:        rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		cooldown:    defaultCooldown,
		platformURL: fmt.Sprintf("https://%s.api.riotgames.com", defaultPlatform),
		regionURL:   fmt.Sprintf("https://%s.api.riotgames.com", defaultRegion),
		log:         logger.Get().Named("riot"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = resty.New()
	}
	c.http.SetTimeout(time.Minute)
	c.http.SetHeader("User-Agent", "draftcrawl/1.0")

	// Every attempt, retries included, passes through the shared gate.
	gate := c.gate
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		start := time.Now()
		if err := gate.Wait(req.Context()); err != nil {
			return err
		}
		metrics.ObserveRateGateWait(time.Since(start).Seconds())
		return nil
	})

	return c
}

// get fetches base+path, retrying through rate limits and upstream errors
// until it gets a 2xx or a 404, or ctx is canceled.
func (c *Client) get(ctx context.Context, base, path string, query url.Values) ([]byte, error) {
	for {
		start := time.Now()
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParamsFromValues(query)
		}
		resp, err := req.Get(base + path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.RecordUpstreamRetry("transport_error")
			c.log.Warn(ctx, "request failed, cooling down",
				logger.String("path", path),
				logger.Duration("cooldown", c.cooldown),
				logger.Error(err),
			)
			if err := c.sleepCooldown(ctx); err != nil {
				return nil, err
			}
			continue
		}

		status := resp.StatusCode()
		metrics.RecordUpstreamRequest(statusClass(status))

		switch {
		case resp.IsSuccess():
			metrics.ObserveRequestLatency(time.Since(start).Seconds())
			return resp.Body(), nil

		case status == http.StatusTooManyRequests:
			metrics.RecordUpstreamRetry("rate_limited")
			c.log.Warn(ctx, "rate limit exceeded, cooling down",
				logger.String("path", path),
				logger.Duration("cooldown", c.cooldown),
			)
			if err := c.sleepCooldown(ctx); err != nil {
				return nil, err
			}

		case status == http.StatusNotFound:
			return nil, ErrNotFound

		default:
			metrics.RecordUpstreamRetry("upstream_error")
			c.log.Warn(ctx, "upstream error, cooling down",
				logger.String("path", path),
				logger.Int("status", status),
				logger.Duration("cooldown", c.cooldown),
			)
			if err := c.sleepCooldown(ctx); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Client) sleepCooldown(ctx context.Context) error {
	t := time.NewTimer(c.cooldown)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func statusClass(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "429"
	case status == http.StatusNotFound:
		return "404"
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 500:
		return "5xx"
	default:
		return "other"
	}
}
