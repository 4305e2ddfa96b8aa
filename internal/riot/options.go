package riot

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/riftlab/draftcrawl/pkg/logger"
)

// Default client configuration constants. The request rate stays a shade
// under one call per second, matching the upstream development-key quota.
const (
	defaultRequestsPerSecond = 0.9
	defaultBurst             = 1
	defaultCooldown          = 10 * time.Second
	defaultPlatform          = "na1"
	defaultRegion            = "americas"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithAPIKey sets the upstream credential, sent as the X-Riot-Token header
// so it never shows up in logged URLs.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key == "" {
			return
		}
		if c.http == nil {
			c.http = resty.New()
		}
		c.http.SetHeader("X-Riot-Token", key)
	}
}

// WithPlatform sets the platform routing value for league/summoner
// endpoints, e.g. "na1", "euw1".
func WithPlatform(platform string) Option {
	return func(c *Client) {
		if platform != "" {
			c.platformURL = fmt.Sprintf("https://%s.api.riotgames.com", platform)
		}
	}
}

// WithRegion sets the continental routing value for match endpoints,
// e.g. "americas", "europe".
func WithRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.regionURL = fmt.Sprintf("https://%s.api.riotgames.com", region)
		}
	}
}

// WithBaseURLs points both endpoint families at explicit base URLs.
// Used for tests and for the mock upstream.
func WithBaseURLs(platformURL, regionURL string) Option {
	return func(c *Client) {
		if platformURL != "" {
			c.platformURL = platformURL
		}
		if regionURL != "" {
			c.regionURL = regionURL
		}
	}
}

// WithRequestRate sets the aggregate request ceiling shared by all workers.
func WithRequestRate(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.gate = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCooldown sets the flat retry cooldown for 429s and upstream errors.
func WithCooldown(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cooldown = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
