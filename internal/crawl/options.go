package crawl

import "time"

// Default stage configuration constants, mirroring the upstream quotas the
// crawl was designed against.
const (
	defaultMaxPages       = 5
	defaultMaxRoster      = 2000
	defaultPerPlayerCount = 20
	defaultTargetCorpus   = 60000
	defaultWorkers        = 4
)

// RosterOption applies a configuration option to the RosterFetcher.
type RosterOption func(*RosterFetcher)

// WithMaxPages caps how many leaderboard pages are requested.
func WithMaxPages(n int) RosterOption {
	return func(f *RosterFetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

// WithMaxRoster truncates the materialized roster to n entries.
func WithMaxRoster(n int) RosterOption {
	return func(f *RosterFetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// IdentityOption applies a configuration option to the IdentityResolver.
type IdentityOption func(*IdentityResolver)

// WithResolveWorkers sets the resolver pool size.
func WithResolveWorkers(n int) IdentityOption {
	return func(r *IdentityResolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// CollectorOption applies a configuration option to the MatchIDCollector.
type CollectorOption func(*MatchIDCollector)

// WithPerPlayerCount sets how many recent match ids are pulled per player.
func WithPerPlayerCount(n int) CollectorOption {
	return func(c *MatchIDCollector) {
		if n > 0 {
			c.perPlayer = n
		}
	}
}

// WithTargetCorpus sets the corpus size ceiling that stops collection.
func WithTargetCorpus(n int) CollectorOption {
	return func(c *MatchIDCollector) {
		if n > 0 {
			c.target = int64(n)
		}
	}
}

// WithCollectWorkers sets the collector pool size.
func WithCollectWorkers(n int) CollectorOption {
	return func(c *MatchIDCollector) {
		if n > 0 {
			c.workers = n
		}
	}
}

// ExtractorOption applies a configuration option to the Extractor.
type ExtractorOption func(*Extractor)

// WithExtractWorkers sets the extractor pool size.
func WithExtractWorkers(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithClock overrides the timestamp source for collected_at, used in tests.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}
