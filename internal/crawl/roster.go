// Package crawl implements the pipeline stages: roster fetch, identity
// resolution, match-id collection, and feature extraction.
package crawl

import (
	"context"
	"fmt"

	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
)

// Stage names used for checkpoints, queues, and metrics labels.
const (
	StageRoster  = "roster"
	StageResolve = "resolve"
	StageCollect = "collect"
	StageExtract = "extract"
)

// RosterClient is the slice of the upstream client the roster stage needs.
type RosterClient interface {
	LeagueEntries(ctx context.Context, queue, tier, division string, page int) ([]riot.LeagueEntry, error)
}

// RosterFetcher paginates the ranked leaderboard into a materialized roster.
type RosterFetcher struct {
	client   RosterClient
	maxPages int
	maxSize  int
	log      logger.Logger
}

// NewRosterFetcher creates a fetcher with configuration options.
func NewRosterFetcher(client RosterClient, opts ...RosterOption) *RosterFetcher {
	f := &RosterFetcher{
		client:   client,
		maxPages: defaultMaxPages,
		maxSize:  defaultMaxRoster,
		log:      logger.Get().Named(StageRoster),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch iterates pages 1..maxPages, stopping early on the first empty page:
// the page count is a ceiling, not a guarantee. The roster is truncated to
// the configured maximum. An entirely empty roster is fatal; there is
// nothing for any downstream stage to do.
func (f *RosterFetcher) Fetch(ctx context.Context, queue, tier, division string) ([]model.RosterEntry, error) {
	var roster []model.RosterEntry

	for page := 1; page <= f.maxPages; page++ {
		entries, err := f.client.LeagueEntries(ctx, queue, tier, division, page)
		if err != nil {
			return nil, fmt.Errorf("roster page %d: %w", page, err)
		}
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			roster = append(roster, e.RosterEntry())
		}
		f.log.Info(ctx, "roster page fetched",
			logger.Int("page", page),
			logger.Int("entries", len(entries)),
			logger.Int("total", len(roster)),
		)
	}

	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	if len(roster) > f.maxSize {
		roster = roster[:f.maxSize]
	}
	return roster, nil
}
