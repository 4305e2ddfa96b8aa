package crawl

import (
	"context"
	"sync"

	"github.com/riftlab/draftcrawl/internal/adapters/mq/queue"
	"github.com/riftlab/draftcrawl/internal/adapters/mq/worker"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// IdentityClient is the slice of the upstream client the resolve stage needs.
type IdentityClient interface {
	SummonerByID(ctx context.Context, summonerID string) (riot.Summoner, error)
}

// IdentitySink durably records one resolved identity.
type IdentitySink interface {
	Append(id model.ResolvedIdentity) error
}

// IdentityResolver maps roster entries to their PUUID join key, one
// upstream call per entry. There is no batch endpoint, so this is the
// dominant cost stage and runs on the worker pool.
type IdentityResolver struct {
	client  IdentityClient
	sink    IdentitySink
	workers int
	log     logger.Logger
}

// NewIdentityResolver creates a resolver with configuration options.
func NewIdentityResolver(client IdentityClient, sink IdentitySink, opts ...IdentityOption) *IdentityResolver {
	r := &IdentityResolver{
		client:  client,
		sink:    sink,
		workers: defaultWorkers,
		log:     logger.Get().Named(StageResolve),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns identities for the roster, reusing already-resolved ones
// from a prior run and resolving the rest concurrently. Per-entry failures
// are logged and skipped; one player's failure never aborts the stage.
//
// The returned slice follows the identity artifact's append order so that
// downstream watermarks stay stable across a resume.
func (r *IdentityResolver) Resolve(ctx context.Context, roster []model.RosterEntry, resolved []model.ResolvedIdentity) ([]model.ResolvedIdentity, error) {
	done := make(map[string]struct{}, len(resolved))
	for _, id := range resolved {
		done[id.SummonerID] = struct{}{}
	}

	var pending []model.RosterEntry
	for _, entry := range roster {
		if _, ok := done[entry.SummonerID]; !ok {
			pending = append(pending, entry)
		}
	}
	if len(pending) == 0 {
		return resolved, nil
	}
	r.log.Info(ctx, "resolving identities",
		logger.Int("pending", len(pending)),
		logger.Int("already_resolved", len(resolved)),
	)

	q := queue.NewInMemory[model.RosterEntry](
		queue.WithCapacity(len(pending)),
		queue.WithStage(StageResolve),
	)

	// The append mutex keeps the returned slice in the same order as the
	// durable artifact.
	var mu sync.Mutex
	out := resolved

	pool := worker.NewPool[model.RosterEntry](q, func(ctx context.Context, entry model.RosterEntry) error {
		summoner, err := r.client.SummonerByID(ctx, entry.SummonerID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.RecordSkip("fetch_error")
			r.log.Warn(ctx, "identity resolution failed, skipping player",
				logger.String("summoner_id", entry.SummonerID),
				logger.Error(err),
			)
			return nil
		}

		identity := model.ResolvedIdentity{RosterEntry: entry, PUUID: summoner.PUUID}

		mu.Lock()
		defer mu.Unlock()
		if err := r.sink.Append(identity); err != nil {
			return err
		}
		out = append(out, identity)
		return nil
	}, worker.WithCount(r.workers), worker.WithStage(StageResolve))

	for _, entry := range pending {
		if !q.Enqueue(ctx, entry) {
			break
		}
	}
	q.Close()

	pool.Start(ctx)
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}
