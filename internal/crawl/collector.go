package crawl

import (
	"context"

	"github.com/riftlab/draftcrawl/internal/adapters/mq/queue"
	"github.com/riftlab/draftcrawl/internal/adapters/mq/worker"
	"github.com/riftlab/draftcrawl/internal/adapters/storage"
	"github.com/riftlab/draftcrawl/internal/domain/dedupe"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// HistoryClient is the slice of the upstream client the collect stage needs.
type HistoryClient interface {
	MatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
}

// CorpusSink durably appends a batch of newly discovered match ids.
type CorpusSink interface {
	Append(ids []string) error
}

// MatchIDCollector grows the deduplicated match-id corpus from player
// histories until the target size is reached.
type MatchIDCollector struct {
	history    HistoryClient
	set        dedupe.Set
	corpus     CorpusSink
	checkpoint *storage.Checkpoint

	perPlayer int
	target    int64
	workers   int

	log logger.Logger
}

// NewMatchIDCollector creates a collector with configuration options.
func NewMatchIDCollector(history HistoryClient, set dedupe.Set, corpus CorpusSink, checkpoint *storage.Checkpoint, opts ...CollectorOption) *MatchIDCollector {
	c := &MatchIDCollector{
		history:    history,
		set:        set,
		corpus:     corpus,
		checkpoint: checkpoint,
		perPlayer:  defaultPerPlayerCount,
		target:     defaultTargetCorpus,
		workers:    defaultWorkers,
		log:        logger.Get().Named(StageCollect),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type collectItem struct {
	index    int
	identity model.ResolvedIdentity
}

// Collect fetches recent match ids per identity, unions the fresh ones into
// the corpus, and stops once the corpus reaches the target. The target is a
// ceiling: the final identity's batch is appended whole, never truncated
// mid-batch. Each identity's new ids are flushed as one durable batch, so a
// crash replays at most the identities past the checkpoint watermark.
func (c *MatchIDCollector) Collect(ctx context.Context, identities []model.ResolvedIdentity) error {
	if c.set.Size() >= c.target {
		c.log.Info(ctx, "corpus target already met",
			logger.Int64("corpus", c.set.Size()),
			logger.Int64("target", c.target),
		)
		return nil
	}

	watermark := c.checkpoint.Watermark(StageCollect)
	tracker := storage.NewWatermarkTracker(watermark)

	stageCtx, reached := context.WithCancel(ctx)
	defer reached()

	q := queue.NewInMemory[collectItem](
		queue.WithCapacity(len(identities)),
		queue.WithStage(StageCollect),
	)

	pool := worker.NewPool[collectItem](q, func(ctx context.Context, item collectItem) error {
		if c.set.Size() >= c.target {
			reached()
			return nil
		}

		ids, err := c.history.MatchIDs(ctx, item.identity.PUUID, c.perPlayer)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			metrics.RecordSkip("fetch_error")
			c.log.Warn(ctx, "match history failed, skipping player",
				logger.String("puuid", item.identity.PUUID),
				logger.Error(err),
			)
			return nil
		}

		fresh := make([]string, 0, len(ids))
		for _, id := range ids {
			if !c.set.SeenAndRecord(ctx, id) {
				fresh = append(fresh, id)
			}
		}
		if err := c.corpus.Append(fresh); err != nil {
			// Roll back so the in-memory size never counts ids that were
			// not durably appended; the watermark stays put and the batch
			// replays on the next run.
			c.set.Forget(ctx, fresh)
			return err
		}
		metrics.SetCorpusSize(c.set.Size())

		if w := tracker.Done(item.index); w > watermark {
			if err := c.checkpoint.Advance(StageCollect, w); err != nil {
				return err
			}
		}

		if c.set.Size() >= c.target {
			c.log.Info(ctx, "corpus target reached, short-circuiting remaining players",
				logger.Int64("corpus", c.set.Size()),
				logger.Int64("target", c.target),
			)
			reached()
		}
		return nil
	}, worker.WithCount(c.workers), worker.WithStage(StageCollect))

	queued := 0
	for i, identity := range identities {
		if i <= watermark {
			continue // committed by a prior run
		}
		if !q.Enqueue(stageCtx, collectItem{index: i, identity: identity}) {
			break
		}
		queued++
	}
	q.Close()
	c.log.Info(ctx, "collecting match ids",
		logger.Int("players", queued),
		logger.Int64("corpus", c.set.Size()),
		logger.Int64("target", c.target),
	)

	pool.Start(stageCtx)
	pool.Wait()

	// Stage-internal cancellation (target reached) is success; only the
	// parent context aborting the run is an error.
	return ctx.Err()
}
