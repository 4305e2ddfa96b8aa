package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/riftlab/draftcrawl/internal/adapters/mq/queue"
	"github.com/riftlab/draftcrawl/internal/adapters/mq/worker"
	"github.com/riftlab/draftcrawl/internal/domain/extract"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// DetailClient is the slice of the upstream client the extract stage needs.
type DetailClient interface {
	MatchDetail(ctx context.Context, matchID string) ([]byte, error)
}

// RecordSink is the serialized writer extraction workers feed. Buffered
// records become visible only at batch flush boundaries.
type RecordSink interface {
	Has(matchID string) bool
	Append(rec model.MatchRecord) error
	Flush() error
}

// Extractor turns corpus match ids into labeled dataset rows.
type Extractor struct {
	detail  DetailClient
	sink    RecordSink
	workers int
	now     func() time.Time
	log     logger.Logger
}

// NewExtractor creates an extractor with configuration options.
func NewExtractor(detail DetailClient, sink RecordSink, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		detail:  detail,
		sink:    sink,
		workers: defaultWorkers,
		now:     time.Now,
		log:     logger.Get().Named(StageExtract),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches detail for every corpus id not already committed and
// appends the extracted record to the sink. A 404 or an unparseable payload
// is a per-item skip; the corpus simply omits that match. The final partial
// batch is flushed at end of stream.
func (e *Extractor) Extract(ctx context.Context, matchIDs []string) error {
	var pending []string
	for _, id := range matchIDs {
		if !e.sink.Has(id) {
			pending = append(pending, id)
		}
	}
	e.log.Info(ctx, "extracting match records",
		logger.Int("pending", len(pending)),
		logger.Int("committed", len(matchIDs)-len(pending)),
	)
	if len(pending) == 0 {
		return nil
	}

	q := queue.NewInMemory[string](
		queue.WithCapacity(len(pending)),
		queue.WithStage(StageExtract),
	)

	pool := worker.NewPool[string](q, func(ctx context.Context, matchID string) error {
		payload, err := e.detail.MatchDetail(ctx, matchID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, riot.ErrNotFound) {
				metrics.RecordSkip("not_found")
				e.log.Warn(ctx, "match gone upstream, skipping",
					logger.String("match_id", matchID),
				)
				return nil
			}
			metrics.RecordSkip("fetch_error")
			e.log.Warn(ctx, "match detail failed, skipping",
				logger.String("match_id", matchID),
				logger.Error(err),
			)
			return nil
		}

		rec, err := extract.Match(matchID, payload, e.now())
		if err != nil {
			metrics.RecordSkip("parse_error")
			e.log.Warn(ctx, "unparseable match payload, skipping",
				logger.String("match_id", matchID),
			)
			return nil
		}
		return e.sink.Append(rec)
	}, worker.WithCount(e.workers), worker.WithStage(StageExtract))

	for _, id := range pending {
		if !q.Enqueue(ctx, id) {
			break
		}
	}
	q.Close()

	pool.Start(ctx)
	pool.Wait()

	if err := ctx.Err(); err != nil {
		// Abort between batches: whatever is buffered stays unflushed, so
		// no partial batch becomes visible.
		return err
	}
	return e.sink.Flush()
}
