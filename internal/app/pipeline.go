// Package app wires the pipeline stages to their durable artifacts and
// runs them in dependency order: roster -> identities -> match ids ->
// match records. Every stage resumes from its artifact, so a restarted run
// repeats only uncommitted work.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/riftlab/draftcrawl/internal/adapters/storage"
	"github.com/riftlab/draftcrawl/internal/crawl"
	"github.com/riftlab/draftcrawl/internal/domain/dedupe"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// Artifact file names inside the output directory.
const (
	rosterFile     = "roster.csv"
	identityFile   = "identities.csv"
	corpusFile     = "matchids.csv"
	recordFile     = "matchdata.csv"
	checkpointFile = "checkpoint.json"
)

// Pipeline owns one crawl run end to end.
type Pipeline struct {
	client *riot.Client

	queue    string
	tier     string
	division string

	maxPages  int
	maxRoster int
	perPlayer int
	target    int
	workers   int
	batchSize int
	outputDir string

	log logger.Logger
}

// New creates a Pipeline with configuration options.
func New(client *riot.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:    client,
		queue:     "RANKED_SOLO_5x5",
		tier:      "GOLD",
		division:  "I",
		maxPages:  5,
		maxRoster: 2000,
		perPlayer: 20,
		target:    60000,
		workers:   4,
		batchSize: 100,
		outputDir: "output_files",
		log:       logger.Get().Named("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all four stages. It is safe to kill the process at any
// point and run again: committed artifacts are loaded, not refetched, and
// at most one in-flight batch of records is lost.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	p.log.Info(ctx, "starting crawl run",
		logger.String("run_id", runID),
		logger.String("queue", p.queue),
		logger.String("tier", p.tier),
		logger.String("division", p.division),
		logger.Int("target_corpus", p.target),
	)

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	checkpoint, err := storage.LoadCheckpoint(p.artifact(checkpointFile))
	if err != nil {
		return err
	}

	roster, err := p.rosterStage(ctx)
	if err != nil {
		return err
	}

	identities, err := p.identityStage(ctx, roster)
	if err != nil {
		return err
	}

	if err := p.collectStage(ctx, identities, checkpoint); err != nil {
		return err
	}

	if err := p.extractStage(ctx); err != nil {
		return err
	}

	p.log.Info(ctx, "crawl run complete", logger.String("run_id", runID))
	return nil
}

func (p *Pipeline) rosterStage(ctx context.Context) ([]model.RosterEntry, error) {
	store := storage.NewRosterStore(p.artifact(rosterFile))
	if store.Exists() {
		roster, err := store.Load()
		if err != nil {
			return nil, err
		}
		p.log.Info(ctx, "roster loaded from artifact", logger.Int("entries", len(roster)))
		return roster, nil
	}

	fetcher := crawl.NewRosterFetcher(p.client,
		crawl.WithMaxPages(p.maxPages),
		crawl.WithMaxRoster(p.maxRoster),
	)
	roster, err := fetcher.Fetch(ctx, p.queue, p.tier, p.division)
	if err != nil {
		return nil, err
	}
	if err := store.Save(roster); err != nil {
		return nil, err
	}
	p.log.Info(ctx, "roster fetched", logger.Int("entries", len(roster)))
	return roster, nil
}

func (p *Pipeline) identityStage(ctx context.Context, roster []model.RosterEntry) ([]model.ResolvedIdentity, error) {
	store, resolved, err := storage.OpenIdentityStore(p.artifact(identityFile))
	if err != nil {
		return nil, err
	}
	defer store.Close()

	resolver := crawl.NewIdentityResolver(p.client, store,
		crawl.WithResolveWorkers(p.workers),
	)
	return resolver.Resolve(ctx, roster, resolved)
}

func (p *Pipeline) collectStage(ctx context.Context, identities []model.ResolvedIdentity, checkpoint *storage.Checkpoint) error {
	corpus, existing, err := storage.OpenCorpusStore(p.artifact(corpusFile))
	if err != nil {
		return err
	}
	defer corpus.Close()

	set := dedupe.NewInMemorySet(dedupe.WithInitialCapacity(p.target))
	set.Seed(ctx, existing)
	metrics.SetCorpusSize(set.Size())

	collector := crawl.NewMatchIDCollector(p.client, set, corpus, checkpoint,
		crawl.WithPerPlayerCount(p.perPlayer),
		crawl.WithTargetCorpus(p.target),
		crawl.WithCollectWorkers(p.workers),
	)
	if err := collector.Collect(ctx, identities); err != nil {
		return err
	}
	p.log.Info(ctx, "match id corpus ready", logger.Int64("size", set.Size()))
	return nil
}

func (p *Pipeline) extractStage(ctx context.Context) error {
	ids, err := storage.ReadCorpus(p.artifact(corpusFile))
	if err != nil {
		return err
	}

	writer, err := storage.OpenRecordWriter(p.artifact(recordFile),
		storage.WithBatchSize(p.batchSize),
	)
	if err != nil {
		return err
	}

	extractor := crawl.NewExtractor(p.client, writer,
		crawl.WithExtractWorkers(p.workers),
	)
	if err := extractor.Extract(ctx, ids); err != nil {
		// Abort, not Close: the buffered partial batch must stay invisible.
		writer.Abort()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	p.log.Info(ctx, "dataset ready", logger.Int("records", writer.Written()))
	return nil
}

func (p *Pipeline) artifact(name string) string {
	return filepath.Join(p.outputDir, name)
}
