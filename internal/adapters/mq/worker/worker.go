// Package worker runs fixed-size pools that drain a stage work queue.
package worker

import (
	"context"
	"strconv"
	"sync"

	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWorkerCount = 4
)

// Handler processes a single work item. Returning an error logs it and
// moves on; per-item failures never abort the stage.
type Handler[T any] func(ctx context.Context, item T) error

// Source defines how workers receive items.
type Source[T any] interface {
	Dequeue(ctx context.Context) <-chan T
}

// Pool drains a Source with a fixed number of goroutines.
type Pool[T any] struct {
	source  Source[T]
	handler Handler[T]
	count   int
	stage   string

	wg  sync.WaitGroup
	log logger.Logger
}

// NewPool creates a pool with configuration options.
func NewPool[T any](source Source[T], handler Handler[T], opts ...Option) *Pool[T] {
	cfg := settings{count: defaultWorkerCount, stage: "unnamed"}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Pool[T]{
		source:  source,
		handler: handler,
		count:   cfg.count,
		stage:   cfg.stage,
		log:     logger.Get().Named(cfg.stage + "-pool"),
	}
}

// Start launches the workers. Each worker stops when the source channel
// closes or ctx is canceled.
func (p *Pool[T]) Start(ctx context.Context) {
	metrics.SetActiveWorkers(p.stage, p.count)

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, "worker-"+strconv.Itoa(i))
	}
}

// Wait blocks until every worker has exited.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
	metrics.SetActiveWorkers(p.stage, 0)
}

func (p *Pool[T]) run(ctx context.Context, name string) {
	defer p.wg.Done()

	items := p.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			if err := p.handler(ctx, item); err != nil {
				p.log.Error(ctx, "item failed",
					logger.String("worker", name),
					logger.Error(err),
				)
			}
			metrics.RecordStageItem(p.stage)
		}
	}
}
