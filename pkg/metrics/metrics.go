// Package metrics provides Prometheus metrics for the crawl pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "draftcrawl"

// registry is a custom registry so the batch job exposes only its own
// series, not the default Go collector set.
var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

var (
	upstreamRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Upstream API requests by final status class.",
	}, []string{"status"})

	upstreamRetries = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_retries_total",
		Help:      "Cooldown retries by trigger (rate_limited, upstream_error).",
	}, []string{"reason"})

	requestLatency = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_seconds",
		Help:      "Latency of successful upstream requests.",
		Buckets:   prometheus.DefBuckets,
	})

	rateGateWait = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_gate_wait_seconds",
		Help:      "Time spent waiting on the shared request rate gate.",
		Buckets:   []float64{.005, .05, .25, .5, 1, 2.5, 5, 10},
	})

	itemsSkipped = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_skipped_total",
		Help:      "Per-item skips by reason (not_found, parse_error, fetch_error).",
	}, []string{"reason"})

	corpusSize = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "corpus_size",
		Help:      "Unique match ids in the corpus.",
	})

	recordsFlushed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_flushed_total",
		Help:      "Match records durably flushed to the dataset file.",
	})

	batchFlushDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_flush_seconds",
		Help:      "Duration of durable batch flushes.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	})

	queueDepth = promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Items waiting in a stage work queue.",
	}, []string{"stage"})

	activeWorkers = promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_workers",
		Help:      "Workers running per stage.",
	}, []string{"stage"})

	stageItems = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_items_total",
		Help:      "Work items completed per stage.",
	}, []string{"stage"})
)

// RecordUpstreamRequest counts a completed request by status class, e.g. "2xx".
func RecordUpstreamRequest(status string) { upstreamRequests.WithLabelValues(status).Inc() }

// RecordUpstreamRetry counts a cooldown retry by trigger.
func RecordUpstreamRetry(reason string) { upstreamRetries.WithLabelValues(reason).Inc() }

// ObserveRequestLatency records the latency of a successful request.
func ObserveRequestLatency(seconds float64) { requestLatency.Observe(seconds) }

// ObserveRateGateWait records time spent blocked on the rate gate.
func ObserveRateGateWait(seconds float64) { rateGateWait.Observe(seconds) }

// RecordSkip counts a per-item skip by reason.
func RecordSkip(reason string) { itemsSkipped.WithLabelValues(reason).Inc() }

// SetCorpusSize updates the unique match id gauge.
func SetCorpusSize(n int64) { corpusSize.Set(float64(n)) }

// RecordRecordsFlushed counts records committed by a batch flush.
func RecordRecordsFlushed(n int) { recordsFlushed.Add(float64(n)) }

// ObserveBatchFlush records a flush duration.
func ObserveBatchFlush(seconds float64) { batchFlushDuration.Observe(seconds) }

// SetQueueDepth updates the queue depth gauge for a stage.
func SetQueueDepth(stage string, n int) { queueDepth.WithLabelValues(stage).Set(float64(n)) }

// SetActiveWorkers updates the worker gauge for a stage.
func SetActiveWorkers(stage string, n int) { activeWorkers.WithLabelValues(stage).Set(float64(n)) }

// RecordStageItem counts one completed work item for a stage.
func RecordStageItem(stage string) { stageItems.WithLabelValues(stage).Inc() }

// Handler returns the exposition handler for the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
