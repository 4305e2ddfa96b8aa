package queue

type settings struct {
	capacity int
	stage    string
}

// Option applies a configuration option to the queue.
type Option func(*settings)

// WithCapacity sets the maximum number of buffered items.
func WithCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithStage names the pipeline stage this queue feeds, for metrics.
func WithStage(stage string) Option {
	return func(s *settings) {
		if stage != "" {
			s.stage = stage
		}
	}
}
