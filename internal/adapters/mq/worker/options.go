package worker

type settings struct {
	count int
	stage string
}

// Option applies a configuration option to the pool.
type Option func(*settings)

// WithCount sets the number of worker goroutines.
func WithCount(count int) Option {
	return func(s *settings) {
		if count > 0 {
			s.count = count
		}
	}
}

// WithStage names the pipeline stage this pool serves, for logs and metrics.
func WithStage(stage string) Option {
	return func(s *settings) {
		if stage != "" {
			s.stage = stage
		}
	}
}
