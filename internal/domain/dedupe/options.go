package dedupe

const defaultInitialCapacity = 65536

type settings struct {
	initialCapacity int
}

// Option applies a configuration option to the in-memory set.
type Option func(*settings)

// WithInitialCapacity pre-sizes the backing map for an expected corpus size.
func WithInitialCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.initialCapacity = n
		}
	}
}
