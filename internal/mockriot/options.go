package mockriot

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithPages sets how many non-empty leaderboard pages exist.
func WithPages(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pages = n
		}
	}
}

// WithPlayersPerPage sets the leaderboard page size.
func WithPlayersPerPage(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.playersPerPage = n
		}
	}
}

// WithPerPlayerMatches sets each player's history length.
func WithPerPlayerMatches(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.perPlayer = n
		}
	}
}

// WithOverlap sets how many match ids consecutive players share.
func WithOverlap(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// WithRateLimitEvery makes every nth request answer 429. Zero disables
// injection.
func WithRateLimitEvery(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.limitEvery = n
		}
	}
}

// WithGoneEvery makes roughly one in n match details answer 404. Zero
// disables injection.
func WithGoneEvery(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.goneEvery = n
		}
	}
}
