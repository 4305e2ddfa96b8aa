package crawl

import "errors"

// Sentinel kinds for pipeline stage errors.
var (
	// ErrEmptyRoster marks a leaderboard listing with no entries at all.
	// Fatal: with no roster there is nothing to resolve downstream.
	ErrEmptyRoster = errors.New("roster fetch returned no entries")
)
