// Package model contains domain models passed between pipeline stages.
package model

import "time"

// RosterEntry is one player row from the ranked leaderboard listing.
// Immutable once fetched.
type RosterEntry struct {
	SummonerID   string // opaque per-platform player reference
	Tier         string // e.g. "GOLD"
	Rank         string // division within the tier, e.g. "I"
	LeaguePoints int
	Wins         int
	Losses       int
}

// ResolvedIdentity joins a roster entry with the stable cross-endpoint
// player key used by the match-history API family.
type ResolvedIdentity struct {
	RosterEntry
	PUUID string
}

// Outcome is the tri-state blue-side result of a match. The zero value is
// OutcomeUnknown: a match whose payload carried no blue-team result stays
// unknown all the way to the dataset file, never coerced to a loss.
type Outcome string

const (
	OutcomeUnknown Outcome = ""
	OutcomeBlueWin Outcome = "true"
	OutcomeBlueLoss Outcome = "false"
)

// OutcomeFromBool maps an optional upstream win flag to an Outcome.
func OutcomeFromBool(win *bool) Outcome {
	switch {
	case win == nil:
		return OutcomeUnknown
	case *win:
		return OutcomeBlueWin
	default:
		return OutcomeBlueLoss
	}
}

// ParseOutcome parses the persisted form of an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeUnknown, OutcomeBlueWin, OutcomeBlueLoss:
		return Outcome(s), nil
	}
	return OutcomeUnknown, ErrBadOutcome
}

// MatchRecord is one labeled dataset row extracted from a match detail
// payload. Champion slices preserve upstream participant order.
// Immutable once written.
type MatchRecord struct {
	MatchID     string
	BlueTeam    []string
	RedTeam     []string
	BlueWin     Outcome
	CollectedAt time.Time
}
