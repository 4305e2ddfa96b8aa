package riot

import "github.com/riftlab/draftcrawl/internal/domain/model"

// LeagueEntry is one row of the League-V4 entries listing.
type LeagueEntry struct {
	SummonerID   string `json:"summonerId"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// RosterEntry converts the wire row into the domain model.
func (e LeagueEntry) RosterEntry() model.RosterEntry {
	return model.RosterEntry{
		SummonerID:   e.SummonerID,
		Tier:         e.Tier,
		Rank:         e.Rank,
		LeaguePoints: e.LeaguePoints,
		Wins:         e.Wins,
		Losses:       e.Losses,
	}
}

// Summoner is the Summoner-V4 profile carrying the stable cross-endpoint
// player key.
type Summoner struct {
	ID    string `json:"id"`
	PUUID string `json:"puuid"`
}
