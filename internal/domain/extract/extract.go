// Package extract turns raw match detail payloads into labeled dataset rows.
package extract

import (
	"encoding/json"
	"time"

	"github.com/riftlab/draftcrawl/internal/domain/model"
)

// Side ids used by the upstream match payloads.
const (
	blueTeamID = 100
	redTeamID  = 200
)

type teamResult struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

type participant struct {
	TeamID       int    `json:"teamId"`
	ChampionName string `json:"championName"`
}

type matchInfo struct {
	Teams        []teamResult  `json:"teams"`
	Participants []participant `json:"participants"`
}

type matchPayload struct {
	Info matchInfo `json:"info"`
}

// Match parses a raw match detail payload into a MatchRecord.
//
// The label is read from the team entry with id 100; if the payload has no
// such entry the record carries OutcomeUnknown rather than failing.
// Champion lists keep the upstream participant order and are emitted as-is
// even when a side is short of five players. Only an unparseable payload is
// an error.
func Match(matchID string, payload []byte, collectedAt time.Time) (model.MatchRecord, error) {
	var p matchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return model.MatchRecord{}, ErrMalformedPayload
	}

	var blueWin *bool
	for _, t := range p.Info.Teams {
		if t.TeamID == blueTeamID {
			win := t.Win
			blueWin = &win
			break
		}
	}

	var blue, red []string
	for _, pt := range p.Info.Participants {
		switch pt.TeamID {
		case blueTeamID:
			blue = append(blue, pt.ChampionName)
		case redTeamID:
			red = append(red, pt.ChampionName)
		}
	}

	return model.MatchRecord{
		MatchID:     matchID,
		BlueTeam:    blue,
		RedTeam:     red,
		BlueWin:     model.OutcomeFromBool(blueWin),
		CollectedAt: collectedAt,
	}, nil
}
