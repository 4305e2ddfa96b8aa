package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Ranked solo queue id used by the match-history filter.
const rankedSoloQueueID = 420

// LeagueEntries fetches one page of the ranked leaderboard for a
// queue/tier/division. An empty slice means the roster is exhausted.
func (c *Client) LeagueEntries(ctx context.Context, queue, tier, division string, page int) ([]LeagueEntry, error) {
	path := fmt.Sprintf("/lol/league/v4/entries/%s/%s/%s",
		url.PathEscape(queue), url.PathEscape(tier), url.PathEscape(division))

	body, err := c.get(ctx, c.platformURL, path, url.Values{
		"page": []string{strconv.Itoa(page)},
	})
	if err != nil {
		return nil, fmt.Errorf("league entries page %d: %w", page, err)
	}

	var entries []LeagueEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("league entries page %d: %w", page, ErrBadResponse)
	}
	return entries, nil
}

// SummonerByID resolves an encrypted summoner id to the full profile,
// including the PUUID join key.
func (c *Client) SummonerByID(ctx context.Context, summonerID string) (Summoner, error) {
	path := "/lol/summoner/v4/summoners/" + url.PathEscape(summonerID)

	body, err := c.get(ctx, c.platformURL, path, nil)
	if err != nil {
		return Summoner{}, fmt.Errorf("summoner %s: %w", summonerID, err)
	}

	var s Summoner
	if err := json.Unmarshal(body, &s); err != nil {
		return Summoner{}, fmt.Errorf("summoner %s: %w", summonerID, ErrBadResponse)
	}
	return s, nil
}

// MatchIDs fetches up to count recent ranked match ids for a PUUID.
func (c *Client) MatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))

	body, err := c.get(ctx, c.regionURL, path, url.Values{
		"queue": []string{strconv.Itoa(rankedSoloQueueID)},
		"type":  []string{"ranked"},
		"start": []string{"0"},
		"count": []string{strconv.Itoa(count)},
	})
	if err != nil {
		return nil, fmt.Errorf("match ids for %s: %w", puuid, err)
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("match ids for %s: %w", puuid, ErrBadResponse)
	}
	return ids, nil
}

// MatchDetail fetches the raw match detail payload. Parsing is left to the
// extraction stage so a malformed body becomes a per-item skip there.
func (c *Client) MatchDetail(ctx context.Context, matchID string) ([]byte, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)

	body, err := c.get(ctx, c.regionURL, path, nil)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}
	return body, nil
}
