package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/riftlab/draftcrawl/internal/domain/model"
)

var identityHeader = []string{"summoner_id", "tier", "rank", "league_points", "wins", "losses", "puuid"}

// IdentityStore persists roster entries joined with their PUUID. Identity
// resolution is the slowest stage, so the artifact is appended entry by
// entry: a crash keeps everything resolved so far.
type IdentityStore struct {
	path string

	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// OpenIdentityStore opens (or creates) the artifact for appending and
// returns the identities already resolved by prior runs.
func OpenIdentityStore(path string) (*IdentityStore, []model.ResolvedIdentity, error) {
	var existing []model.ResolvedIdentity
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		rows, err := readRows(path, len(identityHeader))
		if err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			lp, _ := strconv.Atoi(row[3])
			wins, _ := strconv.Atoi(row[4])
			losses, _ := strconv.Atoi(row[5])
			existing = append(existing, model.ResolvedIdentity{
				RosterEntry: model.RosterEntry{
					SummonerID:   row[0],
					Tier:         row[1],
					Rank:         row[2],
					LeaguePoints: lp,
					Wins:         wins,
					Losses:       losses,
				},
				PUUID: row[6],
			})
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open identity file: %w", err)
	}

	s := &IdentityStore{path: path, f: f, w: csv.NewWriter(f)}
	if len(existing) == 0 {
		if info, err := f.Stat(); err == nil && info.Size() == 0 {
			if err := s.w.Write(identityHeader); err != nil {
				f.Close()
				return nil, nil, fmt.Errorf("write identity header: %w", err)
			}
			s.w.Flush()
		}
	}
	return s, existing, nil
}

// Append durably writes one resolved identity. Safe for concurrent use by
// resolver workers.
func (s *IdentityStore) Append(id model.ResolvedIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		id.SummonerID, id.Tier, id.Rank,
		strconv.Itoa(id.LeaguePoints), strconv.Itoa(id.Wins), strconv.Itoa(id.Losses),
		id.PUUID,
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write identity row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush identity row: %w", err)
	}
	return s.f.Sync()
}

// Close closes the underlying file.
func (s *IdentityStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	return s.f.Close()
}
