// Package storage persists the crawl's durable artifacts: one CSV per
// pipeline stage plus the JSON progress checkpoint. Each artifact is
// independently loadable so every stage can resume from the previous run.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/riftlab/draftcrawl/internal/domain/model"
)

var rosterHeader = []string{"summoner_id", "tier", "rank", "league_points", "wins", "losses"}

// RosterStore persists the materialized roster artifact. The roster is
// written in one shot once fetched; a later run loads it instead of
// re-crawling the leaderboard.
type RosterStore struct {
	path string
}

// NewRosterStore creates a store backed by path.
func NewRosterStore(path string) *RosterStore {
	return &RosterStore{path: path}
}

// Exists reports whether the artifact has been written by a prior run.
func (s *RosterStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}

// Save writes the full roster, replacing any previous artifact.
func (s *RosterStore) Save(entries []model.RosterEntry) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create roster file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rosterHeader); err != nil {
		return fmt.Errorf("write roster header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.SummonerID, e.Tier, e.Rank,
			strconv.Itoa(e.LeaguePoints), strconv.Itoa(e.Wins), strconv.Itoa(e.Losses),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write roster row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush roster: %w", err)
	}
	return f.Sync()
}

// Load reads the roster artifact back in file order.
func (s *RosterStore) Load() ([]model.RosterEntry, error) {
	rows, err := readRows(s.path, len(rosterHeader))
	if err != nil {
		return nil, err
	}

	entries := make([]model.RosterEntry, 0, len(rows))
	for _, row := range rows {
		lp, _ := strconv.Atoi(row[3])
		wins, _ := strconv.Atoi(row[4])
		losses, _ := strconv.Atoi(row[5])
		entries = append(entries, model.RosterEntry{
			SummonerID:   row[0],
			Tier:         row[1],
			Rank:         row[2],
			LeaguePoints: lp,
			Wins:         wins,
			Losses:       losses,
		})
	}
	return entries, nil
}

// readRows reads a headered CSV and returns its data rows.
func readRows(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil // skip header
}
