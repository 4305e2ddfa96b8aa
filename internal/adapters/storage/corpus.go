package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

var corpusHeader = []string{"matchid"}

// CorpusStore is the append-only match-id corpus file. The file doubles as
// its own recovery index: opening it returns every id flushed by any prior
// run, so corpus cardinality only ever grows across restarts.
//
// Appends are serialized by a mutex; deduplication is the caller's job
// (the dedupe set is the single gatekeeper for uniqueness).
type CorpusStore struct {
	path string

	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// OpenCorpusStore opens (or creates) the corpus file and returns the ids
// already persisted.
func OpenCorpusStore(path string) (*CorpusStore, []string, error) {
	var existing []string
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		rows, err := readRows(path, 1)
		if err != nil {
			return nil, nil, err
		}
		existing = make([]string, 0, len(rows))
		for _, row := range rows {
			existing = append(existing, row[0])
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open corpus file: %w", err)
	}

	s := &CorpusStore{path: path, f: f, w: csv.NewWriter(f)}
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		if err := s.w.Write(corpusHeader); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("write corpus header: %w", err)
		}
		s.w.Flush()
	}
	return s, existing, nil
}

// Append durably writes a batch of newly discovered ids as one unit.
// An empty batch is a no-op.
func (s *CorpusStore) Append(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if err := s.w.Write([]string{id}); err != nil {
			return fmt.Errorf("write corpus row: %w", err)
		}
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush corpus batch: %w", err)
	}
	return s.f.Sync()
}

// Close closes the underlying file.
func (s *CorpusStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	return s.f.Close()
}

// ReadCorpus loads the persisted corpus ids without opening the file for
// appending. Used by the extraction stage, which consumes the artifact
// read-only.
func ReadCorpus(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	rows, err := readRows(path, 1)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row[0])
	}
	return ids, nil
}
