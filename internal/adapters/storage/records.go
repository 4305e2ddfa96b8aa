package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/riftlab/draftcrawl/internal/domain/model"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

var recordHeader = []string{"match_id", "blue_team_champs", "red_team_champs", "blue_win", "collected_at"}

// Default record writer configuration constants.
const (
	defaultBatchSize = 100
)

// RecordWriter buffers extracted match records and flushes them to the
// dataset file in whole batches. Rows only become visible at a flush
// boundary, so a crash loses at most one in-flight batch and never leaves
// a partially written batch behind.
//
// The header is written once, guarded by an existence check; re-opening an
// initialized file is a no-op. On open, the writer indexes the match_ids
// already present so extraction can skip committed work.
type RecordWriter struct {
	path      string
	batchSize int

	mu      sync.Mutex
	f       *os.File
	w       *csv.Writer
	buf     []model.MatchRecord
	written map[string]struct{}
}

// OpenRecordWriter opens (or creates) the dataset file for appending.
func OpenRecordWriter(path string, opts ...RecordOption) (*RecordWriter, error) {
	rw := &RecordWriter{
		path:      path,
		batchSize: defaultBatchSize,
		written:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(rw)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		rows, err := readRows(path, len(recordHeader))
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			rw.written[row[0]] = struct{}{}
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	rw.f = f
	rw.w = csv.NewWriter(f)

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		if err := rw.w.Write(recordHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write record header: %w", err)
		}
		rw.w.Flush()
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync record header: %w", err)
		}
	}
	return rw, nil
}

// Has reports whether a match id was durably written by this or a prior run.
// Buffered-but-unflushed records do not count.
func (rw *RecordWriter) Has(matchID string) bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	_, ok := rw.written[matchID]
	return ok
}

// Written returns the number of durably committed records.
func (rw *RecordWriter) Written() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return len(rw.written)
}

// Append buffers one record, flushing the whole buffer once it reaches the
// batch size. A match id already committed is dropped silently, keeping
// rows append-once.
func (rw *RecordWriter) Append(rec model.MatchRecord) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if _, ok := rw.written[rec.MatchID]; ok {
		return nil
	}
	rw.buf = append(rw.buf, rec)
	if len(rw.buf) >= rw.batchSize {
		return rw.flushLocked()
	}
	return nil
}

// Flush durably commits any buffered records. Called at end of stream for
// the final partial batch.
func (rw *RecordWriter) Flush() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.flushLocked()
}

func (rw *RecordWriter) flushLocked() error {
	if len(rw.buf) == 0 {
		return nil
	}
	start := time.Now()

	for _, rec := range rw.buf {
		row := []string{
			rec.MatchID,
			strings.Join(rec.BlueTeam, ","),
			strings.Join(rec.RedTeam, ","),
			string(rec.BlueWin),
			rec.CollectedAt.UTC().Format(time.RFC3339),
		}
		if err := rw.w.Write(row); err != nil {
			return fmt.Errorf("write record row: %w", err)
		}
	}
	rw.w.Flush()
	if err := rw.w.Error(); err != nil {
		return fmt.Errorf("flush record batch: %w", err)
	}
	if err := rw.f.Sync(); err != nil {
		return fmt.Errorf("sync record batch: %w", err)
	}

	for _, rec := range rw.buf {
		rw.written[rec.MatchID] = struct{}{}
	}
	metrics.RecordRecordsFlushed(len(rw.buf))
	metrics.ObserveBatchFlush(time.Since(start).Seconds())
	rw.buf = rw.buf[:0]
	return nil
}

// Abort discards the buffered partial batch and closes the file without
// flushing. Used when a run is canceled: an aborted run must never make a
// partial batch visible.
func (rw *RecordWriter) Abort() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.buf = nil
	return rw.f.Close()
}

// Close flushes the remaining partial batch and closes the file.
func (rw *RecordWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if err := rw.flushLocked(); err != nil {
		rw.f.Close()
		return err
	}
	return rw.f.Close()
}

// ReadRecords loads the dataset file back into memory, mainly for tests
// and downstream tooling.
func ReadRecords(path string) ([]model.MatchRecord, error) {
	rows, err := readRows(path, len(recordHeader))
	if err != nil {
		return nil, err
	}

	records := make([]model.MatchRecord, 0, len(rows))
	for _, row := range rows {
		outcome, err := model.ParseOutcome(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row[0], err)
		}
		collected, err := time.Parse(time.RFC3339, row[4])
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row[0], err)
		}
		records = append(records, model.MatchRecord{
			MatchID:     row[0],
			BlueTeam:    splitChamps(row[1]),
			RedTeam:     splitChamps(row[2]),
			BlueWin:     outcome,
			CollectedAt: collected,
		})
	}
	return records, nil
}

func splitChamps(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
