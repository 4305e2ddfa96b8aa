package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Checkpoint is the durable per-stage progress file. Each stage records a
// watermark: the highest input index such that every input at or below it
// has been fully committed. Watermarks replace manual resume offsets; a
// restarted run picks up directly past the watermark.
type Checkpoint struct {
	path string

	mu         sync.Mutex
	Watermarks map[string]int `json:"watermarks"`
}

// LoadCheckpoint reads the checkpoint file, returning an empty checkpoint
// when none exists yet.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	cp := &Checkpoint{path: path, Watermarks: make(map[string]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	if err := json.Unmarshal(data, cp); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	if cp.Watermarks == nil {
		cp.Watermarks = make(map[string]int)
	}
	return cp, nil
}

// Watermark returns the committed watermark for a stage, or -1 when the
// stage has no progress yet.
func (c *Checkpoint) Watermark(stage string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.Watermarks[stage]; ok {
		return v
	}
	return -1
}

// Advance records a new watermark for a stage and persists it atomically
// via a temp file and rename. Watermarks never move backwards.
func (c *Checkpoint) Advance(stage string, watermark int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.Watermarks[stage]; ok && watermark <= cur {
		return nil
	}
	c.Watermarks[stage] = watermark

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}

// WatermarkTracker turns out-of-order completions from a worker pool into
// a contiguous watermark. Done(i) marks input i complete and returns the
// highest index with no gaps below it (-1 until index 0 completes past the
// starting point).
type WatermarkTracker struct {
	mu      sync.Mutex
	next    int
	pending map[int]struct{}
}

// NewWatermarkTracker creates a tracker resuming after watermark; pass -1
// for a fresh run.
func NewWatermarkTracker(watermark int) *WatermarkTracker {
	return &WatermarkTracker{
		next:    watermark + 1,
		pending: make(map[int]struct{}),
	}
}

// Done marks index i complete and returns the new contiguous watermark.
func (t *WatermarkTracker) Done(i int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[i] = struct{}{}
	for {
		if _, ok := t.pending[t.next]; !ok {
			break
		}
		delete(t.pending, t.next)
		t.next++
	}
	return t.next - 1
}

// Value returns the current contiguous watermark.
func (t *WatermarkTracker) Value() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.next - 1
}

// PendingAbove returns the completed-but-gapped indexes, sorted. Mainly a
// debugging aid for stalled runs.
func (t *WatermarkTracker) PendingAbove() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int, 0, len(t.pending))
	for i := range t.pending {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
