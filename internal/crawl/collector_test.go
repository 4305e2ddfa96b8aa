package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/riftlab/draftcrawl/internal/adapters/storage"
	"github.com/riftlab/draftcrawl/internal/crawl"
	"github.com/riftlab/draftcrawl/internal/domain/dedupe"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeHistory serves canned match-id histories per puuid.
type fakeHistory struct {
	mu      sync.Mutex
	history map[string][]string
	fetched []string
}

func (f *fakeHistory) MatchIDs(_ context.Context, puuid string, count int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, puuid)
	ids := f.history[puuid]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

// memoryCorpus records appended batches.
type memoryCorpus struct {
	mu      sync.Mutex
	batches [][]string
}

func (c *memoryCorpus) Append(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, ids)
	return nil
}

func (c *memoryCorpus) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

// flakyCorpus rejects the first append and accepts the rest.
type flakyCorpus struct {
	memoryCorpus
	failOnce sync.Once
}

func (c *flakyCorpus) Append(ids []string) error {
	var failed bool
	c.failOnce.Do(func() { failed = true })
	if failed {
		return errors.New("disk full")
	}
	return c.memoryCorpus.Append(ids)
}

func identities(puuids ...string) []model.ResolvedIdentity {
	out := make([]model.ResolvedIdentity, len(puuids))
	for i, p := range puuids {
		out[i] = model.ResolvedIdentity{PUUID: p}
	}
	return out
}

func seedIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("SEED_%d", i)
	}
	return out
}

func newCheckpoint(t *testing.T) *storage.Checkpoint {
	t.Helper()
	cp, err := storage.LoadCheckpoint(filepath.Join(t.TempDir(), "checkpoint.json"))
	if err != nil {
		t.Fatalf("load checkpoint: %v", err)
	}
	return cp
}

func TestMatchIDCollector(t *testing.T) {
	ctx := context.Background()

	Convey("Given a checkpoint of 48 ids and a target of 50", t, func() {
		set := dedupe.NewInMemorySet()
		set.Seed(ctx, seedIDs(48))

		history := &fakeHistory{history: map[string][]string{
			"p1": {"NEW_1", "NEW_2", "NEW_3", "NEW_4", "NEW_5"},
			"p2": {"NEW_6", "NEW_7"},
			"p3": {"NEW_8"},
		}}
		corpus := &memoryCorpus{}

		c := crawl.NewMatchIDCollector(history, set, corpus, newCheckpoint(t),
			crawl.WithTargetCorpus(50),
			crawl.WithPerPlayerCount(20),
			crawl.WithCollectWorkers(1),
		)

		Convey("When the first player yields 5 new ids", func() {
			err := c.Collect(ctx, identities("p1", "p2", "p3"))

			Convey("Then the corpus lands on exactly 53 and stops", func() {
				So(err, ShouldBeNil)
				// The last batch is unioned whole, not truncated to the target.
				So(set.Size(), ShouldEqual, 53)
				So(corpus.total(), ShouldEqual, 5)
			})

			Convey("Then no further players are fetched", func() {
				So(err, ShouldBeNil)
				So(history.fetched, ShouldResemble, []string{"p1"})
			})
		})
	})

	Convey("Given two players sharing match history", t, func() {
		set := dedupe.NewInMemorySet()
		history := &fakeHistory{history: map[string][]string{
			"p1": {"M_1", "M_2", "M_3"},
			"p2": {"M_2", "M_3", "M_4"},
		}}
		corpus := &memoryCorpus{}

		c := crawl.NewMatchIDCollector(history, set, corpus, newCheckpoint(t),
			crawl.WithTargetCorpus(1000),
			crawl.WithCollectWorkers(1),
		)

		Convey("When collecting", func() {
			err := c.Collect(ctx, identities("p1", "p2"))

			Convey("Then re-discovered ids never duplicate", func() {
				So(err, ShouldBeNil)
				So(set.Size(), ShouldEqual, 4)
				So(corpus.total(), ShouldEqual, 4)
			})
		})
	})

	Convey("Given a committed watermark from a prior run", t, func() {
		set := dedupe.NewInMemorySet()
		history := &fakeHistory{history: map[string][]string{
			"p1": {"M_1"},
			"p2": {"M_2"},
			"p3": {"M_3"},
		}}
		corpus := &memoryCorpus{}

		cp := newCheckpoint(t)
		So(cp.Advance(crawl.StageCollect, 1), ShouldBeNil) // p1, p2 committed

		c := crawl.NewMatchIDCollector(history, set, corpus, cp,
			crawl.WithTargetCorpus(1000),
			crawl.WithCollectWorkers(1),
		)

		Convey("When collecting again", func() {
			err := c.Collect(ctx, identities("p1", "p2", "p3"))

			Convey("Then only work past the watermark replays", func() {
				So(err, ShouldBeNil)
				So(history.fetched, ShouldResemble, []string{"p3"})
				So(cp.Watermark(crawl.StageCollect), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a corpus whose first append fails", t, func() {
		set := dedupe.NewInMemorySet()
		history := &fakeHistory{history: map[string][]string{
			"p1": {"M_1", "M_2"},
			"p2": {"M_2", "M_3"},
		}}
		corpus := &flakyCorpus{}
		cp := newCheckpoint(t)

		c := crawl.NewMatchIDCollector(history, set, corpus, cp,
			crawl.WithTargetCorpus(1000),
			crawl.WithCollectWorkers(1),
		)

		Convey("When collecting", func() {
			err := c.Collect(ctx, identities("p1", "p2"))
			So(err, ShouldBeNil) // per-player failure never aborts the stage

			Convey("Then the set counts only durably appended ids", func() {
				// p1's batch was rolled back, so p2 re-discovers M_2.
				So(set.Size(), ShouldEqual, 2)
				So(corpus.total(), ShouldEqual, 2)
			})

			Convey("Then the watermark does not advance past the failure", func() {
				So(cp.Watermark(crawl.StageCollect), ShouldEqual, -1)
			})
		})
	})

	Convey("Given the corpus already meets the target", t, func() {
		set := dedupe.NewInMemorySet()
		set.Seed(ctx, seedIDs(10))
		history := &fakeHistory{history: map[string][]string{"p1": {"M_1"}}}
		corpus := &memoryCorpus{}

		c := crawl.NewMatchIDCollector(history, set, corpus, newCheckpoint(t),
			crawl.WithTargetCorpus(10),
		)

		Convey("When collecting", func() {
			err := c.Collect(ctx, identities("p1"))

			Convey("Then nothing is fetched at all", func() {
				So(err, ShouldBeNil)
				So(history.fetched, ShouldBeEmpty)
			})
		})
	})
}
