package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/riftlab/draftcrawl/internal/crawl"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeRoster serves canned leaderboard pages and records which pages were
// requested.
type fakeRoster struct {
	pages     map[int][]riot.LeagueEntry
	requested []int
}

func (f *fakeRoster) LeagueEntries(_ context.Context, _, _, _ string, page int) ([]riot.LeagueEntry, error) {
	f.requested = append(f.requested, page)
	return f.pages[page], nil
}

func entriesPage(n, start int) []riot.LeagueEntry {
	out := make([]riot.LeagueEntry, n)
	for i := range out {
		out[i] = riot.LeagueEntry{
			SummonerID: fmt.Sprintf("enc-%d", start+i),
			Tier:       "GOLD",
			Rank:       "I",
		}
	}
	return out
}

func TestRosterFetcher(t *testing.T) {
	ctx := context.Background()

	Convey("Given a leaderboard with two pages of players", t, func() {
		client := &fakeRoster{pages: map[int][]riot.LeagueEntry{
			1: entriesPage(3, 0),
			2: entriesPage(2, 3),
		}}
		f := crawl.NewRosterFetcher(client, crawl.WithMaxPages(5))

		Convey("When fetching", func() {
			roster, err := f.Fetch(ctx, "RANKED_SOLO_5x5", "GOLD", "I")

			Convey("Then it stops at the first empty page", func() {
				So(err, ShouldBeNil)
				So(len(roster), ShouldEqual, 5)
				// Page 3 came back empty; pages 4 and 5 must not be requested.
				So(client.requested, ShouldResemble, []int{1, 2, 3})
			})
		})
	})

	Convey("Given a leaderboard whose first page is empty", t, func() {
		client := &fakeRoster{pages: map[int][]riot.LeagueEntry{}}
		f := crawl.NewRosterFetcher(client, crawl.WithMaxPages(5))

		Convey("When fetching", func() {
			_, err := f.Fetch(ctx, "RANKED_SOLO_5x5", "GOLD", "I")

			Convey("Then the run fails fast without requesting further pages", func() {
				So(errors.Is(err, crawl.ErrEmptyRoster), ShouldBeTrue)
				So(client.requested, ShouldResemble, []int{1})
			})
		})
	})

	Convey("Given more players than the roster cap", t, func() {
		client := &fakeRoster{pages: map[int][]riot.LeagueEntry{
			1: entriesPage(10, 0),
		}}
		f := crawl.NewRosterFetcher(client, crawl.WithMaxPages(1), crawl.WithMaxRoster(4))

		Convey("When fetching", func() {
			roster, err := f.Fetch(ctx, "RANKED_SOLO_5x5", "GOLD", "I")

			Convey("Then the materialized roster is truncated", func() {
				So(err, ShouldBeNil)
				So(len(roster), ShouldEqual, 4)
				So(roster[0].SummonerID, ShouldEqual, "enc-0")
			})
		})
	})

	Convey("Given the page ceiling is reached with data still flowing", t, func() {
		client := &fakeRoster{pages: map[int][]riot.LeagueEntry{
			1: entriesPage(2, 0),
			2: entriesPage(2, 2),
			3: entriesPage(2, 4),
		}}
		f := crawl.NewRosterFetcher(client, crawl.WithMaxPages(2))

		Convey("When fetching", func() {
			roster, err := f.Fetch(ctx, "RANKED_SOLO_5x5", "GOLD", "I")

			Convey("Then no page beyond the ceiling is requested", func() {
				So(err, ShouldBeNil)
				So(len(roster), ShouldEqual, 4)
				So(client.requested, ShouldResemble, []int{1, 2})
			})
		})
	})
}
