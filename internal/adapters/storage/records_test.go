package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/riftlab/draftcrawl/internal/adapters/storage"
	"github.com/riftlab/draftcrawl/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id string, outcome model.Outcome) model.MatchRecord {
	return model.MatchRecord{
		MatchID:     id,
		BlueTeam:    []string{"Ahri", "Garen", "Jinx", "Thresh", "LeeSin"},
		RedTeam:     []string{"Zed", "Lux", "Ashe", "Leona", "Khazix"},
		BlueWin:     outcome,
		CollectedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordWriter(t *testing.T) {
	Convey("Given a record writer with batch size 3", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matchdata.csv")

		rw, err := storage.OpenRecordWriter(path, storage.WithBatchSize(3))
		So(err, ShouldBeNil)

		Convey("When fewer records than a batch are appended and the process dies", func() {
			So(rw.Append(record("NA1_1", model.OutcomeBlueWin)), ShouldBeNil)
			So(rw.Append(record("NA1_2", model.OutcomeBlueLoss)), ShouldBeNil)
			// Simulated crash: the writer is abandoned without Flush/Close.

			recs, err := storage.ReadRecords(path)
			So(err, ShouldBeNil)

			Convey("Then nothing is visible to readers", func() {
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When the run aborts with a partial buffer", func() {
			So(rw.Append(record("NA1_1", model.OutcomeBlueWin)), ShouldBeNil)
			So(rw.Append(record("NA1_2", model.OutcomeBlueLoss)), ShouldBeNil)
			So(rw.Abort(), ShouldBeNil)

			recs, err := storage.ReadRecords(path)
			So(err, ShouldBeNil)

			Convey("Then the partial batch is discarded, never committed", func() {
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When a full batch is appended", func() {
			So(rw.Append(record("NA1_1", model.OutcomeBlueWin)), ShouldBeNil)
			So(rw.Append(record("NA1_2", model.OutcomeBlueLoss)), ShouldBeNil)
			So(rw.Append(record("NA1_3", model.OutcomeUnknown)), ShouldBeNil)

			Convey("Then the batch is durably committed as a unit", func() {
				recs, err := storage.ReadRecords(path)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
				So(rw.Written(), ShouldEqual, 3)
				So(rw.Has("NA1_2"), ShouldBeTrue)
			})
		})

		Convey("When the stream ends with a partial buffer", func() {
			So(rw.Append(record("NA1_1", model.OutcomeBlueWin)), ShouldBeNil)
			So(rw.Close(), ShouldBeNil)

			recs, err := storage.ReadRecords(path)
			So(err, ShouldBeNil)

			Convey("Then Close flushes the remainder", func() {
				So(len(recs), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a dataset written by a prior run", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matchdata.csv")

		rw, err := storage.OpenRecordWriter(path, storage.WithBatchSize(2))
		So(err, ShouldBeNil)
		So(rw.Append(record("NA1_1", model.OutcomeBlueWin)), ShouldBeNil)
		So(rw.Append(record("NA1_2", model.OutcomeUnknown)), ShouldBeNil)
		So(rw.Close(), ShouldBeNil)

		Convey("When reopening", func() {
			reopened, err := storage.OpenRecordWriter(path, storage.WithBatchSize(2))
			So(err, ShouldBeNil)

			Convey("Then committed ids are indexed for skipping", func() {
				So(reopened.Has("NA1_1"), ShouldBeTrue)
				So(reopened.Has("NA1_9"), ShouldBeFalse)
				So(reopened.Written(), ShouldEqual, 2)
			})

			Convey("Then re-appending a committed id never rewrites its row", func() {
				So(reopened.Append(record("NA1_1", model.OutcomeBlueLoss)), ShouldBeNil)
				So(reopened.Close(), ShouldBeNil)

				recs, err := storage.ReadRecords(path)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].BlueWin, ShouldEqual, model.OutcomeBlueWin)
			})

			Convey("Then prior batches remain intact after more writes", func() {
				So(reopened.Append(record("NA1_3", model.OutcomeBlueLoss)), ShouldBeNil)
				So(reopened.Flush(), ShouldBeNil)
				So(reopened.Close(), ShouldBeNil)

				recs, err := storage.ReadRecords(path)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a round trip through the dataset file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matchdata.csv")

		want := record("NA1_42", model.OutcomeUnknown)
		rw, err := storage.OpenRecordWriter(path)
		So(err, ShouldBeNil)
		So(rw.Append(want), ShouldBeNil)
		So(rw.Close(), ShouldBeNil)

		recs, err := storage.ReadRecords(path)
		So(err, ShouldBeNil)
		So(len(recs), ShouldEqual, 1)

		Convey("Then champion ordering and the tri-state label are preserved", func() {
			So(recs[0].MatchID, ShouldEqual, want.MatchID)
			So(recs[0].BlueTeam, ShouldResemble, want.BlueTeam)
			So(recs[0].RedTeam, ShouldResemble, want.RedTeam)
			So(recs[0].BlueWin, ShouldEqual, model.OutcomeUnknown)
			So(recs[0].CollectedAt.Equal(want.CollectedAt), ShouldBeTrue)
		})
	})
}
