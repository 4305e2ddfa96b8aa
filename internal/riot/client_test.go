package riot_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testClient(t *testing.T, srv *httptest.Server) *riot.Client {
	t.Helper()
	return riot.New(
		riot.WithBaseURLs(srv.URL, srv.URL),
		riot.WithRequestRate(1000, 10),
		riot.WithCooldown(5*time.Millisecond),
	)
}

func TestRateLimitedRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]string{"NA1_1", "NA1_2"})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	ids, err := c.MatchIDs(context.Background(), "puuid-1", 20)
	if err != nil {
		t.Fatalf("expected eventual success after 429s, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts (two 429s then success), got %d", got)
	}
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.MatchDetail(context.Background(), "NA1_gone")
	if !errors.Is(err, riot.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("404 must not be retried, saw %d attempts", got)
	}
}

func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(riot.Summoner{ID: "enc-1", PUUID: "puuid-1"})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	s, err := c.SummonerByID(context.Background(), "enc-1")
	if err != nil {
		t.Fatalf("expected success after 500, got %v", err)
	}
	if s.PUUID != "puuid-1" {
		t.Errorf("unexpected summoner: %+v", s)
	}
}

func TestCancellationStopsRetryLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := riot.New(
		riot.WithBaseURLs(srv.URL, srv.URL),
		riot.WithRequestRate(1000, 10),
		riot.WithCooldown(time.Hour),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.MatchDetail(ctx, "NA1_1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.LeagueEntries(context.Background(), "RANKED_SOLO_5x5", "GOLD", "I", 1)
	if !errors.Is(err, riot.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestCredentialSentAsHeader(t *testing.T) {
	var gotHeader, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Riot-Token")
		gotQuery = r.URL.Query().Get("api_key")
		json.NewEncoder(w).Encode([]riot.LeagueEntry{})
	}))
	defer srv.Close()

	c := riot.New(
		riot.WithAPIKey("RGAPI-test"),
		riot.WithBaseURLs(srv.URL, srv.URL),
		riot.WithRequestRate(1000, 10),
	)
	if _, err := c.LeagueEntries(context.Background(), "RANKED_SOLO_5x5", "GOLD", "I", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHeader != "RGAPI-test" {
		t.Errorf("expected credential in X-Riot-Token header, got %q", gotHeader)
	}
	if gotQuery != "" {
		t.Errorf("credential must not appear in the query string, got %q", gotQuery)
	}
}
