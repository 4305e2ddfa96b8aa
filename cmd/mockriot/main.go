// Command mockriot serves a deterministic fake of the upstream match API
// for local end-to-end runs without a credential:
//
//	go run ./cmd/mockriot &
//	DRAFTCRAWL_PLATFORM_BASE_URL=http://localhost:8799 \
//	DRAFTCRAWL_REGION_BASE_URL=http://localhost:8799 go run ./cmd
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riftlab/draftcrawl/internal/mockriot"
	"github.com/riftlab/draftcrawl/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8799", "listen address")
	pages := flag.Int("pages", 3, "non-empty leaderboard pages")
	perPage := flag.Int("per-page", 25, "players per leaderboard page")
	perPlayer := flag.Int("per-player", 20, "match history length per player")
	overlap := flag.Int("overlap", 10, "match ids shared between neighboring players")
	limitEvery := flag.Int("limit-every", 0, "answer 429 on every nth request (0 disables)")
	goneEvery := flag.Int("gone-every", 0, "answer 404 for roughly one in n match details (0 disables)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("mockriot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	upstream := mockriot.New(
		mockriot.WithPages(*pages),
		mockriot.WithPlayersPerPage(*perPage),
		mockriot.WithPerPlayerMatches(*perPlayer),
		mockriot.WithOverlap(*overlap),
		mockriot.WithRateLimitEvery(*limitEvery),
		mockriot.WithGoneEvery(*goneEvery),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           upstream.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(ctx, "mock upstream listening", logger.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("mock upstream failed: " + err.Error() + "\n")
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown failed", logger.Error(err))
	}
}
