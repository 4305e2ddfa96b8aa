// Package debug exposes the operational HTTP surface: Prometheus metrics
// and a liveness probe. It is optional; the crawler runs headless when no
// listen address is configured.
package debug

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/riftlab/draftcrawl/pkg/logger"
	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// Server wraps the debug HTTP listener.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// New builds a Server listening on addr.
func New(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logger.Get().Named("debug"),
	}
}

// Start serves until the listener is closed. ErrServerClosed is swallowed
// so a clean Shutdown reads as success.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info(ctx, "debug server listening", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
