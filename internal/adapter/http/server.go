package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/cap-alert-etl/internal/domain"
	"github.com/couchcryptid/cap-alert-etl/internal/tracker"
	"github.com/couchcryptid/cap-alert-etl/internal/ugc"
)

// Server exposes health, readiness, metrics, and the live alert query.
type Server struct {
	httpServer *http.Server
	alerts     *tracker.Tracker
	matcher    *ugc.Matcher
	geocoder   domain.Geocoder
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /alerts routes. A nil geocoder disables the place query parameter.
func NewServer(addr string, ready sharedobs.ReadinessChecker, alerts *tracker.Tracker, matcher *ugc.Matcher, geocoder domain.Geocoder, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		alerts:   alerts,
		matcher:  matcher,
		geocoder: geocoder,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /alerts", s.handleAlerts)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
