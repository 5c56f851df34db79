package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/seaice-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SummaryLister returns recently decoded record sets, newest first.
type SummaryLister interface {
	Recent() []domain.RecordSetSummary
}

// Server exposes health, readiness, metrics, and recent-orbit HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /orbits routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, orbits SummaryLister, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /orbits", s.handleOrbits(orbits))

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

type orbitsResponse struct {
	Count   int                       `json:"count"`
	Records []domain.RecordSetSummary `json:"record_sets"`
}

// handleOrbits lists recent record sets. ?source= filters by source id and
// ?limit= caps the number returned.
func (s *Server) handleOrbits(orbits SummaryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := -1
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
				return
			}
			limit = n
		}
		source := r.URL.Query().Get("source")

		records := make([]domain.RecordSetSummary, 0)
		for _, rs := range orbits.Recent() {
			if limit >= 0 && len(records) == limit {
				break
			}
			if source != "" && rs.SourceID != source {
				continue
			}
			records = append(records, rs)
		}
		sharedobs.WriteJSON(w, http.StatusOK, orbitsResponse{Count: len(records), Records: records})
	}
}
