// Package api exposes the normalized firewall state as JSON over
// HTTP for the dashboard.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/fwlens/internal/firewall"
	"grimm.is/fwlens/internal/logging"
	"grimm.is/fwlens/internal/metrics"
	"grimm.is/fwlens/internal/poller"
)

// Server serves the firewall snapshot API.
type Server struct {
	mux    *http.ServeMux
	logger *logging.Logger
	store  *poller.Store
	poll   *poller.Poller
}

// NewServer creates the API server over the given snapshot store.
func NewServer(store *poller.Store, poll *poller.Poller, logger *logging.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger.WithComponent("api"),
		store:  store,
		poll:   poll,
	}

	s.mux.HandleFunc("GET /api/firewall", s.handleSnapshot)
	s.mux.HandleFunc("GET /api/firewall/{backend}", s.handleBackend)
	s.mux.HandleFunc("POST /api/firewall/refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleSnapshot returns the latest full snapshot. Before the first
// refresh completes there is nothing to show, which is distinct from
// both "no rules" and "tool unavailable".
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Get()
	if snap == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	s.writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleBackend(w http.ResponseWriter, r *http.Request) {
	backend := firewall.Backend(r.PathValue("backend"))
	if _, err := firewall.ParserFor(backend); err != nil {
		s.writeError(w, r, http.StatusNotFound, "unknown backend")
		return
	}

	snap := s.store.Get()
	if snap == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	cfg := snap.Config(backend)
	if cfg == nil {
		s.writeError(w, r, http.StatusNotFound, "backend not polled")
		return
	}
	s.writeJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.poll.Refresh(r.Context())
	s.writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	}
	if snap := s.store.Get(); snap != nil {
		status["snapshot_id"] = snap.ID
		status["snapshot_time"] = snap.Time
	}
	s.writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) count(r *http.Request, status int) {
	metrics.Get().APIRequests.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()
}
