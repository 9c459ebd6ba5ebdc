// Package server exposes the read-only status endpoints of a running
// harvester process.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/harvester/pkg/buildinfo"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server routes status requests to the store.
type Server struct {
	router  chi.Router
	store   store.Store
	logger  *log.Logger
	workers []model.Source
}

// New builds the router. metrics may be nil to omit /metrics.
func New(st store.Store, workers []model.Source, metrics http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{store: st, logger: logger, workers: workers}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.healthz)
	r.Get("/stats", s.stats)
	r.Route("/stages", func(r chi.Router) {
		r.Get("/", s.listStages)
		r.Get("/{worker}", s.getStage)
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: requestTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("status server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

type statsResponse struct {
	Workers  []model.Source `json:"workers"`
	Authors  int64          `json:"authors"`
	Keywords int64          `json:"keywords"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authors, err := s.store.Authors().Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	keywords, err := s.store.Keywords().Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	workers := s.workers
	if workers == nil {
		workers = []model.Source{}
	}
	writeJSON(w, http.StatusOK, statsResponse{Workers: workers, Authors: authors, Keywords: keywords})
}

func (s *Server) listStages(w http.ResponseWriter, r *http.Request) {
	stages, err := s.store.Stages().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if stages == nil {
		stages = []model.Stage{}
	}
	writeJSON(w, http.StatusOK, stages)
}

func (s *Server) getStage(w http.ResponseWriter, r *http.Request) {
	worker, err := model.ParseSource(chi.URLParam(r, "worker"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stage, err := s.store.Stages().Get(r.Context(), worker)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if stage == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no checkpoint for " + worker.String()})
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
