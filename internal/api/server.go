// Package api exposes a read-only status surface: the latest run report and
// the configured targets. It is disabled by default and intended for a
// trusted network only.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/report"
)

type Handlers struct {
	reports *report.Store
	targets []registry.Target
	logger  *slog.Logger
}

func NewHandlers(reports *report.Store, targets []registry.Target) *Handlers {
	return &Handlers{
		reports: reports,
		targets: targets,
		logger:  slog.Default().With("component", "api"),
	}
}

// Router builds the chi router with the usual middleware stack.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.GetHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", h.GetReport)
		r.Get("/targets", h.GetTargets)
	})

	return r
}

func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"targets": len(h.targets),
	})
}

// GetReport returns the most recent completed run, or 404 before the first
// run finishes.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	rep := h.reports.Latest()
	if rep == nil {
		h.respondError(w, http.StatusNotFound, "no completed run yet")
		return
	}
	h.respondJSON(w, http.StatusOK, rep)
}

func (h *Handlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.targets)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(h *Handlers, host string, port int) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
