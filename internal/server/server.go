// Package server exposes resolution over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seam/internal/batch"
	"seam/internal/log"
	"seam/internal/media"
	"seam/internal/provider"
)

const maxStatusRooms = 32

// Resolver is the subset of the provider registry the server needs.
type Resolver interface {
	Resolve(ctx context.Context, platform, roomID string, headers map[string]string) (*media.Node, error)
	Names() []string
}

// Server serves the JSON API.
type Server struct {
	resolver   Resolver
	headersFor func(platform string) map[string]string
	router     *mux.Router
}

// New builds a server. headersFor supplies the configured extra headers per
// platform and may be nil.
func New(resolver Resolver, headersFor func(string) map[string]string) *Server {
	if headersFor == nil {
		headersFor = func(string) map[string]string { return nil }
	}
	s := &Server{resolver: resolver, headersFor: headersFor, router: mux.NewRouter()}

	s.router.HandleFunc("/healthz", handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(gzipMiddleware)
	api.HandleFunc("/platforms", s.handlePlatforms).Methods("GET")
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/{platform}/{room}", s.handleResolve).Methods("GET")
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"platforms": s.resolver.Names()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	platform := vars["platform"]
	room := vars["room"]

	node, err := s.resolver.Resolve(r.Context(), platform, room, s.headersFor(platform))
	if err != nil {
		kind := provider.Classify(err)
		writeError(w, statusFor(kind), kind, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// handleStatus checks several rooms at once: /api/status?room=bilibili:6&room=173:96
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["room"]
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, provider.OutcomeInvalidRoom, "at least one room=platform:room is required")
		return
	}
	if len(raw) > maxStatusRooms {
		writeError(w, http.StatusBadRequest, provider.OutcomeInvalidRoom, fmt.Sprintf("at most %d rooms per request", maxStatusRooms))
		return
	}

	targets := make([]batch.Target, 0, len(raw))
	for _, v := range raw {
		t, err := batch.ParseTarget(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, provider.OutcomeInvalidRoom, err.Error())
			return
		}
		targets = append(targets, t)
	}

	results, err := batch.Run(r.Context(), s.resolver, targets, batch.DefaultWorkers, s.headersFor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, provider.OutcomeError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]batch.Result{"rooms": results})
}

// statusFor maps an outcome label to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case provider.OutcomeNotLive:
		return http.StatusNotFound
	case provider.OutcomeUnknownPlatform, provider.OutcomeInvalidRoom:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writing response: %v", err)
	}
}
