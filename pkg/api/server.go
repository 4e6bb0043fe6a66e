// Package api pkg/api/server.go
//
// HTTP surface for the dashboard: read endpoints render the merged
// cache projections, mutation endpoints forward intents to the
// synchronizer, and a websocket pushes cache-change notifications so
// clients re-read instead of polling the HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/httpx"
	"github.com/monitocorp/servicedash/pkg/models"
	"github.com/monitocorp/servicedash/pkg/provider"
)

const shutdownDrainTimeout = 5 * time.Second

// Server serves the dashboard API over HTTP.
type Server struct {
	router *mux.Router
	syncer Synchronizer
	store  *cache.Store
	logger zerolog.Logger

	mu         sync.Mutex
	clients    int
	httpServer *http.Server
}

// NewServer wires the routes over a synchronizer and its cache.
func NewServer(syncer Synchronizer, store *cache.Store, logger zerolog.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		syncer: syncer,
		store:  store,
		logger: logger.With().Str("component", "api").Logger(),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware)

	s.router.HandleFunc("/api/services", s.getServices).Methods(http.MethodGet)
	s.router.HandleFunc("/api/services", s.createService).Methods(http.MethodPost)
	s.router.HandleFunc("/api/services/{id}", s.getService).Methods(http.MethodGet)
	s.router.HandleFunc("/api/services/{id}", s.updateService).Methods(http.MethodPut)
	s.router.HandleFunc("/api/services/{id}", s.deleteService).Methods(http.MethodDelete)

	s.router.HandleFunc("/api/services/{id}/events", s.getServiceEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/api/services/{id}/events", s.resetServiceEvents).Methods(http.MethodDelete)

	s.router.HandleFunc("/api/ws", s.handleWebSocket)
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownDrainTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}

func (s *Server) getServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.syncer.RequestList(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, services)
}

func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	service, err := s.syncer.RequestDetail(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, service)
}

// eventsResponse is the paginated event envelope.
type eventsResponse struct {
	Events  []models.ServiceEvent `json:"events"`
	HasMore bool                  `json:"has_more"`
}

func (s *Server) getServiceEvents(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	events, hasMore, err := s.syncer.RequestMoreEvents(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, eventsResponse{Events: events, HasMore: hasMore})
}

func (s *Server) resetServiceEvents(w http.ResponseWriter, r *http.Request) {
	s.syncer.ResetEvents(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var fields models.ServiceFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := fields.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := s.syncer.SubmitCreate(r.Context(), fields)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch models.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.syncer.SubmitUpdate(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.syncer.SubmitDelete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps synchronizer failures onto HTTP statuses. Mutations
// arriving here have already rolled back; the status is the
// user-visible failure notification.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		http.Error(w, "Service not found", http.StatusNotFound)
	default:
		s.logger.Warn().Err(err).Msg("Request failed")
		http.Error(w, "Upstream provider error", http.StatusBadGateway)
	}
}
