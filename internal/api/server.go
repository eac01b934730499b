// Package api exposes a local read-only debug surface over the running
// session: health, the orchestrator's state, the game catalog, and the final
// results once they exist. It never mutates core state.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"partyblitz/internal/games"
	"partyblitz/internal/results"
	"partyblitz/internal/session"
)

// Version identifies the debug API build.
const Version = "0.1.0"

// Server handles HTTP requests.
type Server struct {
	orc          *session.Orchestrator
	errorHandler *ErrorHandler
	log          zerolog.Logger
	startTime    time.Time

	mu      sync.Mutex
	outcome *results.Outcome
}

// NewServer creates a new API server.
func NewServer(orc *session.Orchestrator, log zerolog.Logger) *Server {
	return &Server{
		orc:          orc,
		errorHandler: NewErrorHandler(log),
		log:          log,
		startTime:    time.Now(),
	}
}

// PublishOutcome makes a finalized session visible on /results. Typically
// wired as the orchestrator's results callback.
func (s *Server) PublishOutcome(out results.Outcome) {
	s.mu.Lock()
	s.outcome = &out
	s.mu.Unlock()
}

// Routes sets up the HTTP routes with proper middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/games", s.handleListGames)
	r.Get("/session", s.handleSession)
	r.Get("/results", s.handleResults)

	return r
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, games.ListGames())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.orc == nil {
		s.errorHandler.HandleError(w, r,
			NewError(ErrTypeNotFound, "no session running").Build(),
			http.StatusNotFound)
		return
	}

	sess := s.orc.Session()
	resp := SessionResponse{
		State:       s.orc.State().String(),
		RoomCode:    sess.RoomCode,
		TimeLeft:    s.orc.Clock().TimeLeft(),
		Players:     sess.Players,
		Unreachable: s.orc.Presence().Unreachable(),
	}
	if cur, ok := s.orc.Current(); ok {
		resp.RoundIndex = cur.Index
		resp.GameID = cur.GameID
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.outcome
	s.mu.Unlock()

	if out == nil {
		s.errorHandler.HandleError(w, r,
			NewError(ErrTypeNotFound, "session not finalized yet").Build(),
			http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Api-Version", Version)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
