// Package api exposes 2048 sessions over a JSON REST interface with
// WebSocket spectating.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

const (
	defaultGamesLimit  = 20
	defaultScoresLimit = 10
)

// Server routes API requests to the session manager.
type Server struct {
	sessions *session.Manager
	hub      *websocket.Hub
	store    *storage.Store
	router   *mux.Router
	logger   *log.Logger
}

// NewServer creates the API. hub and store may be nil, which disables
// spectating and the stored game endpoints respectively.
func NewServer(sessions *session.Manager, hub *websocket.Hub, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		hub:      hub,
		store:    store,
		router:   mux.NewRouter(),
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)

	api.HandleFunc("/games", s.handleRecentGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/scores/{mode}", s.handleTopScores).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, t2048.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type createRequest struct {
	Rows              int     `json:"rows"`
	Cols              int     `json:"cols"`
	LowValue          int     `json:"low_value"`
	HighValue         int     `json:"high_value"`
	HighTileThreshold float64 `json:"high_tile_threshold"`
	MaxValue          int     `json:"max_value"`
	Seed              int64   `json:"seed"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	st, err := s.sessions.Create(t2048.Options{
		Rows:              req.Rows,
		Cols:              req.Cols,
		LowValue:          req.LowValue,
		HighValue:         req.HighValue,
		HighTileThreshold: req.HighTileThreshold,
		MaxValue:          req.MaxValue,
		Seed:              req.Seed,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sessions.List())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.sessions.Move(mux.Vars(r)["id"], dir)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Reset(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// queryLimit reads ?limit=, falling back to def when absent.
func queryLimit(r *http.Request, def int) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}
	limit, ok := queryLimit(r, defaultGamesLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	games, err := s.store.RecentGames(limit)
	if err != nil {
		s.logger.Error("recent games", "err", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}
	rec, err := s.store.LoadGame(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// handleTopScores serves a mode's leaderboard. The mode may be an ID or
// an alias such as "endless".
func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}
	mode, err := registry.Resolve(mux.Vars(r)["mode"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	limit, ok := queryLimit(r, defaultScoresLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	scores, err := s.store.TopScores(mode, limit)
	if err != nil {
		s.logger.Error("top scores", "mode", mode, "err", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	respondJSON(w, http.StatusOK, scores)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "storage disabled")
		return
	}
	stats, err := s.store.GetAllGamesStats()
	if err != nil {
		s.logger.Error("stats", "err", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "spectating disabled")
		return
	}
	id := r.URL.Query().Get("session")
	if id == "" {
		respondError(w, http.StatusBadRequest, "session query parameter required")
		return
	}
	if _, err := s.sessions.Get(id); err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	s.hub.ServeWS(w, r, id)
}
