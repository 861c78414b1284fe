// Package session keeps concurrent 2048 games in memory for the HTTP API
// and the MCP server.
//
// Each Session owns a TurnResolver guarded by its own mutex, so moves on
// different sessions never contend. Events raised by the resolver are kept
// in a Recorder and handed back to the caller of Move, and are also fanned
// out to an optional per-session observer (the spectator hub).
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("session: not found")

// ObserverFactory builds the extra observer attached to a new session.
type ObserverFactory func(id string) t2048.Observer

// Session is one running game.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	resolver   *t2048.TurnResolver
	rec        *t2048.Recorder
	seed       int64
	moveLog    []byte
	lastAccess time.Time
}

// State is a point-in-time view of a session.
type State struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	Phase     string    `json:"phase"`
	Score     int       `json:"score"`
	Moves     int       `json:"moves"`
	MaxTile   int       `json:"max_tile"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Board     [][]int   `json:"board"`
	MoveLog   string    `json:"move_log"`
	GameOver  bool      `json:"game_over"`
	CreatedAt time.Time `json:"created_at"`
}

// MoveResult is returned by Manager.Move.
type MoveResult struct {
	Moved  bool          `json:"moved"`
	State  State         `json:"state"`
	Events []t2048.Event `json:"events"`
}

// state must be called with s.mu held.
func (s *Session) state() State {
	r := s.resolver
	return State{
		ID:        s.ID,
		Seed:      s.seed,
		Phase:     r.Phase().String(),
		Score:     r.Score(),
		Moves:     r.Moves(),
		MaxTile:   r.MaxTile(),
		Rows:      r.Rows(),
		Cols:      r.Cols(),
		Board:     r.Values(),
		MoveLog:   string(s.moveLog),
		GameOver:  r.Phase() == t2048.PhaseGameOver,
		CreatedAt: s.CreatedAt,
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	observe  ObserverFactory
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithObserver attaches an extra observer to every session created afterwards.
func WithObserver(f ObserverFactory) Option {
	return func(m *Manager) { m.observe = f }
}

// WithLogger sets the manager logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		logger:   log.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// withDefaults fills zero fields of opts from t2048.DefaultOptions.
func withDefaults(opts t2048.Options) t2048.Options {
	def := t2048.DefaultOptions()
	if opts.Rows == 0 {
		opts.Rows = def.Rows
	}
	if opts.Cols == 0 {
		opts.Cols = def.Cols
	}
	if opts.LowValue == 0 {
		opts.LowValue = def.LowValue
	}
	if opts.HighValue == 0 {
		opts.HighValue = def.HighValue
	}
	if opts.HighTileThreshold == 0 {
		opts.HighTileThreshold = def.HighTileThreshold
	}
	return opts
}

// Create starts a new game. Zero option fields take the classic defaults and
// a zero seed is replaced by the current time.
func (m *Manager) Create(opts t2048.Options) (State, error) {
	opts = withDefaults(opts)
	if err := opts.Validate(); err != nil {
		return State{}, fmt.Errorf("session: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = m.now().UnixNano()
	}

	s := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  m.now(),
		rec:        t2048.NewRecorder(),
		seed:       opts.Seed,
		lastAccess: m.now(),
	}
	s.resolver = t2048.NewTurnResolver(opts, s.rec)
	if m.observe != nil {
		if ob := m.observe(s.ID); ob != nil {
			s.resolver.Subscribe(ob)
		}
	}
	if err := s.resolver.Start(); err != nil {
		return State{}, fmt.Errorf("session: start: %w", err)
	}
	s.rec.Drain()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "id", s.ID, "rows", opts.Rows, "cols", opts.Cols, "seed", opts.Seed)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(), nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List returns the state of every session, oldest first.
func (m *Manager) List() []State {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	out := make([]State, 0, len(all))
	for _, s := range all {
		out = append(out, s.State())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	m.logger.Info("session deleted", "id", id)
	return nil
}

// Move plays one turn. A move that changes nothing returns Moved false and
// no error. Moving a finished game returns an error wrapping t2048.ErrGameOver.
func (m *Manager) Move(id string, dir t2048.Direction) (MoveResult, error) {
	s, err := m.Get(id)
	if err != nil {
		return MoveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = m.now()
	moved, err := s.resolver.Turn(dir)
	if err != nil {
		s.rec.Drain()
		return MoveResult{}, fmt.Errorf("session %s: %w", id, err)
	}
	if moved {
		s.moveLog = append(s.moveLog, dir.Letter())
	}
	res := MoveResult{Moved: moved, State: s.state(), Events: s.rec.Drain()}
	if res.State.GameOver {
		m.logger.Info("session game over", "id", id, "score", res.State.Score, "max_tile", res.State.MaxTile)
	}
	return res, nil
}

// Reset starts the session over with the next seed.
func (m *Manager) Reset(id string) (State, error) {
	s, err := m.Get(id)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = m.now()
	s.seed++
	s.resolver.Reset()
	s.resolver.Reseed(s.seed)
	if err := s.resolver.Start(); err != nil {
		return State{}, fmt.Errorf("session %s: start: %w", id, err)
	}
	s.rec.Drain()
	s.moveLog = s.moveLog[:0]
	return s.state(), nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes sessions with no move or reset within maxAge and
// returns how many were removed.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastAccess.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps idle sessions until ctx is done. Sweeps run every
// maxAge/2, capped at an hour.
func (m *Manager) RunCleanup(ctx context.Context, maxAge time.Duration) {
	every := min(max(maxAge/2, time.Millisecond), time.Hour)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupExpired(maxAge); n > 0 {
				m.logger.Info("expired idle sessions", "removed", n, "max_age", maxAge)
			}
		}
	}
}
