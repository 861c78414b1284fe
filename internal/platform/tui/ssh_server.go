package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// SSHServerConfig configures the SSH front end. Zero fields take the
// values from DefaultSSHServerConfig.
type SSHServerConfig struct {
	Address     string
	HostKeyPath string // generated on first start; defaults to ~/.t2048/host_key
	DBPath      string
	IdleTimeout time.Duration

	// Store is shared with other front ends. When nil the server opens
	// DBPath itself and closes it on shutdown.
	Store *storage.Store

	// Preset is the difficulty the menu starts on.
	Preset config.DifficultyPreset

	Logger *log.Logger
}

// DefaultSSHServerConfig returns the listen address, database path and
// idle timeout used when none are given.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.t2048/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

func (c SSHServerConfig) withDefaults() SSHServerConfig {
	def := DefaultSSHServerConfig()
	if c.Address == "" {
		c.Address = def.Address
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-ssh",
		})
	}
	return c
}

// SSHServer gives every SSH session its own menu, game and scoreboard
// over one scores database.
type SSHServer struct {
	config    SSHServerConfig
	server    *ssh.Server
	store     *storage.Store
	ownsStore bool
	logger    *log.Logger
	active    atomic.Int64
}

// NewSSHServer prepares the host key and database and builds the server.
// A database that cannot be opened disables score saving only.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	cfg = cfg.withDefaults()
	srv := &SSHServer{config: cfg, store: cfg.Store, logger: cfg.Logger}

	if srv.store == nil {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			srv.logger.Warn("scores disabled", "db", cfg.DBPath, "error", err)
		}
		srv.store, srv.ownsStore = store, store != nil
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
	}

	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newProgram),
			srv.track,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the key location and makes sure its directory
// exists so wish can write a fresh key there.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".t2048", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

func (s *SSHServer) newProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: core.DefaultTickRate,
		Seed:     time.Now().UnixNano(),
	}
	return NewSessionModel(s.store, cfg, s.config.Preset), []tea.ProgramOption{tea.WithAltScreen()}
}

// track logs each session with its duration and the number still open.
func (s *SSHServer) track(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		remote := sess.RemoteAddr().String()
		s.logger.Info("session started", "user", sess.User(), "remote", remote, "active", s.active.Add(1))
		defer func() {
			s.logger.Info("session ended",
				"user", sess.User(),
				"remote", remote,
				"duration", time.Since(start).Round(time.Second),
				"active", s.active.Add(-1),
			)
		}()
		next(sess)
	}
}

// Sessions returns the number of connected sessions.
func (s *SSHServer) Sessions() int {
	return int(s.active.Load())
}

// Serve listens until ctx is done or the listener fails, then shuts down.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		if err != nil {
			s.logger.Error("listener failed", "error", err)
		}
		return errors.Join(err, s.Shutdown())
	case <-ctx.Done():
		s.logger.Info("shutting down", "active", s.Sessions())
		return s.Shutdown()
	}
}

// Shutdown stops accepting sessions, waits up to ten seconds for open ones
// and closes the database if the server opened it.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.ownsStore {
		s.store.Close()
		s.ownsStore = false
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
