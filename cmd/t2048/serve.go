package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/api"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagSessionTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Start an SSH server for remote play and an HTTP server that runs
headless games over JSON, with live events on a websocket.

Each SSH connection gets its own menu and game. Scores are shared by
every SSH player and listed by the HTTP API.

HTTP endpoints:
  POST   /api/sessions               - Start a game
  GET    /api/sessions               - List games
  GET    /api/sessions/{id}          - Game state
  DELETE /api/sessions/{id}          - Drop a game
  POST   /api/sessions/{id}/move     - Move: {"direction": "up"}
  POST   /api/sessions/{id}/reset    - Restart with a new seed
  GET    /api/games                  - Stored game records
  GET    /api/games/{id}             - One stored record
  GET    /api/scores/{mode}          - Leaderboard for a mode
  GET    /api/stats                  - Stats for every mode
  GET    /ws?session={id}            - Event stream for a game

HTTP games with no moves for --session-ttl are dropped.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.t2048/host_key

Examples:
  t2048 serve                           # SSH on :23234, HTTP on :8080
  t2048 serve --ssh :2222 --http ""     # SSH only on port 2222
  t2048 serve --ssh "" --http :9000     # HTTP only

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address, empty to disable")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address, empty to disable")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", 24*time.Hour, "Drop HTTP games with no moves for this long")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: both --ssh and --http are empty")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)
	running := 0

	if flagSSHAddr != "" {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			Store:       store,
			Preset:      preset(),
			Logger:      logger.WithPrefix("t2048-ssh"),
		})
		if err != nil {
			return fmt.Errorf("create SSH server: %w", err)
		}
		running++
		go func() { errc <- sshServer.Serve(ctx) }()
	}

	if flagHTTPAddr != "" {
		httpLogger := logger.WithPrefix("t2048-http")
		hub := websocket.NewHub(httpLogger)
		go hub.Run(ctx)

		sessions := session.NewManager(
			session.WithObserver(hub.SessionObserver),
			session.WithLogger(httpLogger),
		)
		go sessions.RunCleanup(ctx, flagSessionTTL)

		httpServer := &http.Server{
			Addr:              flagHTTPAddr,
			Handler:           api.NewServer(sessions, hub, store, httpLogger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		running++
		go func() { errc <- serveHTTP(ctx, httpServer, httpLogger) }()
	}

	// First failure stops everything; a clean stop waits for the rest.
	var firstErr error
	for range running {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}

func serveHTTP(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	logger.Info("starting HTTP server", "address", srv.Addr)

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("server error", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
