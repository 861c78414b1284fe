package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/transport/mcp"
)

// mcpSessionTTL is how long an MCP game may sit without a move.
const mcpSessionTTL = 24 * time.Hour

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve 2048 to an MCP client over stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout. Clients get the
tools new_game, move, game_state, reset_game and list_games.

Logs go to stderr so they never mix with the protocol stream.

Example client config:
  {"command": "t2048", "args": ["mcp"]}`,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-mcp",
		})
		sessions := session.NewManager(session.WithLogger(logger))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go sessions.RunCleanup(ctx, mcpSessionTTL)

		return mcp.NewServer(sessions, logger).ServeStdio()
	},
}
