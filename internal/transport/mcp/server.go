// Package mcp lets agents play 2048 through Model Context Protocol tools
// backed by an in-process session manager.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

const instructions = `2048 - MCP Interface

Slide numbered tiles on a grid. Equal tiles that collide merge into their sum
and add it to the score. After every move that changes the board a new tile
spawns. The game ends when no move can change the board.

AVAILABLE TOOLS:
- new_game: start a game (optional rows, cols, seed)
- move: slide all tiles up/down/left/right
- game_state: show the board and score
- reset_game: start the same session over with the next seed
- list_games: list active games`

// Server wraps an MCP server exposing the 2048 tools.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *log.Logger
}

// NewServer registers the tools over the given manager.
func NewServer(sessions *session.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{sessions: sessions, logger: logger}
	s.mcpServer = server.NewMCPServer(
		"2048",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game ID returned by new_game",
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new 2048 game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rows": map[string]interface{}{
					"type":        "integer",
					"description": "Board rows (default 4)",
				},
				"cols": map[string]interface{}{
					"type":        "integer",
					"description": "Board columns (default 4)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible game (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide every tile in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the current board and score",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start the game over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleReset)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List active games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleList)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument. Missing arguments yield 0.
func intArg(args map[string]interface{}, name string) (int64, error) {
	switch v := args[name].(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	var vals [3]int64
	for i, name := range []string{"rows", "cols", "seed"} {
		v, err := intArg(args, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		vals[i] = v
	}

	st, err := s.sessions.Create(t2048.Options{Rows: int(vals[0]), Cols: int(vals[1]), Seed: vals[2]})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Debug("mcp new game", "id", st.ID)
	return mcp.NewToolResultText(fmt.Sprintf("Started game %s\n\n%s", st.ID, formatState(st))), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id, _ := args["session_id"].(string)
	raw, _ := args["direction"].(string)

	dir, err := t2048.ParseDirection(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.sessions.Move(id, dir)
	if err != nil {
		if errors.Is(err, t2048.ErrGameOver) {
			return mcp.NewToolResultError("game is over; call reset_game or new_game"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(dir, res)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)
	sess, err := s.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(sess.State())), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)
	st, err := s.sessions.Reset(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game reset\n\n" + formatState(st)), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := s.sessions.List()
	var b strings.Builder
	fmt.Fprintf(&b, "Active games (%d):\n", len(games))
	for _, g := range games {
		status := "playing"
		if g.GameOver {
			status = "game over"
		}
		fmt.Fprintf(&b, "- %s %dx%d score %d max %d (%s)\n", g.ID, g.Rows, g.Cols, g.Score, g.MaxTile, status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatBoard renders the board as right-aligned columns, dots for empty cells.
func formatBoard(board [][]int) string {
	width := 1
	for _, row := range board {
		for _, v := range row {
			if n := len(strconv.Itoa(v)); n > width {
				width = n
			}
		}
	}
	var b strings.Builder
	for _, row := range board {
		for x, v := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			cell := "."
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			fmt.Fprintf(&b, "%*s", width, cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatState(st session.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d  Moves: %d  Max tile: %d\n", st.Score, st.Moves, st.MaxTile)
	b.WriteString(formatBoard(st.Board))
	if st.GameOver {
		b.WriteString("GAME OVER\n")
	}
	return b.String()
}

func formatMoveResult(dir t2048.Direction, res session.MoveResult) string {
	if !res.Moved {
		return fmt.Sprintf("Moving %s changed nothing; try another direction.\n\n%s", dir, formatState(res.State))
	}
	merged := 0
	for _, e := range res.Events {
		if e.Kind == t2048.EventMerged {
			merged++
		}
	}
	return fmt.Sprintf("Moved %s, %d merge(s)\n\n%s", dir, merged, formatState(res.State))
}
