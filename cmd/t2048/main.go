// t2048 is a terminal 2048 with campaign levels, an SSH server and
// headless HTTP and MCP front ends.
//
// Usage:
//
//	t2048 list              - List available modes
//	t2048 play [mode]       - Play a mode directly
//	t2048 menu              - Pick a mode interactively
//	t2048 scores <mode>     - Show high scores for a mode
//	t2048 replay <id>       - Verify a stored game by replaying it
//	t2048 serve             - Start the SSH and HTTP servers
//	t2048 mcp               - Serve the game over MCP on stdio
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.t2048/scores.db)
//	--config <path>  - Load a custom 2048 config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is a terminal 2048 with a level campaign, an endless mode,
an SSH server for remote play and headless HTTP and MCP front ends.

Available commands:
  list     - Show the available modes
  play     - Play a mode directly
  menu     - Interactive menu
  scores   - View high scores
  replay   - Verify a stored game
  serve    - Start the SSH and HTTP servers
  mcp      - Serve the game to an MCP client over stdio

Examples:
  t2048 play
  t2048 play endless --difficulty hard
  t2048 menu
  t2048 serve --ssh :2222 --http :8080
  t2048 scores 2048`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		t2048.SetConfigPath(flagConfig)
		t2048.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.t2048/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom 2048 config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// modeID maps the optional mode argument, an ID or alias, to its ID.
// No argument means campaign.
func modeID(args []string) (string, error) {
	name := string(t2048.ModeCampaign)
	if len(args) > 0 {
		name = args[0]
	}
	id, err := registry.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("%w (run 't2048 list')", err)
	}
	return id, nil
}

// preset returns the --difficulty preset, defaulting to normal.
func preset() config.DifficultyPreset {
	if p := config.ParsePreset(flagDifficulty); p != "" {
		return p
	}
	return config.DifficultyNormal
}

// terminalConfig sizes a runtime config to the terminal on stdout.
func terminalConfig() core.RuntimeConfig {
	cfg := core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	return cfg.WithDefaults()
}

// openStoreOrWarn opens the scores database for interactive play. Play goes
// on without saving when it cannot be opened, so the result may be nil.
func openStoreOrWarn() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: scores will not be saved: %v\n", err)
		return nil
	}
	return store
}
