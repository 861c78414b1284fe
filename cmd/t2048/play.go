package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play 2048",
	Long: `Start playing in campaign (default) or endless mode.

Controls:
  Arrows/WASD/HJKL  - Slide tiles
  P/Esc             - Pause
  R                 - Restart
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Fewer high spawns, progression from zero
  normal - Progression starts at 30%
  hard   - More high spawns, progression starts at 70%
  fixed  - No progression, stays at the config's threshold

Examples:
  t2048 play
  t2048 play endless
  t2048 play campaign --level 5
  t2048 play --difficulty hard --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start on (1-10)")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID, err := modeID(args)
	if err != nil {
		return err
	}
	if flagLevel < 0 || flagLevel > t2048.LevelCount() {
		return fmt.Errorf("level must be between 1 and %d", t2048.LevelCount())
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	if g, ok := game.(*t2048.Game); ok {
		g.Configure(preset(), flagLevel)
	}

	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}
	return tui.Run(game, store, terminalConfig())
}
