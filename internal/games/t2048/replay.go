package t2048

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// replayScreen is large enough for the biggest supported board.
var replayScreen = core.RuntimeConfig{ScreenW: 120, ScreenH: 40, TickRate: 60}

// ReplayGame re-runs a recorded move log through a headless game under the
// recorded preset. An empty preset falls back to SetDifficultyPreset, which
// covers records saved before presets were stored. The result matches the
// original run only when the same config file is active.
func ReplayGame(gameID string, seed int64, startLevel int, preset string, moves string) (*Game, error) {
	var g *Game
	switch gameID {
	case "2048":
		g = New()
	case "2048_endless":
		g = NewEndless()
	default:
		return nil, fmt.Errorf("t2048: cannot replay game %q", gameID)
	}

	p := config.ParsePreset(preset)
	if p == "" {
		p = difficultyPreset
	}
	g.Configure(p, startLevel)

	cfg := replayScreen
	cfg.Seed = seed
	g.Reset(cfg)

	idle := core.NewInputFrame()
	g.Step(idle) // opening tiles

	for i := range len(moves) {
		dir, err := ParseDirection(moves[i : i+1])
		if err != nil {
			return g, fmt.Errorf("t2048: replay move %d: %w", i+1, err)
		}

		// Sit through the level-cleared banner like a player would
		for g.levelCleared {
			g.Step(idle)
		}
		if g.finished() {
			return g, fmt.Errorf("t2048: replay move %d: %w", i+1, ErrGameOver)
		}

		before := g.resolver.Moves()
		in := core.NewInputFrame()
		in.Set(directionAction(dir))
		g.Step(in)
		if g.resolver.Moves() == before {
			return g, fmt.Errorf("t2048: replay move %d (%s) did not change the board", i+1, dir)
		}
	}
	return g, nil
}

func directionAction(d Direction) core.Action {
	switch d {
	case DirUp:
		return core.ActionUp
	case DirDown:
		return core.ActionDown
	case DirLeft:
		return core.ActionLeft
	default:
		return core.ActionRight
	}
}
