package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StateLoaded       GameStateType = "loaded"
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot is the full state of a game at one tick. Equal seeds and inputs
// give equal snapshots; screenshots store one next to the rendered screen.
type Snapshot struct {
	Tick    uint64        `json:"tick" yaml:"tick"`
	Mode    string        `json:"mode" yaml:"mode"`     // "campaign" or "endless"
	Level   int           `json:"level" yaml:"level"`   // Current level (1-indexed for display)
	Target  int           `json:"target" yaml:"target"` // Current target tile value, 0 for endless
	Score   int           `json:"score" yaml:"score"`
	Moves   int           `json:"moves" yaml:"moves"`
	Rows    int           `json:"rows" yaml:"rows"`
	Cols    int           `json:"cols" yaml:"cols"`
	Board   [][]int       `json:"board" yaml:"board"`       // [y][x], 0 for empty
	MaxTile int           `json:"max_tile" yaml:"max_tile"` // Highest tile on board
	State   GameStateType `json:"state" yaml:"state"`
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.resolver.Phase() == PhaseGameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	case g.resolver.Phase() == PhaseLoaded:
		state = StateLoaded
	}

	level := g.levelIndex + 1
	if g.mode == ModeEndless {
		level = 0
	}

	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Level:   level,
		Target:  g.currentTarget,
		Score:   g.resolver.Score(),
		Moves:   g.resolver.Moves(),
		Rows:    g.resolver.Rows(),
		Cols:    g.resolver.Cols(),
		Board:   g.resolver.Values(),
		MaxTile: g.resolver.MaxTile(),
		State:   state,
	}
}
