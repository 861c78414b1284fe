package t2048

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// levelClearDelay is how long the level-cleared banner stays up (2s at 60fps).
const levelClearDelay = 120

// Game plays a TurnResolver as a registry.Game.
type Game struct {
	mode Mode
	tick uint64
	seed int64

	resolver   *TurnResolver
	anim       *Animator
	cfg        config.T2048Config
	difficulty config.Curve

	best          int
	startLevel    int // Level index the run began on
	levelIndex    int // Current level (0-indexed)
	currentTarget int // Current tile target
	moveLog       []byte

	// Per-instance selections; see Configure.
	configured     bool
	preset         config.DifficultyPreset
	requestedLevel int
	activePreset   config.DifficultyPreset // preset the current run uses

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int // Animation ticks for level clear
}

// Package-level variables for config
var (
	configPath         string
	difficultyPreset   config.DifficultyPreset
	selectedStartLevel int
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetStartLevel sets the starting level (1-10). 0 means start from beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	return selectedStartLevel
}

// Configure fixes the difficulty preset and 1-based start level for this
// game, ignoring the package-level selections. Sessions that run side by
// side use it instead of SetDifficultyPreset and SetStartLevel.
func (g *Game) Configure(preset config.DifficultyPreset, startLevel int) {
	g.configured = true
	g.preset = preset
	g.requestedLevel = startLevel
}

// New creates a new campaign mode 2048 game.
func New() *Game {
	return &Game{
		mode: ModeCampaign,
		anim: NewAnimator(),
	}
}

// NewEndless creates a new endless mode 2048 game.
func NewEndless() *Game {
	return &Game{
		mode: ModeEndless,
		anim: NewAnimator(),
	}
}

func init() {
	registry.Register("2048", func() registry.Game { return New() }, string(ModeCampaign))
	registry.Register("2048_endless", func() registry.Game { return NewEndless() }, string(ModeEndless))
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "2048_endless"
	}
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	// Load game config
	gameCfg, err := config.LoadT2048(configPath)
	if err != nil {
		gameCfg = config.DefaultT2048Config()
	}

	preset, requested := difficultyPreset, selectedStartLevel
	if g.configured {
		preset, requested = g.preset, g.requestedLevel
	}
	if preset != "" {
		gameCfg.ApplyPreset(preset)
	}
	g.activePreset = preset

	g.cfg = gameCfg
	g.difficulty = config.NewCurve(gameCfg.Difficulty)

	g.seed = cfg.Seed
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false

	// Start level applies to the campaign only
	startLevel := 0
	if g.mode == ModeCampaign && requested > 0 && requested <= LevelCount() {
		startLevel = requested - 1
		if !g.configured {
			selectedStartLevel = 0 // consumed
		}
	}

	g.resolver = NewTurnResolver(Options{
		Rows:              gameCfg.Board.Rows,
		Cols:              gameCfg.Board.Cols,
		LowValue:          gameCfg.Spawn.LowValue,
		HighValue:         gameCfg.Spawn.HighValue,
		HighTileThreshold: gameCfg.Spawn.HighThreshold,
		MaxValue:          gameCfg.MaxValue,
		Seed:              cfg.Seed,
	}, g.anim)

	g.restart(startLevel)
	g.checkScreenSize()
}

// restart clears the board and run state and reseeds the resolver.
// The resolver is left in PhaseLoaded; the next Step spawns the opening tiles.
func (g *Game) restart(levelIndex int) {
	g.resolver.Reset()
	g.resolver.Reseed(g.seed)
	g.anim.Begin()
	g.moveLog = g.moveLog[:0]
	g.startLevel = levelIndex
	g.levelIndex = levelIndex
	g.levelCleared = false
	g.levelClearTicks = 0
	g.won = false
	g.loadLevel()
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	if g.mode == ModeEndless {
		g.currentTarget = 0 // No target in endless
		g.updateThreshold()
		return
	}

	g.currentTarget = LevelAt(g.levelIndex).Target
	g.updateThreshold()
}

// updateThreshold pushes the current spawn odds into the resolver.
// Campaign levels carry their own threshold, shifted by the preset;
// endless follows the difficulty curve.
func (g *Game) updateThreshold() {
	if g.mode == ModeEndless {
		th := g.difficulty.SpawnThreshold(g.cfg.Spawn.HighThreshold, g.resolver.Score(), g.resolver.Moves())
		g.resolver.SetHighTileThreshold(th)
		return
	}

	level := LevelAt(g.levelIndex)
	offset := g.cfg.Spawn.HighThreshold - config.DefaultT2048Config().Spawn.HighThreshold
	g.resolver.SetHighTileThreshold(core.ClampF(level.HighTileThreshold+offset, 0.01, spawnRange))
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = !g.layout().fits(g.screenW, g.screenH)
}

// Resize updates the layout without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// slideKeys maps actions to slides, checked in order when several keys
// land in the same tick.
var slideKeys = [...]struct {
	action core.Action
	dir    Direction
}{
	{core.ActionUp, DirUp},
	{core.ActionDown, DirDown},
	{core.ActionLeft, DirLeft},
	{core.ActionRight, DirRight},
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.anim.Update()

	// Restart works mid-run too; an unfinished run is dropped unsaved.
	if in.Has(core.ActionRestart) {
		g.seed++
		g.restart(0)
		return core.StepResult{State: g.State()}
	}

	// First tick after a reset spawns the opening tiles
	if g.resolver.Phase() == PhaseLoaded {
		g.anim.Begin()
		g.resolver.Start() //nolint:errcheck // phase checked above
		g.anim.Commit()
		return core.StepResult{State: g.State()}
	}

	// Handle level cleared banner
	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearDelay {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if !g.finished() && !in.Empty() {
		for _, k := range slideKeys {
			if in.Has(k.action) {
				g.processMove(k.dir)
				break
			}
		}
	}
	return core.StepResult{State: g.State()}
}

// processMove handles a move in the given direction.
func (g *Game) processMove(dir Direction) {
	g.anim.Begin()
	changed, err := g.resolver.Turn(dir)
	g.anim.Commit()
	if err != nil || !changed {
		return
	}

	g.moveLog = append(g.moveLog, dir.Letter())
	g.best = max(g.best, g.resolver.Score())

	// Check for level target (campaign only)
	if g.mode == ModeCampaign && g.currentTarget > 0 && g.resolver.MaxTile() >= g.currentTarget {
		g.levelCleared = true
		g.levelClearTicks = 0
		return
	}

	if g.mode == ModeEndless {
		g.updateThreshold()
	}
}

// advanceLevel moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= LevelCount()-1 {
		// Completed all levels
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	// Keep current board and score - just update target
}

func (g *Game) finished() bool {
	return g.won || g.resolver.Phase() == PhaseGameOver
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.resolver.Score(),
		GameOver: g.finished(),
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}

// Resolver exposes the underlying turn resolver.
func (g *Game) Resolver() *TurnResolver { return g.resolver }

// Seed returns the RNG seed of the current run.
func (g *Game) Seed() int64 { return g.seed }

// MoveLog returns the successful moves so far as U/D/L/R letters.
func (g *Game) MoveLog() string { return string(g.moveLog) }

// StartLevel returns the 1-based campaign level the run began on.
func (g *Game) StartLevel() int { return g.startLevel + 1 }

// Preset returns the difficulty preset of the current run, or "" when the
// loaded config is used untouched.
func (g *Game) Preset() string { return string(g.activePreset) }

// MaxTile returns the highest tile on the board.
func (g *Game) MaxTile() int { return g.resolver.MaxTile() }

// Moves returns the number of turns that changed the board.
func (g *Game) Moves() int { return g.resolver.Moves() }
