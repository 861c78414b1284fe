// Package config loads the 2048 rules from YAML and derives the spawn odds
// for difficulty presets and the endless difficulty curve.
package config

import "fmt"

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Board      BoardConfig      `yaml:"board"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	MaxValue   int              `yaml:"max_value"` // 0 = no merge cap
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid dimensions.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// SpawnConfig defines which tiles appear after each move.
type SpawnConfig struct {
	LowValue      int     `yaml:"low_value"`
	HighValue     int     `yaml:"high_value"`
	HighThreshold float64 `yaml:"high_threshold"` // draw in [0, 0.99) at or above this spawns high_value
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a game.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "moves", or "none"
	MaxAt int    `yaml:"max_at"` // Score/moves at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ThresholdReduction float64 `yaml:"threshold_reduction"` // Threshold drop at max difficulty
	MinThreshold       float64 `yaml:"min_threshold"`       // Floor for the spawn threshold
}

// Validate reports configuration values the game cannot run with.
func (c T2048Config) Validate() error {
	if c.Board.Rows < 2 || c.Board.Cols < 2 {
		return fmt.Errorf("config: board must be at least 2x2, got %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if c.Board.Rows > 8 || c.Board.Cols > 8 {
		return fmt.Errorf("config: board must be at most 8x8, got %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if !powerOfTwo(c.Spawn.LowValue) || !powerOfTwo(c.Spawn.HighValue) {
		return fmt.Errorf("config: spawn values must be powers of two, got %d and %d", c.Spawn.LowValue, c.Spawn.HighValue)
	}
	if c.Spawn.HighThreshold <= 0 || c.Spawn.HighThreshold > 0.99 {
		return fmt.Errorf("config: spawn.high_threshold %.2f outside (0, 0.99]", c.Spawn.HighThreshold)
	}
	if c.MaxValue != 0 && (!powerOfTwo(c.MaxValue) || c.MaxValue < c.Spawn.HighValue) {
		return fmt.Errorf("config: max_value %d must be a power of two >= %d", c.MaxValue, c.Spawn.HighValue)
	}
	return nil
}

func powerOfTwo(v int) bool {
	return v > 1 && v&(v-1) == 0
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// presetTuning is what each preset sets on top of the loaded config. A
// zero threshold keeps the loaded spawn.high_threshold.
var presetTuning = map[DifficultyPreset]struct {
	start     float64
	threshold float64
}{
	DifficultyEasy:   {0.0, 0.95},
	DifficultyNormal: {0.3, 0},
	DifficultyHard:   {0.7, 0.8},
}

// ApplyPreset tunes the config for a preset. Fixed turns progression off
// and keeps the loaded initial level. Unknown presets change nothing.
func (c *T2048Config) ApplyPreset(p DifficultyPreset) {
	if p == DifficultyFixed {
		c.Difficulty.Enabled = false
		return
	}
	t, ok := presetTuning[p]
	if !ok {
		return
	}
	c.Difficulty.Enabled = true
	c.Difficulty.InitialLevel = t.start
	if t.threshold > 0 {
		c.Spawn.HighThreshold = t.threshold
	}
}
