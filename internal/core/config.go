package core

// Fallbacks used by RuntimeConfig.WithDefaults.
const (
	DefaultScreenW  = 80
	DefaultScreenH  = 24
	DefaultTickRate = 60
)

// RuntimeConfig is what a game gets on Reset: the terminal size, the
// simulation rate and the RNG seed. The same seed and inputs replay the
// same game.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int // ticks per second
	Seed     int64
}

// DefaultConfig returns an 80x24 config at the default tick rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{}.WithDefaults()
}

// WithDefaults fills non-positive sizes and tick rate with the defaults.
// The seed is left alone; zero means the front end picks one.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	if c.ScreenW <= 0 {
		c.ScreenW = DefaultScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = DefaultScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	return c
}

// GameState is the slice of a game's state the platform acts on.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool // also set while a banner blocks input
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
