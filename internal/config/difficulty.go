package config

// Curve maps progress through an endless run onto a difficulty level in
// [0, 1] and the spawn threshold that level implies. The zero curve, and any
// curve built from a disabled config, stays at its starting level.
type Curve struct {
	start float64
	by    string // "score" or "moves"; anything else pins the level
	span  float64
	drop  float64
	floor float64
}

// NewCurve builds a curve from the difficulty section of the config.
func NewCurve(cfg DifficultyConfig) Curve {
	c := Curve{
		start: unit(cfg.InitialLevel),
		drop:  cfg.Scaling.ThresholdReduction,
		floor: cfg.Scaling.MinThreshold,
	}
	if cfg.Enabled {
		c.by = cfg.Progression.Type
		c.span = float64(max(cfg.Progression.MaxAt, 1))
	}
	return c
}

// Level returns the difficulty after the given score and move count.
func (c Curve) Level(score, moves int) float64 {
	var done int
	switch c.by {
	case "score":
		done = score
	case "moves":
		done = moves
	default:
		return c.start
	}
	return c.start + unit(float64(done)/c.span)*(1-c.start)
}

// SpawnThreshold lowers base as the level rises, so high tiles show up
// more often late in a run. It never drops below the configured floor.
func (c Curve) SpawnThreshold(base float64, score, moves int) float64 {
	th := base - c.Level(score, moves)*c.drop
	if c.floor > 0 {
		th = max(th, c.floor)
	}
	return min(max(th, 0.01), 0.99)
}

func unit(v float64) float64 {
	return min(max(v, 0), 1)
}
