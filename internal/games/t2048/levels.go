// Package t2048 implements the 2048 sliding-tile puzzle: a TurnResolver core
// with slide, merge and spawn rules, and a Game adapter that plays it in
// campaign and endless modes.
package t2048

import "github.com/vovakirdan/tui-2048/internal/core"

// Level is one campaign stage. Reaching Target on the board clears it.
type Level struct {
	Name   string
	Target int

	// HighTileThreshold replaces Options.HighTileThreshold while the level
	// is played; lower values spawn the high tile more often.
	HighTileThreshold float64
}

// campaign runs from an easy warm-up to three 8192 stages that differ only
// in how often the high tile spawns.
var campaign = [...]Level{
	{"Warm-up", 128, 0.90},
	{"Getting Started", 256, 0.90},
	{"Building Momentum", 512, 0.90},
	{"The Climb", 1024, 0.90},
	{"Classic 2048", 2048, 0.90},
	{"Beyond Limits", 4096, 0.87},
	{"Master Class", 8192, 0.84},
	{"Expert Challenge", 8192, 0.81},
	{"Grandmaster", 8192, 0.79},
	{"Ultimate Champion", 8192, 0.74},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(campaign)
}

// LevelAt returns the level at a 0-based index, clamped to the campaign.
func LevelAt(i int) Level {
	return campaign[core.Clamp(i, 0, len(campaign)-1)]
}

// LevelNames lists the level names in order.
func LevelNames() []string {
	out := make([]string, 0, len(campaign))
	for _, l := range campaign {
		out = append(out, l.Name)
	}
	return out
}

// LevelTargets lists the level targets in order.
func LevelTargets() []int {
	out := make([]int, 0, len(campaign))
	for _, l := range campaign {
		out = append(out, l.Target)
	}
	return out
}
