// Package tui provides the Bubble Tea integration for 2048.
// It handles the terminal UI loop, input mapping, menus and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// TickMsg is sent to trigger a game simulation tick.
// Loop identifies the tick chain so a model ignores ticks left over from
// a previous game in the same program.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loopCounter atomic.Uint64

// nextLoop returns a fresh tick chain identifier.
func nextLoop() uint64 {
	return loopCounter.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = core.DefaultTickRate
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
