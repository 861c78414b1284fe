package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// actionBinding ties one game action to the keys that trigger it.
type actionBinding struct {
	action  core.Action
	binding key.Binding
}

// GameKeyMap holds the in-game bindings, checked in order.
type GameKeyMap struct {
	bindings []actionBinding
}

// DefaultGameKeyMap returns arrows, WASD and vim keys for sliding, plus the
// pause, restart and quit keys.
func DefaultGameKeyMap() GameKeyMap {
	bind := func(a core.Action, keys ...string) actionBinding {
		return actionBinding{a, key.NewBinding(key.WithKeys(keys...))}
	}
	return GameKeyMap{bindings: []actionBinding{
		bind(core.ActionQuit, "ctrl+c", "q"),
		bind(core.ActionUp, "up", "w", "k"),
		bind(core.ActionDown, "down", "s", "j"),
		bind(core.ActionLeft, "left", "a", "h"),
		bind(core.ActionRight, "right", "d", "l"),
		bind(core.ActionConfirm, "enter"),
		bind(core.ActionBack, "b"),
		bind(core.ActionPause, "p", "esc"),
		bind(core.ActionRestart, "r"),
	}}
}

// Action returns the action bound to msg, or ActionNone.
func (k GameKeyMap) Action(msg tea.KeyMsg) core.Action {
	for _, b := range k.bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}

// MenuAction is a navigation step in the menu screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MenuKeyMap holds the menu bindings.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns the menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←", "easier")),
		Right:  key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→", "harder")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// Action returns the menu step bound to msg, or MenuActionNone.
func (k MenuKeyMap) Action(msg tea.KeyMsg) MenuAction {
	switch {
	case key.Matches(msg, k.Quit):
		return MenuActionQuit
	case key.Matches(msg, k.Up):
		return MenuActionUp
	case key.Matches(msg, k.Down):
		return MenuActionDown
	case key.Matches(msg, k.Left):
		return MenuActionLeft
	case key.Matches(msg, k.Right):
		return MenuActionRight
	case key.Matches(msg, k.Select):
		return MenuActionSelect
	case key.Matches(msg, k.Back):
		return MenuActionBack
	}
	return MenuActionNone
}
