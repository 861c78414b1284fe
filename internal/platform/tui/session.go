package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel runs the full flow inside one program: menu, game and
// scoreboard, returning to the menu from the other two.
type SessionModel struct {
	store      *storage.Store
	config     core.RuntimeConfig
	preset     config.DifficultyPreset
	screen     sessionScreen
	menu       MenuModel
	game       Model
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a session starting at the menu.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		preset: preset,
		menu:   NewMenuModel(store, cfg, preset),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.config, m.preset)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.preset = m.menu.preset()
		m.screen = screenScores
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()

	case m.menu.Selected() != nil:
		sel := *m.menu.Selected()
		m.preset = sel.Preset
		game, err := sel.NewGame()
		if err != nil {
			return m.toMenu()
		}
		m.config.Seed = 0
		m.game = newMenuGameModel(game, m.store, m.config)
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		// The pending tick is dropped when it reaches the menu.
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sm
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu, game and scoreboard flow on the local terminal
// until the player quits.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset) error {
	_, err := tea.NewProgram(NewSessionModel(store, cfg, preset), tea.WithAltScreen()).Run()
	return err
}
