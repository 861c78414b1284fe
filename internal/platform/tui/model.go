package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Model is the Bubble Tea model that runs a single game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       GameKeyMap
	inputFrame core.InputFrame
	gameState  core.GameState
	loop       uint64
	quitting   bool
	backToMenu bool
	allowBack  bool // B returns to the menu instead of doing nothing
	saved      bool // result stored for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	cfg = cfg.WithDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		inputFrame: core.NewInputFrame(),
		loop:       nextLoop(),
	}
}

// newMenuGameModel creates a model that can hand control back to a menu.
func newMenuGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	m := NewModel(game, store, cfg)
	m.allowBack = true
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.allowBack && msg.String() == "b" && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	m.inputFrame.Set(action)
	return m, nil
}

// handleResize follows the terminal size. Games that cannot re-layout
// in place are restarted.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizable); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.saved:
		m.saveResult()
		m.saved = true
	case !m.gameState.GameOver:
		// The game restarted itself.
		m.saved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveResult stores the score and, for recordable games, the replay log.
func (m *Model) saveResult() {
	if m.store == nil || m.gameState.Score == 0 {
		return
	}

	rec, ok := m.game.(registry.Recordable)
	if !ok {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.store.SaveScore(m.game.ID(), m.gameState.Score)
		return
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveResult(m.game.ID(), m.gameState.Score, rec.MaxTile(), rec.Moves())
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveGame(storage.GameRecord{
		GameID:     m.game.ID(),
		Seed:       rec.Seed(),
		StartLevel: rec.StartLevel(),
		Preset:     rec.Preset(),
		Rows:       rec.Rows(),
		Cols:       rec.Cols(),
		Moves:      rec.MoveLog(),
		Score:      m.gameState.Score,
		MaxTile:    rec.MaxTile(),
	})
}

// saveScreenshot writes the current frame under ~/.t2048/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)
	if dir, err := screenshotDir(); err == nil {
		writeScreenshot(dir, m.game, m.screen, time.Now()) //nolint:errcheck // best effort
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
