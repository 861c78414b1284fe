package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Main menu entries, in display order.
const (
	itemCampaign = iota
	itemEndless
	itemSelectLevel
	itemDifficulty
	itemScores
	itemQuit
	itemCount
)

// presets is the order the difficulty entry cycles through.
var presets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the 2048 main menu.
type MenuModel struct {
	cursor        int
	levelCursor   int
	inLevelSelect bool
	presetIndex   int
	width         int
	height        int
	store         *storage.Store
	keys          MenuKeyMap
	quitting      bool
	selected      *MenuResult
	scoreboard    bool
}

// NewMenuModel creates a new menu model. Difficulty starts at preset,
// or normal when preset is empty or unknown.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset) MenuModel {
	idx := 1
	for i, p := range presets {
		if p == preset {
			idx = i
		}
	}
	return MenuModel{
		presetIndex: idx,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		store:       store,
		keys:        DefaultMenuKeyMap(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keys.Action(msg)
		if action == MenuActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		if m.inLevelSelect {
			return m.handleLevelSelect(action)
		}
		return m.handleMain(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) preset() config.DifficultyPreset {
	return presets[m.presetIndex]
}

func (m MenuModel) choose(gameID string, level int) (tea.Model, tea.Cmd) {
	m.selected = &MenuResult{
		GameID:     gameID,
		StartLevel: level,
		Preset:     m.preset(),
	}
	return m, tea.Quit
}

func (m MenuModel) handleMain(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < itemCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.cursor == itemDifficulty {
			m.presetIndex = (m.presetIndex + len(presets) - 1) % len(presets)
		}
	case MenuActionRight:
		if m.cursor == itemDifficulty {
			m.presetIndex = (m.presetIndex + 1) % len(presets)
		}
	case MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionSelect:
		switch m.cursor {
		case itemCampaign:
			return m.choose("2048", 0)
		case itemEndless:
			return m.choose("2048_endless", 0)
		case itemSelectLevel:
			m.inLevelSelect = true
			m.levelCursor = 0
		case itemDifficulty:
			m.presetIndex = (m.presetIndex + 1) % len(presets)
		case itemScores:
			m.scoreboard = true
			return m, tea.Quit
		case itemQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) handleLevelSelect(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < t2048.LevelCount()-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.choose("2048", m.levelCursor+1)
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	items := []string{
		"Campaign (10 levels)",
		"Endless",
		"Select Level...",
		fmt.Sprintf("Difficulty: < %s >", m.preset()),
		"High Scores",
		"Quit",
	}
	for i, item := range items {
		line := "  " + item
		if i == m.cursor {
			line = menuActiveStyle.Render("> " + item)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	targets := t2048.LevelTargets()
	for i, name := range t2048.LevelNames() {
		line := fmt.Sprintf("%2d. %s (Target: %d)", i+1, name, targets[i])
		if i == m.levelCursor {
			line = menuActiveStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen game, or nil if none was chosen.
func (m MenuModel) Selected() *MenuResult {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.scoreboard
}

// centerText centers text within width, measuring printable cells only.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult is the game picked in the menu.
type MenuResult struct {
	GameID     string
	StartLevel int // 1-based; 0 starts the campaign from the beginning
	Preset     config.DifficultyPreset
}

// NewGame creates the selected game configured with the chosen level and
// difficulty.
func (r MenuResult) NewGame() (registry.Game, error) {
	game, err := registry.Create(r.GameID)
	if err != nil {
		return nil, err
	}
	if g, ok := game.(*t2048.Game); ok {
		g.Configure(r.Preset, r.StartLevel)
	}
	return game, nil
}
