package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	maxScores   = 100 // Rows loaded per mode tab
	recentGames = 50  // Rows loaded on the recent tab
	recentTitle = "Recent"
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Prev, k.Next}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("right/tab", "next tab")),
		Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("left", "prev tab")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scoreTab is one page of the scoreboard: a mode's best results, or the
// most recent replayable games when gameID is empty.
type scoreTab struct {
	title  string
	gameID string
}

func (t scoreTab) recent() bool { return t.gameID == "" }

var (
	scoreTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	statsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ScoreboardModel shows high scores per mode and a list of stored games
// that can be verified with the replay command.
type ScoreboardModel struct {
	tabs   []scoreTab
	cursor int
	store  *storage.Store

	rows  []table.Row
	stats *storage.GameStats
	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard opened on the first mode.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var tabs []scoreTab
	for _, g := range registry.List() {
		tabs = append(tabs, scoreTab{title: g.Title, gameID: g.ID})
	}
	tabs = append(tabs, scoreTab{title: recentTitle})

	m := ScoreboardModel{
		tabs:   tabs,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m ScoreboardModel) current() scoreTab { return m.tabs[m.cursor] }

// columns sizes the table for the current tab, giving spare width to the
// date column.
func (m ScoreboardModel) columns() []table.Column {
	var cols []table.Column
	if m.current().recent() {
		cols = []table.Column{
			{Title: "ID", Width: 10},
			{Title: "Mode", Width: 16},
			{Title: "Score", Width: 8},
			{Title: "Tile", Width: 6},
			{Title: "Moves", Width: 6},
			{Title: "Date", Width: 12},
		}
	} else {
		cols = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Tile", Width: 6},
			{Title: "Moves", Width: 6},
			{Title: "Date", Width: 12},
		}
	}

	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	last := len(cols) - 1
	if spare := m.width - 8 - used; spare > 0 {
		cols[last].Width += min(spare, 8)
	}
	return cols
}

func (m *ScoreboardModel) rebuildTable() {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

// load reads the current tab's rows from the store.
func (m *ScoreboardModel) load() {
	m.rows = nil
	m.stats = nil

	if m.store != nil {
		tab := m.current()
		if tab.recent() {
			m.rows = m.recentRows()
		} else {
			m.rows = m.scoreRows(tab.gameID)
			m.stats, _ = m.store.GetGameStats(tab.gameID)
		}
	}
	m.rebuildTable()
}

func (m *ScoreboardModel) scoreRows(gameID string) []table.Row {
	scores, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			"#" + strconv.Itoa(i+1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.MaxTile),
			strconv.Itoa(s.Moves),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m *ScoreboardModel) recentRows() []table.Row {
	games, err := m.store.RecentGames(recentGames)
	if err != nil {
		return nil
	}
	titles := make(map[string]string, len(m.tabs))
	for _, t := range m.tabs {
		titles[t.gameID] = t.title
	}

	rows := make([]table.Row, len(games))
	for i, g := range games {
		id := g.ID
		if len(id) > 8 {
			id = id[:8]
		}
		mode := titles[g.GameID]
		if mode == "" {
			mode = g.GameID
		}
		rows[i] = table.Row{
			id,
			mode,
			strconv.Itoa(g.Score),
			strconv.Itoa(g.MaxTile),
			strconv.Itoa(len(g.Moves)),
			g.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m *ScoreboardModel) switchTab(delta int) {
	m.cursor = (m.cursor + delta + len(m.tabs)) % len(m.tabs)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuildTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(scoreTitleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	body := m.table.View()
	if len(m.rows) == 0 {
		body = emptyStyle.Render(m.emptyMessage())
	}
	b.WriteString(centerText(panelStyle.Render(body), m.width))
	b.WriteString("\n")

	if m.stats != nil && m.stats.GamesCount > 0 {
		line := fmt.Sprintf("Games: %d  Best: %d  Best tile: %d  Average: %.0f",
			m.stats.GamesCount, m.stats.HighScore, m.stats.BestTile, m.stats.AvgScore)
		b.WriteString(centerText(statsStyle.Render(line), m.width))
		b.WriteString("\n")
	}
	if m.current().recent() && len(m.rows) > 0 {
		b.WriteString(centerText(statsStyle.Render("Verify a game with: t2048 replay <id>"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(menuHintStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTabs draws the tab strip, collapsing to "< title >" when narrow.
func (m ScoreboardModel) renderTabs() string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(t.title)
		} else {
			tabs[i] = tabStyle.Render(t.title)
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		return activeTabStyle.Render("< " + m.current().title + " >")
	}
	return line
}

func (m ScoreboardModel) emptyMessage() string {
	switch {
	case m.store == nil:
		return "Scores are unavailable.\nThe database could not be opened."
	case m.current().recent():
		return "No stored games yet.\nFinish a game to record it."
	default:
		return "No scores recorded yet.\nFinish a game to set a high score!"
	}
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
