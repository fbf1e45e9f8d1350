package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores  = 100 // Max scores to load
	maxRecords = 50  // Max battle/duel rows to load
)

// scoreboardTab identifies one of the record views.
type scoreboardTab int

const (
	tabScores scoreboardTab = iota
	tabBattles
	tabDuels
)

var tabTitles = []string{"Scores", "Battles", "Duels"}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevGame key.Binding
	NextGame key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.NextGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.NextGame, k.PrevGame, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev game"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next game"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the records screen: top scores
// per game, recent battles, and recent duels.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	tab        scoreboardTab
	store      *storage.Store
	scores     []storage.ScoreEntry
	battles    []storage.BattleRecord
	duels      []storage.DuelRecord
	tallyLine  string
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}

	m.table = m.createTable()
	m.loadTab()

	return m
}

// tabColumns returns the table columns for the active tab.
func (m *ScoreboardModel) tabColumns() []table.Column {
	switch m.tab {
	case tabBattles:
		return []table.Column{
			{Title: "Game", Width: 14},
			{Title: "Result", Width: 7},
			{Title: "HP", Width: 11},
			{Title: "Rounds", Width: 7},
			{Title: "Acc", Width: 5},
			{Title: "Date", Width: 13},
		}
	case tabDuels:
		return []table.Column{
			{Title: "Players", Width: 26},
			{Title: "Score", Width: 9},
			{Title: "Winner", Width: 12},
			{Title: "Date", Width: 13},
		}
	default:
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 12},
			{Title: "Date", Width: 18},
		}
	}
}

// createTable creates a new table for the active tab.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.tabColumns()),
		table.WithFocused(true),
		table.WithHeight(m.height-9), // Leave room for header, tabs, help
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

	return t
}

// loadTab loads the active tab's rows from storage.
func (m *ScoreboardModel) loadTab() {
	m.tallyLine = ""
	if m.store == nil {
		m.table.SetRows(nil)
		return
	}

	switch m.tab {
	case tabBattles:
		m.battles, _ = m.store.RecentBattles(maxRecords)
		m.tallyLine = m.battleTallyLine()
		rows := make([]table.Row, len(m.battles))
		for i, rec := range m.battles {
			rows[i] = table.Row{
				rec.GameID,
				rec.Outcome,
				fmt.Sprintf("%.0f vs %.0f", rec.PlayerHP, rec.EnemyHP),
				fmt.Sprintf("%d", rec.Rounds),
				fmt.Sprintf("%.0f%%", rec.AccuracyPct),
				rec.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		m.table.SetRows(rows)

	case tabDuels:
		m.duels, _ = m.store.RecentDuels(maxRecords)
		rows := make([]table.Row, len(m.duels))
		for i, rec := range m.duels {
			winner := rec.Winner
			if winner == "" {
				winner = "draw"
			}
			rows[i] = table.Row{
				fmt.Sprintf("%s vs %s", rec.Player1, rec.Player2),
				fmt.Sprintf("%d - %d", rec.Score1, rec.Score2),
				winner,
				rec.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		m.table.SetRows(rows)

	default:
		if len(m.games) == 0 {
			m.table.SetRows(nil)
			return
		}
		m.scores, _ = m.store.TopScores(m.games[m.gameCursor].ID, maxScores)
		rows := make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				fmt.Sprintf("%d", s.Score),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		m.table.SetRows(rows)
	}

	m.table.GotoTop()
}

// battleTallyLine formats the win/loss tally across battle variants.
func (m *ScoreboardModel) battleTallyLine() string {
	parts := make([]string, 0, 2)
	for _, id := range []string{"battle", "battle_storm"} {
		wins, losses, err := m.store.BattleTally(id)
		if err != nil || (wins == 0 && losses == 0) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %dW-%dL", id, wins, losses))
	}
	return strings.Join(parts, "   ")
}

// switchTab moves to another tab and rebuilds the table for its columns.
func (m *ScoreboardModel) switchTab(delta int) {
	n := len(tabTitles)
	m.tab = scoreboardTab((int(m.tab) + delta + n) % n)
	m.table = m.createTable()
	m.loadTab()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if m.tab == tabScores && len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadTab()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if m.tab == tabScores && len(m.games) > 0 {
				m.gameCursor--
				if m.gameCursor < 0 {
					m.gameCursor = len(m.games) - 1
				}
				m.loadTab()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadTab()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "LEXIBOLT RECORDS"
	if m.tab == tabScores && len(m.games) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.games[m.gameCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	if m.tallyLine != "" {
		b.WriteString(centerText(m.tallyLine, m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the tab strip.
func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(tabTitles))
	for i, name := range tabTitles {
		if scoreboardTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	empty := ""
	switch m.tab {
	case tabBattles:
		if len(m.battles) == 0 {
			empty = "No battles recorded yet.\nFight one to fill this tab!"
		}
	case tabDuels:
		if len(m.duels) == 0 {
			empty = "No duels recorded yet.\nChallenge someone over SSH!"
		}
	default:
		if len(m.scores) == 0 {
			empty = "No scores recorded yet.\nPlay a game to set a high score!"
		}
	}

	if empty != "" {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render(empty)
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
