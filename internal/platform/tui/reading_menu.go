package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/vocab"
)

// readingMenuStage tracks which selection screen is active.
type readingMenuStage int

const (
	readingStageDeck readingMenuStage = iota
	readingStagePassage
)

// ReadingSelection holds the user's choices from the reading menu.
type ReadingSelection struct {
	DeckID  string
	Passage string // passage title
}

// ReadingMenuModel walks deck and passage selection for a reading run.
type ReadingMenuModel struct {
	stage     readingMenuStage
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	decks     DeckPicker
	deck      vocab.Deck
	selection ReadingSelection
	choosing  bool
	quitting  bool
	back      bool
	notice    string
}

// NewReadingMenuModel creates a new reading menu model.
func NewReadingMenuModel(width, height int) ReadingMenuModel {
	return ReadingMenuModel{
		stage:     readingStageDeck,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		decks:     NewDeckPicker(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m ReadingMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ReadingMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m ReadingMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.stage == readingStageDeck {
			m.decks.MoveUp()
		} else if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.stage == readingStageDeck {
			m.decks.MoveDown()
		} else if m.cursor < len(m.deck.Passages)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if m.stage == readingStageDeck {
			deck, ok := m.decks.Selected()
			if !ok {
				return m, nil
			}
			if len(deck.Passages) == 0 {
				m.notice = "That deck has no passages; pick another."
				return m, nil
			}
			m.deck = deck
			m.selection.DeckID = deck.ID
			m.stage = readingStagePassage
			m.cursor = 0
			m.notice = ""
			return m, nil
		}
		m.selection.Passage = m.deck.Passages[m.cursor].Title
		m.choosing = false
		return m, tea.Quit

	case MenuActionBack:
		if m.stage == readingStagePassage {
			m.stage = readingStageDeck
			return m, nil
		}
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current stage.
func (m ReadingMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("R E A D I N G   H U N T", m.width))
	b.WriteString("\n\n")

	if m.stage == readingStageDeck {
		b.WriteString(centerText("Select a deck:", m.width))
		b.WriteString("\n\n")
		b.WriteString(m.decks.View(m.width))
		if m.notice != "" {
			b.WriteString("\n")
			b.WriteString(centerText(m.notice, m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Select a passage:", m.width))
		b.WriteString("\n\n")
		for i, p := range m.deck.Passages {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			line := fmt.Sprintf("%s%s  (%d words to find)", cursor, p.Title, len(p.Targets))
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m ReadingMenuModel) Selected() *ReadingSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m ReadingMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user backed out of the menu.
func (m ReadingMenuModel) WantsBack() bool {
	return m.back
}

// RunReadingMenu runs the reading selection flow.
func RunReadingMenu(cfg core.RuntimeConfig) (*ReadingSelection, error) {
	model := NewReadingMenuModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(ReadingMenuModel)
	if !ok {
		return nil, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
