package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexibolt/lexibolt/internal/core"
)

// quizMenuStage tracks which selection screen is active.
type quizMenuStage int

const (
	quizStageDeck quizMenuStage = iota
	quizStageLength
)

// quizLengths pairs the menu labels with question counts. Zero keeps the
// configured default.
var quizLengths = []struct {
	label string
	count int
}{
	{"Default length", 0},
	{"Quick (5 questions)", 5},
	{"Standard (10 questions)", 10},
	{"Long (20 questions)", 20},
}

// QuizSelection holds the user's choices from the quiz menu.
type QuizSelection struct {
	DeckID string
	Length int // 0 keeps the config default
}

// QuizMenuModel walks deck and length selection for a quiz run.
type QuizMenuModel struct {
	stage     quizMenuStage
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	decks     DeckPicker
	selection QuizSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewQuizMenuModel creates a new quiz menu model.
func NewQuizMenuModel(width, height int) QuizMenuModel {
	return QuizMenuModel{
		stage:     quizStageDeck,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		decks:     NewDeckPicker(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m QuizMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m QuizMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m QuizMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.stage == quizStageDeck {
			m.decks.MoveUp()
		} else if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.stage == quizStageDeck {
			m.decks.MoveDown()
		} else if m.cursor < len(quizLengths)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if m.stage == quizStageDeck {
			deck, ok := m.decks.Selected()
			if !ok {
				return m, nil
			}
			m.selection.DeckID = deck.ID
			m.stage = quizStageLength
			m.cursor = 0
			return m, nil
		}
		m.selection.Length = quizLengths[m.cursor].count
		m.choosing = false
		return m, tea.Quit

	case MenuActionBack:
		if m.stage == quizStageLength {
			m.stage = quizStageDeck
			return m, nil
		}
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current stage.
func (m QuizMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("V O C A B   Q U I Z", m.width))
	b.WriteString("\n\n")

	if m.stage == quizStageDeck {
		b.WriteString(centerText("Select a deck:", m.width))
		b.WriteString("\n\n")
		b.WriteString(m.decks.View(m.width))
	} else {
		b.WriteString(centerText("How long a run?", m.width))
		b.WriteString("\n\n")
		for i, l := range quizLengths {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, l.label), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m QuizMenuModel) Selected() *QuizSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m QuizMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user backed out of the menu.
func (m QuizMenuModel) WantsBack() bool {
	return m.back
}

// RunQuizMenu runs the quiz selection flow.
func RunQuizMenu(cfg core.RuntimeConfig) (*QuizSelection, error) {
	model := NewQuizMenuModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(QuizMenuModel)
	if !ok {
		return nil, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
