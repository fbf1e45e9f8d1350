package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexibolt/lexibolt/internal/core"
)

// battleMenuStage tracks which selection screen is active.
type battleMenuStage int

const (
	battleStageVariant battleMenuStage = iota
	battleStageDifficulty
	battleStageDeck
)

// BattleSelection holds the user's choices from the battle menu.
type BattleSelection struct {
	GameID     string // "battle" or "battle_storm"
	Difficulty string // preset name, empty for the config default
	DeckID     string // empty for the starter deck
}

// battleVariants pairs the menu labels with their game IDs.
var battleVariants = []struct {
	label  string
	gameID string
}{
	{"Classic (electric blue)", "battle"},
	{"Storm (violet, heavy bolts)", "battle_storm"},
}

// battleDifficulties pairs the menu labels with their preset names.
var battleDifficulties = []struct {
	label  string
	preset string
}{
	{"Normal", "normal"},
	{"Easy (slower counters)", "easy"},
	{"Hard (faster, meaner)", "hard"},
	{"Fixed (no ramping)", "fixed"},
}

// BattleMenuModel walks variant, difficulty and deck selection for a battle.
type BattleMenuModel struct {
	stage     battleMenuStage
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	decks     DeckPicker
	selection BattleSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewBattleMenuModel creates a new battle menu model.
func NewBattleMenuModel(width, height int) BattleMenuModel {
	return BattleMenuModel{
		stage:     battleStageVariant,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		decks:     NewDeckPicker(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m BattleMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BattleMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m BattleMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.stage == battleStageDeck {
			m.decks.MoveUp()
		} else if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.stage == battleStageDeck {
			m.decks.MoveDown()
		} else if m.cursor < m.stageLen()-1 {
			m.cursor++
		}

	case MenuActionSelect:
		return m.handleSelect()

	case MenuActionBack:
		switch m.stage {
		case battleStageVariant:
			m.back = true
			return m, tea.Quit
		case battleStageDifficulty:
			m.stage = battleStageVariant
			m.cursor = 0
		case battleStageDeck:
			m.stage = battleStageDifficulty
			m.cursor = 0
		}
	}

	return m, nil
}

func (m BattleMenuModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.stage {
	case battleStageVariant:
		m.selection.GameID = battleVariants[m.cursor].gameID
		m.stage = battleStageDifficulty
		m.cursor = 0

	case battleStageDifficulty:
		m.selection.Difficulty = battleDifficulties[m.cursor].preset
		m.stage = battleStageDeck

	case battleStageDeck:
		deck, ok := m.decks.Selected()
		if !ok {
			return m, nil
		}
		m.selection.DeckID = deck.ID
		m.choosing = false
		return m, tea.Quit
	}

	return m, nil
}

// stageLen returns the option count of the current cursor-driven stage.
func (m BattleMenuModel) stageLen() int {
	if m.stage == battleStageDifficulty {
		return len(battleDifficulties)
	}
	return len(battleVariants)
}

// View renders the current stage.
func (m BattleMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("W O R D   B A T T L E", m.width))
	b.WriteString("\n\n")

	switch m.stage {
	case battleStageVariant:
		b.WriteString(centerText("Select a variant:", m.width))
		b.WriteString("\n\n")
		for i, v := range battleVariants {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, v.label), m.width))
			b.WriteString("\n")
		}

	case battleStageDifficulty:
		b.WriteString(centerText("Select difficulty:", m.width))
		b.WriteString("\n\n")
		for i, d := range battleDifficulties {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, d.label), m.width))
			b.WriteString("\n")
		}

	case battleStageDeck:
		b.WriteString(centerText("Select a deck:", m.width))
		b.WriteString("\n\n")
		b.WriteString(m.decks.View(m.width))
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m BattleMenuModel) Selected() *BattleSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m BattleMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user backed out of the menu.
func (m BattleMenuModel) WantsBack() bool {
	return m.back
}

// RunBattleMenu runs the battle selection flow.
func RunBattleMenu(cfg core.RuntimeConfig) (*BattleSelection, error) {
	model := NewBattleMenuModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(BattleMenuModel)
	if !ok {
		return nil, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
