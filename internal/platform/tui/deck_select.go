package tui

import (
	"fmt"
	"strings"

	"github.com/lexibolt/lexibolt/internal/vocab"
)

// DeckPicker is the deck list submodel the game menus embed. It is not a
// Bubble Tea model of its own; the parent menu forwards navigation to it
// and renders its lines.
type DeckPicker struct {
	decks  []vocab.Deck
	cursor int
	err    error
}

// NewDeckPicker loads the available decks (embedded plus user decks).
func NewDeckPicker() DeckPicker {
	loader := vocab.NewLoader(vocab.DefaultRoot())
	decks, err := loader.LoadAll()
	return DeckPicker{decks: decks, err: err}
}

// Len returns the number of decks.
func (p DeckPicker) Len() int {
	return len(p.decks)
}

// MoveUp moves the cursor up.
func (p *DeckPicker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor down.
func (p *DeckPicker) MoveDown() {
	if p.cursor < len(p.decks)-1 {
		p.cursor++
	}
}

// Selected returns the deck under the cursor.
func (p DeckPicker) Selected() (vocab.Deck, bool) {
	if len(p.decks) == 0 {
		return vocab.Deck{}, false
	}
	return p.decks[p.cursor], true
}

// View renders the deck list centered in the given width.
func (p DeckPicker) View(width int) string {
	var b strings.Builder

	if p.err != nil {
		b.WriteString(centerText("Could not load decks: "+p.err.Error(), width))
		b.WriteString("\n")
		return b.String()
	}
	if len(p.decks) == 0 {
		b.WriteString(centerText("No decks available", width))
		b.WriteString("\n")
		return b.String()
	}

	for i, d := range p.decks {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  (%s, %d words)", cursor, d.Title, d.ID, len(d.Entries))
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
	}

	return b.String()
}
