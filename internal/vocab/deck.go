// Package vocab loads and validates vocabulary decks: the word lists the
// quiz, reading, and battle games draw their material from. The package
// depends on nothing game-specific; games depend on it.
package vocab

import (
	"fmt"
	"math/rand"
	"strings"
)

// MinEntries is the smallest deck a game can work with: one answer plus
// two decoys needs at least a few distinct words to choose from.
const MinEntries = 4

// Level bounds for entries. Harder words sit on higher levels.
const (
	MinLevel = 1
	MaxLevel = 3
)

// Entry is one vocabulary item.
type Entry struct {
	Word    string `yaml:"word"`
	Meaning string `yaml:"meaning"`
	Hint    string `yaml:"hint,omitempty"`
	Level   int    `yaml:"level"`
}

// Passage is a short reading text with target words to find in it. Every
// target must exist as an entry word in the owning deck.
type Passage struct {
	Title   string   `yaml:"title"`
	Text    string   `yaml:"text"`
	Targets []string `yaml:"targets"`
}

// Deck is a named collection of entries plus optional reading passages.
type Deck struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Language string    `yaml:"language,omitempty"`
	Entries  []Entry   `yaml:"entries"`
	Passages []Passage `yaml:"passages,omitempty"`
}

// Validate checks deck integrity. A deck that fails validation is rejected
// at load time rather than surfacing as broken gameplay later.
func (d *Deck) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("deck has no id")
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("deck %s: no title", d.ID)
	}
	if len(d.Entries) < MinEntries {
		return fmt.Errorf("deck %s: needs at least %d entries, has %d", d.ID, MinEntries, len(d.Entries))
	}

	words := make(map[string]bool, len(d.Entries))
	for i, e := range d.Entries {
		if strings.TrimSpace(e.Word) == "" {
			return fmt.Errorf("deck %s: entry %d has no word", d.ID, i)
		}
		if strings.TrimSpace(e.Meaning) == "" {
			return fmt.Errorf("deck %s: entry %q has no meaning", d.ID, e.Word)
		}
		if e.Level < MinLevel || e.Level > MaxLevel {
			return fmt.Errorf("deck %s: entry %q has level %d, want %d..%d",
				d.ID, e.Word, e.Level, MinLevel, MaxLevel)
		}
		if words[e.Word] {
			return fmt.Errorf("deck %s: duplicate word %q", d.ID, e.Word)
		}
		words[e.Word] = true
	}

	for _, p := range d.Passages {
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("deck %s: passage has no title", d.ID)
		}
		if strings.TrimSpace(p.Text) == "" {
			return fmt.Errorf("deck %s: passage %q has no text", d.ID, p.Title)
		}
		if len(p.Targets) == 0 {
			return fmt.Errorf("deck %s: passage %q has no targets", d.ID, p.Title)
		}
		for _, target := range p.Targets {
			if !words[target] {
				return fmt.Errorf("deck %s: passage %q target %q is not in the deck",
					d.ID, p.Title, target)
			}
		}
	}

	return nil
}

// EntryByWord looks up an entry by its word.
func (d *Deck) EntryByWord(word string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Word == word {
			return e, true
		}
	}
	return Entry{}, false
}

// EntriesByLevel returns all entries on the given level, in deck order.
func (d *Deck) EntriesByLevel(level int) []Entry {
	var out []Entry
	for _, e := range d.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// PassageByTitle looks up a passage by title.
func (d *Deck) PassageByTitle(title string) (Passage, bool) {
	for _, p := range d.Passages {
		if p.Title == title {
			return p, true
		}
	}
	return Passage{}, false
}

// TargetEntries resolves a passage's target words to deck entries, in
// target order. Unknown targets are skipped; Validate rules them out for
// loaded decks.
func (d *Deck) TargetEntries(p Passage) []Entry {
	out := make([]Entry, 0, len(p.Targets))
	for _, target := range p.Targets {
		if e, ok := d.EntryByWord(target); ok {
			out = append(out, e)
		}
	}
	return out
}

// Shuffled returns the entries in a seeded random order. The deck itself
// is not modified.
func (d *Deck) Shuffled(rng *rand.Rand) []Entry {
	out := make([]Entry, len(d.Entries))
	copy(out, d.Entries)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// PickEntry returns one uniformly chosen entry, or false for an empty deck.
func (d *Deck) PickEntry(rng *rand.Rand) (Entry, bool) {
	if len(d.Entries) == 0 {
		return Entry{}, false
	}
	return d.Entries[rng.Intn(len(d.Entries))], true
}

// PickDecoys returns up to n distinct entries whose words differ from avoid,
// chosen in seeded random order. Fewer than n are returned when the deck
// runs out of candidates.
func (d *Deck) PickDecoys(rng *rand.Rand, avoid string, n int) []Entry {
	candidates := make([]Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Word != avoid {
			candidates = append(candidates, e)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
