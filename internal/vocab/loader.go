package vocab

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed decks/*.yaml
var embeddedFS embed.FS

// Parse unmarshals and validates one deck document.
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// LoadFile loads a single deck file.
func LoadFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("reading deck %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return Deck{}, fmt.Errorf("parsing deck %s: %w", path, err)
	}
	return d, nil
}

// EmbeddedDecks returns the decks shipped inside the binary. An error here
// means the build itself is broken.
func EmbeddedDecks() ([]Deck, error) {
	names, err := embeddedFS.ReadDir("decks")
	if err != nil {
		return nil, fmt.Errorf("reading embedded decks: %w", err)
	}

	var decks []Deck
	for _, entry := range names {
		data, err := embeddedFS.ReadFile("decks/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded deck %s: %w", entry.Name(), err)
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded deck %s: %w", entry.Name(), err)
		}
		decks = append(decks, d)
	}

	sort.Slice(decks, func(i, j int) bool { return decks[i].ID < decks[j].ID })
	return decks, nil
}

// Loader merges embedded decks with user decks found under Root.
type Loader struct {
	Root string
}

// NewLoader creates a loader scanning the given directory for user decks.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// DefaultRoot returns the user deck directory, or empty if the home
// directory is unavailable.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lexibolt", "decks")
}

// LoadAll returns every available deck sorted by ID. User decks override
// embedded decks with the same ID. Invalid user files are skipped with a
// warning rather than failing the whole load.
func (l *Loader) LoadAll() ([]Deck, error) {
	embedded, err := EmbeddedDecks()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Deck, len(embedded))
	for _, d := range embedded {
		byID[d.ID] = d
	}

	if l.Root != "" {
		if err := l.scanRoot(byID); err != nil {
			return nil, err
		}
	}

	decks := make([]Deck, 0, len(byID))
	for _, d := range byID {
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].ID < decks[j].ID })
	return decks, nil
}

func (l *Loader) scanRoot(byID map[string]Deck) error {
	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		deck, err := LoadFile(path)
		if err != nil {
			log.Warn("skipping invalid deck", "path", path, "err", err)
			return nil
		}
		byID[deck.ID] = deck
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			// No user deck directory yet.
			return nil
		}
		return fmt.Errorf("scanning deck directory %s: %w", l.Root, err)
	}
	return nil
}

// LoadByID returns a specific deck.
func (l *Loader) LoadByID(id string) (Deck, error) {
	decks, err := l.LoadAll()
	if err != nil {
		return Deck{}, err
	}
	for _, d := range decks {
		if d.ID == id {
			return d, nil
		}
	}
	return Deck{}, fmt.Errorf("deck not found: %s", id)
}

// ListIDs returns all deck IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	decks, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	return ids, nil
}
