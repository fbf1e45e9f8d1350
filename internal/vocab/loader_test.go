package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDecksLoad(t *testing.T) {
	decks, err := EmbeddedDecks()
	if err != nil {
		t.Fatalf("embedded decks must always load: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 embedded decks, got %d", len(decks))
	}
	if decks[0].ID != "starter" || decks[1].ID != "voyager" {
		t.Errorf("embedded decks out of order: %s, %s", decks[0].ID, decks[1].ID)
	}

	for _, d := range decks {
		if len(d.Passages) == 0 {
			t.Errorf("deck %s ships without passages", d.ID)
		}
		for _, p := range d.Passages {
			if got := len(d.TargetEntries(p)); got != len(p.Targets) {
				t.Errorf("deck %s passage %q resolves %d of %d targets",
					d.ID, p.Title, got, len(p.Targets))
			}
		}
		levels := map[int]bool{}
		for _, e := range d.Entries {
			levels[e.Level] = true
		}
		for lvl := MinLevel; lvl <= MaxLevel; lvl++ {
			if !levels[lvl] {
				t.Errorf("deck %s has no level %d entries", d.ID, lvl)
			}
		}
	}
}

func TestLoadAllMissingRoot(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	decks, err := l.LoadAll()
	if err != nil {
		t.Fatalf("missing user dir should not fail the load: %v", err)
	}
	if len(decks) != 2 {
		t.Errorf("expected the embedded decks only, got %d", len(decks))
	}
}

func TestLoadAllUserDeckWins(t *testing.T) {
	dir := t.TempDir()
	override := `id: starter
title: My Starter
entries:
  - {word: one, meaning: the number 1, level: 1}
  - {word: two, meaning: the number 2, level: 1}
  - {word: three, meaning: the number 3, level: 2}
  - {word: four, meaning: the number 4, level: 3}
`
	if err := os.WriteFile(filepath.Join(dir, "starter.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)
	d, err := l.LoadByID("starter")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if d.Title != "My Starter" {
		t.Errorf("user deck should override the embedded one, got title %q", d.Title)
	}
}

func TestLoadAllSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"broken.yaml": "id: broken\ntitle: Broken\nentries: []\n",
		"not-yaml.txt": "this is not a deck",
		"extra.yaml": `id: extra
title: Extra Deck
entries:
  - {word: north, meaning: toward the top of a map, level: 1}
  - {word: south, meaning: toward the bottom of a map, level: 1}
  - {word: east, meaning: toward the sunrise, level: 2}
  - {word: west, meaning: toward the sunset, level: 2}
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	l := NewLoader(dir)
	ids, err := l.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	want := []string{"extra", "starter", "voyager"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestLoadByIDNotFound(t *testing.T) {
	l := NewLoader("")
	if _, err := l.LoadByID("no-such-deck"); err == nil {
		t.Error("expected an error for an unknown deck id")
	}
}

func TestLoadFileRejectsBadDeck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	bad := `id: bad
title: Bad Deck
entries:
  - {word: solo, meaning: alone, level: 9}
  - {word: duo, meaning: a pair, level: 1}
  - {word: trio, meaning: three together, level: 1}
  - {word: quartet, meaning: four together, level: 2}
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected a level-range validation error")
	}
}
