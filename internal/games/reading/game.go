// Package reading implements the passage reading game: a deck passage is
// laid out in a box and the player steers a focus cursor over it, dwelling
// on vocabulary words to collect them before the clock runs out.
package reading

import (
	"math/rand"
	"strings"

	"github.com/lexibolt/lexibolt/internal/config"
	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/vocab"
)

const (
	hudHeight = 4
	boxTop    = 5

	toastLifetime  = 120
	toastFadeTicks = 30
)

// wordCell is one laid-out token of the passage. Target words keep an index
// into the targets slice; plain words carry -1.
type wordCell struct {
	text   string
	rect   core.Rect
	target int
}

// target is one collectible vocabulary word of the passage.
type target struct {
	word      string
	meaning   string
	collected bool
}

// toast is a transient celebration line.
type toast struct {
	text  string
	ticks int
}

// Game implements the reading game as a registry game.
type Game struct {
	rng     *rand.Rand
	deck    vocab.Deck
	cfg     config.ReadingConfig
	passage vocab.Passage

	// Screen dimensions
	screenW int
	screenH int

	tickRate int

	// Status
	tick      uint64
	score     int
	gameOver  bool
	won       bool
	paused    bool
	tooSmall  bool
	noDeck    bool
	noPassage bool

	// Layout
	words []wordCell
	boxH  int

	// Focus cursor, in screen cells. Hit-testing is rect containment so the
	// cursor cell always sits on the focused word's first rune.
	cursorX int
	cursorY int
	dwell   int

	targets   []target
	collected int
	lastFound string

	// Run timer, in ticks.
	timeLimit int
	timeLeft  int

	toasts []toast
}

// Package-level variables for configuration
var (
	selectedDeckID     string
	selectedPassage    string
	selectedPreset     string
	selectedConfigPath string
)

// SetDeck selects the vocabulary deck for the next run. Empty means the
// starter deck.
func SetDeck(id string) {
	selectedDeckID = id
}

// SelectedDeck returns the currently selected deck ID.
func SelectedDeck() string {
	return selectedDeckID
}

// SetPassage selects a passage by title. Empty means the deck's first
// passage.
func SetPassage(title string) {
	selectedPassage = title
}

// SelectedPassage returns the currently selected passage title.
func SelectedPassage() string {
	return selectedPassage
}

// SetDifficulty selects the difficulty preset for the next run.
func SetDifficulty(preset string) {
	selectedPreset = preset
}

// SetConfigPath sets a custom reading config file path.
func SetConfigPath(path string) {
	selectedConfigPath = path
}

func init() {
	registry.Register("reading", func() registry.Game {
		return New()
	})
}

// New creates the reading game.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "reading"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Reading Hunt"
}

// Reset starts a fresh run: loads config, deck and passage, lays the text
// out and starts the clock.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.tick = 0
	g.score = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.noDeck = false
	g.noPassage = false
	g.dwell = 0
	g.collected = 0
	g.lastFound = ""
	g.toasts = nil

	g.tooSmall = g.screenW < 40 || g.screenH < 16

	rc, err := config.LoadReading(selectedConfigPath)
	if err != nil {
		rc = config.DefaultReadingConfig()
	}
	if selectedPreset != "" {
		config.ApplyReadingPreset(&rc, config.DifficultyPreset(selectedPreset))
	}
	if rc.DwellTicks < 1 {
		rc.DwellTicks = 1
	}
	g.cfg = rc

	deck, err := g.loadDeck()
	if err != nil {
		g.noDeck = true
		g.gameOver = true
		g.words = nil
		g.targets = nil
		return
	}
	g.deck = deck

	passage, ok := g.pickPassage()
	if !ok {
		g.noPassage = true
		g.gameOver = true
		g.words = nil
		g.targets = nil
		return
	}
	g.passage = passage

	g.targets = nil
	for _, e := range deck.TargetEntries(passage) {
		g.targets = append(g.targets, target{word: e.Word, meaning: e.Meaning})
	}

	g.layoutPassage()
	if len(g.words) > 0 {
		g.focusWord(0)
	}

	g.timeLimit = rc.TimeLimitSeconds * g.tickRate
	g.timeLeft = g.timeLimit
}

// loadDeck loads the selected vocabulary deck, falling back to the starter
// deck when the selection is missing.
func (g *Game) loadDeck() (vocab.Deck, error) {
	loader := vocab.NewLoader(vocab.DefaultRoot())
	id := selectedDeckID
	if id == "" {
		id = "starter"
	}
	deck, err := loader.LoadByID(id)
	if err != nil && id != "starter" {
		deck, err = loader.LoadByID("starter")
	}
	return deck, err
}

// pickPassage resolves the selected passage title, defaulting to the deck's
// first passage.
func (g *Game) pickPassage() (vocab.Passage, bool) {
	if selectedPassage != "" {
		return g.deck.PassageByTitle(selectedPassage)
	}
	if len(g.deck.Passages) == 0 {
		return vocab.Passage{}, false
	}
	return g.deck.Passages[0], true
}

// layoutPassage word-wraps the passage text into the box and records each
// token's cell rect. Overflowing the screen marks the run as too small.
func (g *Game) layoutPassage() {
	innerX := 3
	innerW := g.screenW - 6
	if innerW < 10 {
		g.tooSmall = true
		g.words = nil
		return
	}

	g.words = g.words[:0]
	x := innerX
	y := boxTop + 1
	for _, token := range strings.Fields(g.passage.Text) {
		w := len([]rune(token))
		if x+w > innerX+innerW && x > innerX {
			x = innerX
			y++
		}
		g.words = append(g.words, wordCell{
			text:   token,
			rect:   core.NewRect(x, y, w, 1),
			target: g.targetIndex(token),
		})
		x += w + 1
	}
	g.boxH = y - boxTop + 2
	if boxTop+g.boxH > g.screenH-3 {
		g.tooSmall = true
	}
}

// targetIndex matches a passage token against the target words, ignoring
// case and surrounding punctuation.
func (g *Game) targetIndex(token string) int {
	trimmed := strings.Trim(token, ".,;:!?\"'()")
	for i := range g.targets {
		if strings.EqualFold(trimmed, g.targets[i].word) {
			return i
		}
	}
	return -1
}

// wordAt returns the index of the word whose rect contains the cell, or -1.
func (g *Game) wordAt(x, y int) int {
	for i := range g.words {
		if g.words[i].rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

// focusWord snaps the cursor to a word's first cell and restarts the dwell.
func (g *Game) focusWord(i int) {
	g.cursorX = g.words[i].rect.X
	g.cursorY = g.words[i].rect.Y
	g.dwell = 0
}

// moveHoriz focuses the previous or next word in reading order.
func (g *Game) moveHoriz(delta int) {
	i := g.wordAt(g.cursorX, g.cursorY)
	if i < 0 {
		if len(g.words) > 0 {
			g.focusWord(0)
		}
		return
	}
	j := core.Clamp(i+delta, 0, len(g.words)-1)
	if j != i {
		g.focusWord(j)
	}
}

// moveVert focuses the nearest word on the line above or below.
func (g *Game) moveVert(delta int) {
	i := g.wordAt(g.cursorX, g.cursorY)
	if i < 0 {
		if len(g.words) > 0 {
			g.focusWord(0)
		}
		return
	}
	row := g.words[i].rect.Y + delta
	best := -1
	bestDist := 0
	for j := range g.words {
		if g.words[j].rect.Y != row {
			continue
		}
		dist := g.words[j].rect.X - g.cursorX
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best = j
			bestDist = dist
		}
	}
	if best >= 0 {
		g.focusWord(best)
	}
}

// Step advances the game state by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) {
		g.Reset(core.RuntimeConfig{
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
			Seed:     g.rng.Int63(),
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.tickToasts()

	switch {
	case input.Has(core.ActionLeft):
		g.moveHoriz(-1)
	case input.Has(core.ActionRight):
		g.moveHoriz(1)
	case input.Has(core.ActionUp):
		g.moveVert(-1)
	case input.Has(core.ActionDown):
		g.moveVert(1)
	}

	g.tickDwell()
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if g.timeLimit > 0 {
		g.timeLeft--
		if g.timeLeft <= 0 {
			g.timeLeft = 0
			g.gameOver = true
		}
	}

	return core.StepResult{State: g.State()}
}

// tickDwell advances the dwell counter while the cursor rests on an
// uncollected target word.
func (g *Game) tickDwell() {
	i := g.wordAt(g.cursorX, g.cursorY)
	if i < 0 {
		g.dwell = 0
		return
	}
	ti := g.words[i].target
	if ti < 0 || g.targets[ti].collected {
		g.dwell = 0
		return
	}
	g.dwell++
	if g.dwell >= g.cfg.DwellTicks {
		g.collect(ti)
		g.dwell = 0
	}
}

// collect marks a target found, scores it and ends the run with a time
// bonus once every target is collected.
func (g *Game) collect(ti int) {
	g.targets[ti].collected = true
	g.collected++
	g.score += 10
	g.lastFound = g.targets[ti].word + ": " + g.targets[ti].meaning
	g.toasts = append(g.toasts, toast{text: g.targets[ti].word + "!", ticks: toastLifetime})

	if g.collected == len(g.targets) {
		g.won = true
		g.gameOver = true
		if g.timeLimit > 0 {
			g.score += g.timeLeft / g.tickRate
		}
	}
}

func (g *Game) tickToasts() {
	kept := g.toasts[:0]
	for _, t := range g.toasts {
		t.ticks--
		if t.ticks > 0 {
			kept = append(kept, t)
		}
	}
	g.toasts = kept
}

// Render draws the current frame to the screen.
func (g *Game) Render(screen *core.Screen) {
	screen.Clear()
	g.renderHUD(screen)

	if g.tooSmall {
		g.renderOverlay(screen, "Terminal too small", "Resize and restart")
		return
	}
	if g.noDeck {
		g.renderOverlay(screen, "No deck available", "Check ~/.lexibolt/decks")
		return
	}
	if g.noPassage {
		g.renderOverlay(screen, "No passage available", "Pick another deck or title")
		return
	}

	g.renderPassage(screen)
	g.renderToasts(screen)
	g.renderStatus(screen)

	if g.gameOver {
		if g.won {
			g.renderOverlay(screen,
				"All words found!",
				"Score "+itoa(g.score),
				"Press R to read again")
		} else {
			g.renderOverlay(screen,
				"Time's up",
				"Found "+itoa(g.collected)+"/"+itoa(len(g.targets)),
				"Press R to retry")
		}
		return
	}
	if g.paused {
		g.renderOverlay(screen, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(screen *core.Screen) {
	title := " Reading Hunt | Found: " + itoa(g.collected) + "/" + itoa(len(g.targets))
	if g.timeLimit > 0 {
		title += " | Time: " + itoa(g.timeLeft/g.tickRate) + "s"
	}
	screen.DrawTextColored(0, 0, title, core.ColorBrightCyan)
	screen.DrawHLine(0, 1, screen.Width(), '─', core.ColorGray)
	screen.DrawTextColored(0, 2, " Arrows/hjkl: Move | P: Pause | R: Restart | Q: Quit", core.ColorGray)
	screen.DrawHLine(0, 3, screen.Width(), '─', core.ColorGray)
}

func (g *Game) renderPassage(screen *core.Screen) {
	box := core.NewRect(1, boxTop, g.screenW-2, g.boxH)
	screen.DrawBox(box, core.ColorGray)

	focus := g.wordAt(g.cursorX, g.cursorY)
	for i, w := range g.words {
		color := core.ColorWhite
		switch {
		case w.target >= 0 && g.targets[w.target].collected:
			color = core.ColorBrightGreen
		case w.target >= 0:
			color = core.ColorCyan
		}
		if i == focus && !g.gameOver {
			if g.dwell > 0 {
				color = core.ColorBrightYellow
			} else {
				color = core.ColorBrightWhite
			}
		}
		screen.DrawTextColored(w.rect.X, w.rect.Y, w.text, color)
	}

	if g.dwell > 0 && !g.gameOver {
		g.renderDwellMeter(screen)
	}
}

// renderDwellMeter draws the collect progress under the box.
func (g *Game) renderDwellMeter(screen *core.Screen) {
	const width = 12
	filled := g.dwell * width / g.cfg.DwellTicks
	y := boxTop + g.boxH
	if y >= g.screenH-2 {
		y = g.screenH - 3
	}
	screen.DrawTextColored(3, y, "Collecting ", core.ColorYellow)
	for i := 0; i < width; i++ {
		r := '░'
		if i < filled {
			r = '█'
		}
		screen.SetCell(14+i, y, r, core.ColorBrightYellow)
	}
}

func (g *Game) renderToasts(screen *core.Screen) {
	y := g.screenH - 3
	for i := len(g.toasts) - 1; i >= 0 && y > hudHeight; i-- {
		t := g.toasts[i]
		color := core.ColorBrightYellow
		if t.ticks < toastFadeTicks {
			color = core.ColorGray
		}
		screen.DrawTextColored(g.screenW-len(t.text)-2, y, t.text, color)
		y--
	}
}

func (g *Game) renderStatus(screen *core.Screen) {
	y := g.screenH - 1
	if g.lastFound != "" {
		screen.DrawTextColored(1, y, g.lastFound, core.ColorBrightGreen)
		return
	}
	screen.DrawTextColored(1, y, "Dwell on the highlighted words to collect them", core.ColorGray)
}

// renderOverlay draws a centered message box over the playfield.
func (g *Game) renderOverlay(screen *core.Screen, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	boxW := maxLen + 6
	boxH := len(lines)*2 + 1
	r := core.NewRect((g.screenW-boxW)/2, (g.screenH-boxH)/2, boxW, boxH)
	screen.DrawRect(r, ' ', core.ColorDefault)
	screen.DrawBox(r, core.ColorBrightCyan)
	for i, line := range lines {
		color := core.ColorBrightWhite
		if i > 0 {
			color = core.ColorGray
		}
		screen.DrawTextCenteredColored(r.Y+1+i*2, line, color)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
