package battle

import (
	"math/rand"

	"github.com/lexibolt/lexibolt/internal/config"
	platformcore "github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle/core"
	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/vocab"
)

const promptOptions = 3

// promptHeight is the bottom panel: question, three options, status line.
const promptHeight = 5

// Player and enemy anchor points in arena coordinates. Bolts always travel
// between these two.
var (
	playerAnchor = core.Vec{X: 150, Y: 280}
	enemyAnchor  = core.Vec{X: 810, Y: 280}
)

// wordPrompt is one gate question: a meaning to match against three words.
type wordPrompt struct {
	meaning string
	hint    string
	words   []string
	correct int
	level   int
}

// Game implements the Word Battle games on top of a battle Session. The
// classic and storm variants share all logic and differ only in theme.
type Game struct {
	id    string
	title string
	theme Theme

	rng  *rand.Rand
	deck vocab.Deck
	cfg  config.BattleConfig
	diff *config.DifficultyManager

	session *Session
	frame   *core.Frame

	// Screen dimensions
	screenW int
	screenH int

	tickRate int

	// Status
	tick     uint64
	score    int
	gameOver bool
	won      bool
	paused   bool
	tooSmall bool

	// Word gate state
	prompt   wordPrompt
	answered int
	correct  int
	streak   int

	feedbackText  string
	feedbackGood  bool
	feedbackTicks int

	// Layout
	hudHeight int
	arenaX    int
	arenaY    int
	arenaW    int
	arenaH    int
}

// Package-level variables for configuration
var (
	selectedDeckID     string
	selectedPreset     string
	selectedConfigPath string
)

// SetDeck selects the vocabulary deck for the next battle. Empty means the
// starter deck.
func SetDeck(id string) {
	selectedDeckID = id
}

// SelectedDeck returns the currently selected deck ID.
func SelectedDeck() string {
	return selectedDeckID
}

// SetDifficulty selects the difficulty preset for the next battle.
func SetDifficulty(preset string) {
	selectedPreset = preset
}

// SelectedDifficulty returns the currently selected difficulty preset.
func SelectedDifficulty() string {
	return selectedPreset
}

// SetConfigPath sets a custom battle config file path.
func SetConfigPath(path string) {
	selectedConfigPath = path
}

func init() {
	registry.Register("battle", func() registry.Game {
		return New()
	})
	registry.Register("battle_storm", func() registry.Game {
		return NewStorm()
	})
}

// New creates the classic Word Battle game.
func New() *Game {
	return &Game{
		id:        "battle",
		title:     "Word Battle",
		theme:     ClassicTheme(),
		hudHeight: 4,
	}
}

// NewStorm creates the Storm Battle variant: heavier violet bolts.
func NewStorm() *Game {
	return &Game{
		id:        "battle_storm",
		title:     "Storm Battle",
		theme:     StormTheme(),
		hudHeight: 4,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Reset initializes or restarts the battle.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	if g.session != nil {
		g.session.Teardown()
	}

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.tick = 0
	g.score = 0
	g.answered = 0
	g.correct = 0
	g.streak = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.feedbackTicks = 0

	bc, err := config.LoadBattle(selectedConfigPath)
	if err != nil {
		bc = config.DefaultBattleConfig()
	}
	if selectedPreset != "" {
		config.ApplyBattlePreset(&bc, config.DifficultyPreset(selectedPreset))
	}
	g.cfg = bc
	g.diff = config.NewDifficultyManager(bc.Difficulty)

	deck, err := g.loadDeck()
	if err != nil {
		g.session = nil
		g.gameOver = true
		return
	}
	g.deck = deck

	g.calculateLayout()

	moves := make([]Move, 0, len(bc.Moves))
	for _, m := range bc.Moves {
		moves = append(moves, Move{Name: m.Name, Hits: m.Hits, HitDamage: m.HitDamage})
	}
	pools := make([]Pool, 0, len(bc.Enemy.Pools))
	for _, p := range bc.Enemy.Pools {
		pools = append(pools, Pool{
			Name:    p.Name,
			Damage:  p.Damage,
			Charges: g.diff.PoolCharges(p.Charges, 0, 0),
		})
	}

	g.session = NewSession(SessionParams{
		TickRate:        g.tickRate,
		Rand:            core.NewRand(uint64(cfg.Seed)),
		Anchors:         g.anchorPoints,
		Theme:           g.theme,
		Moves:           moves,
		Pools:           pools,
		FallbackDamage:  bc.Enemy.FallbackDamage,
		StaggerMs:       bc.HitStaggerMs,
		CounterDelayMs:  g.diff.CounterDelayMs(bc.Enemy.CounterDelayMs, 0, 0),
		CounterWindupMs: bc.Enemy.CounterWindupMs,
	})
	g.session.SetCounterScale(g.diff.CounterDamage(1.0, 0, 0))

	g.nextPrompt()
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

// calculateLayout places the HUD, health bars, bolt arena, and prompt panel.
func (g *Game) calculateLayout() {
	g.arenaX = 1
	g.arenaY = g.hudHeight + 2 // health bar row + pools row
	g.arenaW = g.screenW - 2
	g.arenaH = g.screenH - g.arenaY - promptHeight - 1 // separator above panel

	if g.arenaW < 24 || g.arenaH < 5 {
		g.tooSmall = true
		return
	}
	g.tooSmall = false

	if g.frame == nil {
		g.frame = core.NewFrame(g.arenaW, g.arenaH)
	} else {
		g.frame.Resize(g.arenaW, g.arenaH)
	}
}

// anchorPoints reports the bolt anchors. Looked up fresh for every hit, so
// a battle on a shrunken screen simply stops firing.
func (g *Game) anchorPoints() (core.Vec, core.Vec, bool) {
	if g.tooSmall || g.frame == nil {
		return core.Vec{}, core.Vec{}, false
	}
	return playerAnchor, enemyAnchor, true
}

// nextPrompt draws a fresh word gate question from the deck.
func (g *Game) nextPrompt() {
	if !g.cfg.PromptGate {
		return
	}
	entry, ok := g.deck.PickEntry(g.rng)
	if !ok {
		return
	}
	decoys := g.deck.PickDecoys(g.rng, entry.Word, promptOptions-1)

	words := make([]string, 0, promptOptions)
	words = append(words, entry.Word)
	for _, d := range decoys {
		words = append(words, d.Word)
	}
	g.rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	correct := 0
	for i, w := range words {
		if w == entry.Word {
			correct = i
			break
		}
	}

	g.prompt = wordPrompt{
		meaning: entry.Meaning,
		hint:    entry.Hint,
		words:   words,
		correct: correct,
		level:   entry.Level,
	}
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	// Handle restart
	if input.Has(platformcore.ActionRestart) && g.gameOver {
		g.Reset(platformcore.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return platformcore.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}

	// Don't process if game over, paused, or too small
	if g.gameOver || g.paused || g.tooSmall || g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if g.feedbackTicks > 0 {
		g.feedbackTicks--
	}

	// Difficulty ramps with score; late counters hit harder and come sooner.
	g.session.SetCounterScale(g.diff.CounterDamage(1.0, g.score, int(g.tick)))
	g.session.SetCounterDelayMs(g.diff.CounterDelayMs(g.cfg.Enemy.CounterDelayMs, g.score, int(g.tick)))

	g.session.Step()

	if choice, ok := chosenOption(input); ok {
		g.answer(choice)
	}

	switch g.session.Phase() {
	case PhaseWon:
		g.won = true
		g.gameOver = true
		g.score += int(g.session.PlayerHP())
	case PhaseLost:
		g.gameOver = true
	}

	return platformcore.StepResult{State: g.State()}
}

// chosenOption maps option actions to a 0-based choice. Option1 wins when
// several arrive in the same frame.
func chosenOption(input platformcore.InputFrame) (int, bool) {
	options := []platformcore.Action{
		platformcore.ActionOption1,
		platformcore.ActionOption2,
		platformcore.ActionOption3,
	}
	for i, a := range options {
		if input.Has(a) {
			return i, true
		}
	}
	return 0, false
}

// answer resolves an option press: through the word gate when it is
// enabled, directly into a move otherwise.
func (g *Game) answer(choice int) {
	if !g.cfg.PromptGate {
		if choice < len(g.session.Moves()) {
			g.session.Attack(choice)
		}
		return
	}

	if choice >= len(g.prompt.words) {
		return
	}
	g.answered++

	if choice == g.prompt.correct {
		g.correct++
		g.streak++
		mi := g.moveForLevel(g.prompt.level)
		if g.session.Attack(mi) {
			g.score += 10
			g.setFeedback(g.session.Moves()[mi].Name+"!", true)
		}
	} else {
		g.streak = 0
		g.session.Fizzle()
		g.setFeedback("Miss! Counter incoming", false)
	}

	g.nextPrompt()
}

// moveForLevel maps a word level to a move slot: harder words fire bigger
// moves. Clamped so a three-move set covers any deck.
func (g *Game) moveForLevel(level int) int {
	idx := level - 1
	n := len(g.session.Moves())
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (g *Game) setFeedback(text string, good bool) {
	g.feedbackText = text
	g.feedbackGood = good
	g.feedbackTicks = 90
}

// Render draws the battle to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	if g.session == nil {
		g.renderOverlay(dst, "No deck available", "Check ~/.lexibolt/decks")
		return
	}

	g.renderBars(dst)
	g.renderArena(dst)
	g.renderPrompt(dst)

	switch {
	case g.won:
		g.renderOverlay(dst, "VICTORY", "Press R for a rematch")
	case g.gameOver:
		g.renderOverlay(dst, "DEFEAT", "Press R to retry")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " " + g.title
	if g.session != nil {
		hud += " | Score: " + itoa(g.score) +
			" | Words: " + itoa(g.correct) + "/" + itoa(g.answered) +
			" | Deck: " + g.deck.Title
	}
	dst.DrawTextColored(0, 0, hud, g.theme.Accent)

	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)

	controls := " 1-3: Answer | P: Pause | R: Restart | Q: Quit"
	if !g.cfg.PromptGate {
		controls = " 1-3: Attack | P: Pause | R: Restart | Q: Quit"
	}
	dst.DrawTextColored(0, 2, controls, platformcore.ColorGray)

	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

// renderBars draws the health bars and the enemy pool charges.
func (g *Game) renderBars(dst *platformcore.Screen) {
	y := g.hudHeight
	barW := (g.screenW - 24) / 2
	if barW < 8 {
		barW = 8
	}

	// Player side, left.
	dst.DrawTextColored(1, y, "YOU", g.theme.Accent)
	pFrac := g.session.PlayerHP() / MaxHealth
	g.renderBar(dst, 5, y, barW, pFrac, healthColor(pFrac))
	dst.DrawTextColored(6+barW, y, itoa(int(g.session.PlayerHP())), platformcore.ColorGray)

	// Enemy side, right.
	labelX := g.screenW - 4
	dst.DrawTextColored(labelX, y, "FOE", platformcore.ColorRed)
	eFrac := g.session.EnemyHP() / MaxHealth
	eBarX := labelX - 1 - barW
	g.renderBar(dst, eBarX, y, barW, eFrac, healthColor(eFrac))
	eHP := itoa(int(g.session.EnemyHP()))
	dst.DrawTextColored(eBarX-1-len(eHP), y, eHP, platformcore.ColorGray)

	// Streak on the left of the pools row, pools on the right.
	if g.streak > 1 {
		dst.DrawTextColored(1, y+1, "Streak x"+itoa(g.streak), g.theme.Accent)
	}
	g.renderPools(dst, y+1)
}

// renderBar draws one horizontal gauge.
func (g *Game) renderBar(dst *platformcore.Screen, x, y, width int, frac float64, c platformcore.Color) {
	filled := int(frac*float64(width) + 0.5)
	for i := 0; i < width; i++ {
		if i < filled {
			dst.SetCell(x+i, y, '█', c)
		} else {
			dst.SetCell(x+i, y, '░', platformcore.ColorGray)
		}
	}
}

func healthColor(frac float64) platformcore.Color {
	switch {
	case frac > 0.5:
		return platformcore.ColorGreen
	case frac > 0.25:
		return platformcore.ColorYellow
	default:
		return platformcore.ColorRed
	}
}

// renderPools draws the enemy resource pools right-aligned: name and
// remaining charges, dimmed once a pool is spent.
func (g *Game) renderPools(dst *platformcore.Screen, y int) {
	x := g.screenW - 1
	pools := g.session.Pools()
	for i := len(pools) - 1; i >= 0; i-- {
		p := pools[i]
		text := p.Name + ":" + itoa(p.Charges)
		x -= len(text)
		color := g.theme.PoolAccent(p.Name)
		if p.Charges == 0 {
			color = platformcore.ColorGray
		}
		dst.DrawTextColored(x, y, text, color)
		x -= 2
	}
}

// renderArena composites the bolt stage into the cell frame and blits it,
// with the combatant markers underneath.
func (g *Game) renderArena(dst *platformcore.Screen) {
	px, py := g.arenaCell(playerAnchor)
	ex, ey := g.arenaCell(enemyAnchor)
	dst.SetCell(g.arenaX+px, g.arenaY+py, '◆', g.theme.Accent)
	dst.SetCell(g.arenaX+ex, g.arenaY+ey, '◆', platformcore.ColorRed)

	g.frame.Composite(g.session.Stage())
	for cy := 0; cy < g.frame.Height(); cy++ {
		for cx := 0; cx < g.frame.Width(); cx++ {
			cell := g.frame.Cell(cx, cy)
			if cell.Level == core.LevelBlank {
				continue
			}
			color := g.theme.CellColor(cell.Level, g.frame.Pixel(cx, cy))
			dst.SetCell(g.arenaX+cx, g.arenaY+cy, cell.Rune, color)
		}
	}
}

// arenaCell maps an arena-space point to a frame cell.
func (g *Game) arenaCell(v core.Vec) (int, int) {
	x := int(v.X / core.ArenaW * float64(g.arenaW))
	y := int(v.Y / core.ArenaH * float64(g.arenaH))
	return platformcore.Clamp(x, 0, g.arenaW-1), platformcore.Clamp(y, 0, g.arenaH-1)
}

// renderPrompt draws the bottom panel: the word gate question, or the move
// list when the gate is off.
func (g *Game) renderPrompt(dst *platformcore.Screen) {
	sepY := g.screenH - promptHeight - 1
	dst.DrawHLine(0, sepY, dst.Width(), '─', platformcore.ColorGray)

	if !g.cfg.PromptGate {
		dst.DrawTextColored(1, sepY+1, "Pick your attack:", platformcore.ColorBrightWhite)
		for i, m := range g.session.Moves() {
			if i >= promptOptions {
				break
			}
			line := "[" + itoa(i+1) + "] " + m.Name + "  " + itoa(m.Hits) + "x" + itoa(int(m.HitDamage+0.5))
			dst.DrawTextColored(1, sepY+2+i, line, platformcore.ColorWhite)
		}
		return
	}

	dst.DrawTextColored(1, sepY+1, "Which word means: "+g.prompt.meaning+"?", platformcore.ColorBrightWhite)
	for i, w := range g.prompt.words {
		dst.DrawTextColored(1, sepY+2+i, "["+itoa(i+1)+"] "+w, platformcore.ColorWhite)
	}

	statusY := g.screenH - 1
	if g.feedbackTicks > 0 {
		color := platformcore.ColorBrightGreen
		if !g.feedbackGood {
			color = platformcore.ColorBrightRed
		}
		dst.DrawTextColored(1, statusY, g.feedbackText, color)
	} else if g.prompt.hint != "" {
		dst.DrawTextColored(1, statusY, "Hint: "+g.prompt.hint, platformcore.ColorGray)
	}
}

// renderOverlay draws a centered boxed message.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := platformcore.Max(len(line1), len(line2)) + 6
	boxH := 5
	r := platformcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(r, ' ', platformcore.ColorDefault)
	dst.DrawBox(r, g.theme.Accent)
	dst.DrawTextCenteredColored(r.Y+1, line1, platformcore.ColorBrightWhite)
	dst.DrawTextCenteredColored(r.Y+3, line2, platformcore.ColorGray)
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// BattleOutcome summarizes a finished battle for persistence.
type BattleOutcome struct {
	Won          bool
	PlayerHP     float64
	EnemyHP      float64
	Rounds       int
	AccuracyPct  float64
	DurationSecs int
}

// Outcome reports the result of a finished battle. The second return is
// false while the battle is still running or never started.
func (g *Game) Outcome() (BattleOutcome, bool) {
	if !g.gameOver || g.session == nil {
		return BattleOutcome{}, false
	}
	acc := 0.0
	if g.answered > 0 {
		acc = 100 * float64(g.correct) / float64(g.answered)
	}
	return BattleOutcome{
		Won:          g.won,
		PlayerHP:     g.session.PlayerHP(),
		EnemyHP:      g.session.EnemyHP(),
		Rounds:       g.answered,
		AccuracyPct:  acc,
		DurationSecs: int(g.tick) / g.tickRate,
	}, true
}

// itoa is a simple int to string converter.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
