// Package quiz implements the vocabulary quiz: a fixed-length run of
// multiple-choice questions drawn from the active deck.
package quiz

import (
	"math/rand"

	"github.com/lexibolt/lexibolt/internal/config"
	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/vocab"
)

const (
	hudHeight   = 4
	questionRow = 5
	optionsRow  = 7

	// feedbackFlashTicks holds the chosen line highlighted before the next
	// question loads.
	feedbackFlashTicks = 45

	toastLifetime  = 120
	toastFadeTicks = 30

	maxStreakMultiplier = 3
)

// question is one prepared round: a meaning and its shuffled word options.
type question struct {
	meaning string
	hint    string
	words   []string
	correct int
}

// toast is a transient celebration line.
type toast struct {
	text  string
	ticks int
}

// Game implements the quiz as a registry game.
type Game struct {
	rng  *rand.Rand
	deck vocab.Deck
	cfg  config.QuizConfig

	// Screen dimensions
	screenW int
	screenH int

	tickRate int

	// Status
	tick     uint64
	score    int
	gameOver bool
	paused   bool
	tooSmall bool
	noDeck   bool

	// Run state
	questions []question
	index     int
	answered  int
	correct   int
	streak    int

	chosen        int // option flashed during feedback, -1 for none
	feedbackText  string
	feedbackGood  bool
	feedbackTicks int

	// Per-question timer, in ticks. Zero disables it.
	timerTicks int
	timeLeft   int

	toasts []toast
}

// Package-level variables for configuration
var (
	selectedDeckID     string
	selectedLength     int
	selectedPreset     string
	selectedConfigPath string
)

// SetDeck selects the vocabulary deck for the next quiz. Empty means the
// starter deck.
func SetDeck(id string) {
	selectedDeckID = id
}

// SelectedDeck returns the currently selected deck ID.
func SelectedDeck() string {
	return selectedDeckID
}

// SetLength overrides the configured question count. Zero restores the
// config value.
func SetLength(n int) {
	selectedLength = n
}

// SetDifficulty selects the difficulty preset for the next quiz.
func SetDifficulty(preset string) {
	selectedPreset = preset
}

// SetConfigPath sets a custom quiz config file path.
func SetConfigPath(path string) {
	selectedConfigPath = path
}

func init() {
	registry.Register("quiz", func() registry.Game {
		return New()
	})
}

// New creates the quiz game.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "quiz"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Vocab Quiz"
}

// Reset starts a fresh run: loads config and deck, builds the question list.
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
	g.index = 0
	g.answered = 0
	g.correct = 0
	g.streak = 0
	g.chosen = -1
	g.feedbackTicks = 0
	g.gameOver = false
	g.paused = false
	g.noDeck = false
	g.toasts = nil

	g.tooSmall = g.screenW < 40 || g.screenH < 14

	qc, err := config.LoadQuiz(selectedConfigPath)
	if err != nil {
		qc = config.DefaultQuizConfig()
	}
	if selectedPreset != "" {
		config.ApplyQuizPreset(&qc, config.DifficultyPreset(selectedPreset))
	}
	if selectedLength > 0 {
		qc.Questions = selectedLength
	}
	g.cfg = qc

	deck, err := g.loadDeck()
	if err != nil {
		g.noDeck = true
		g.gameOver = true
		g.questions = nil
		return
	}
	g.deck = deck

	g.buildQuestions()
	g.timerTicks = qc.QuestionSeconds * g.tickRate
	g.timeLeft = g.timerTicks
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

// buildQuestions prepares the whole run up front from a seeded shuffle of
// the deck.
func (g *Game) buildQuestions() {
	opts := g.cfg.Options
	if opts < 2 {
		opts = 3
	}
	if opts > 4 {
		opts = 4 // option keys 1..4 bound the answer count
	}

	entries := g.deck.Shuffled(g.rng)
	count := g.cfg.Questions
	if count <= 0 {
		count = 10
	}
	if count > len(entries) {
		count = len(entries)
	}

	g.questions = make([]question, 0, count)
	for _, entry := range entries[:count] {
		decoys := g.deck.PickDecoys(g.rng, entry.Word, opts-1)

		words := make([]string, 0, opts)
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

		g.questions = append(g.questions, question{
			meaning: entry.Meaning,
			hint:    entry.Hint,
			words:   words,
			correct: correct,
		})
	}
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	// Handle restart
	if input.Has(core.ActionRestart) && g.gameOver {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	// Don't process if game over, paused, or too small
	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.tickToasts()

	// During the feedback flash the quiz ignores input; when the flash ends
	// the next question loads.
	if g.feedbackTicks > 0 {
		g.feedbackTicks--
		if g.feedbackTicks == 0 {
			g.advance()
		}
		return core.StepResult{State: g.State()}
	}

	if g.timerTicks > 0 {
		g.timeLeft--
		if g.timeLeft <= 0 {
			g.timeExpired()
			return core.StepResult{State: g.State()}
		}
	}

	if choice, ok := chosenOption(input, len(g.questions[g.index].words)); ok {
		g.answer(choice)
	}

	return core.StepResult{State: g.State()}
}

// chosenOption maps option actions to a 0-based choice below n. Option1
// wins when several arrive in the same frame.
func chosenOption(input core.InputFrame, n int) (int, bool) {
	options := []core.Action{
		core.ActionOption1,
		core.ActionOption2,
		core.ActionOption3,
		core.ActionOption4,
	}
	for i, a := range options {
		if i >= n {
			break
		}
		if input.Has(a) {
			return i, true
		}
	}
	return 0, false
}

// answer resolves an option press and starts the feedback flash.
func (g *Game) answer(choice int) {
	q := g.questions[g.index]
	if choice >= len(q.words) {
		return
	}

	g.answered++
	g.chosen = choice

	if choice == q.correct {
		g.correct++
		g.streak++
		mult := core.Min(g.streak, maxStreakMultiplier)
		gain := 10 * mult
		g.score += gain
		g.feedbackGood = true
		g.feedbackText = "+" + itoa(gain)
		if mult > 1 {
			g.addToast("Streak x" + itoa(mult) + "!")
		}
	} else {
		g.streak = 0
		g.feedbackGood = false
		g.feedbackText = "It was " + q.words[q.correct]
	}

	g.feedbackTicks = feedbackFlashTicks
}

// timeExpired counts an unanswered question as wrong.
func (g *Game) timeExpired() {
	q := g.questions[g.index]
	g.answered++
	g.streak = 0
	g.chosen = -1
	g.feedbackGood = false
	g.feedbackText = "Time's up! It was " + q.words[q.correct]
	g.feedbackTicks = feedbackFlashTicks
}

// advance moves to the next question, or ends the run after the last one.
func (g *Game) advance() {
	g.index++
	g.chosen = -1
	if g.index >= len(g.questions) {
		g.gameOver = true
		return
	}
	g.timeLeft = g.timerTicks
}

func (g *Game) addToast(text string) {
	g.toasts = append(g.toasts, toast{text: text, ticks: toastLifetime})
}

func (g *Game) tickToasts() {
	alive := g.toasts[:0]
	for _, t := range g.toasts {
		t.ticks--
		if t.ticks > 0 {
			alive = append(alive, t)
		}
	}
	g.toasts = alive
}

// accuracyPct returns answered accuracy as a rounded percentage.
func (g *Game) accuracyPct() int {
	if g.answered == 0 {
		return 0
	}
	return int(float64(g.correct)/float64(g.answered)*100 + 0.5)
}

// Render draws the quiz to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	if g.noDeck {
		g.renderOverlay(dst, "No deck available", "Check ~/.lexibolt/decks")
		return
	}

	if g.gameOver {
		g.renderOverlay(dst,
			"Quiz Complete",
			"Score "+itoa(g.score)+"  Accuracy "+itoa(g.accuracyPct())+"%",
			"Press R to play again")
		return
	}

	g.renderQuestion(dst)
	g.renderToasts(dst)
	g.renderStatus(dst)

	if g.paused {
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := " Vocab Quiz | Score: " + itoa(g.score) +
		" | Question: " + itoa(core.Min(g.index+1, len(g.questions))) + "/" + itoa(len(g.questions))
	if g.streak > 1 {
		hud += " | Streak x" + itoa(g.streak)
	}
	dst.DrawTextColored(0, 0, hud, core.ColorBrightGreen)

	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)
	dst.DrawTextColored(0, 2, " 1-"+itoa(g.optionCount())+": Answer | P: Pause | R: Restart | Q: Quit", core.ColorGray)
	dst.DrawHLine(0, 3, dst.Width(), '─', core.ColorGray)
}

func (g *Game) optionCount() int {
	if g.index < len(g.questions) {
		return len(g.questions[g.index].words)
	}
	return 3
}

// renderQuestion draws the meaning, the options, and the timer.
func (g *Game) renderQuestion(dst *core.Screen) {
	if g.index >= len(g.questions) {
		return
	}
	q := g.questions[g.index]

	dst.DrawTextColored(1, questionRow, "Which word means: "+q.meaning+"?", core.ColorBrightWhite)

	if g.timerTicks > 0 {
		secs := (g.timeLeft + g.tickRate - 1) / g.tickRate
		text := "Time: " + itoa(secs) + "s"
		color := core.ColorYellow
		if secs <= 3 {
			color = core.ColorBrightRed
		}
		dst.DrawTextColored(g.screenW-1-len(text), questionRow, text, color)
	}

	for i, w := range q.words {
		color := core.ColorWhite
		if g.feedbackTicks > 0 && i == g.chosen {
			color = core.ColorBrightRed
			if g.feedbackGood {
				color = core.ColorBrightGreen
			}
		}
		dst.DrawTextColored(1, optionsRow+i, "["+itoa(i+1)+"] "+w, color)
	}
}

// renderToasts stacks toasts bottom-up on the right edge, dimming them as
// they near expiry.
func (g *Game) renderToasts(dst *core.Screen) {
	y := g.screenH - 3
	for i := len(g.toasts) - 1; i >= 0 && y > hudHeight; i-- {
		t := g.toasts[i]
		color := core.ColorBrightYellow
		if t.ticks < toastFadeTicks {
			color = core.ColorGray
		}
		dst.DrawTextColored(g.screenW-1-len(t.text), y, t.text, color)
		y--
	}
}

// renderStatus draws the bottom line: feedback while it flashes, the hint
// otherwise.
func (g *Game) renderStatus(dst *core.Screen) {
	y := g.screenH - 1
	if g.feedbackTicks > 0 {
		color := core.ColorBrightGreen
		if !g.feedbackGood {
			color = core.ColorBrightRed
		}
		dst.DrawTextColored(1, y, g.feedbackText, color)
		return
	}
	if g.index < len(g.questions) && g.questions[g.index].hint != "" {
		dst.DrawTextColored(1, y, "Hint: "+g.questions[g.index].hint, core.ColorGray)
	}
}

// renderOverlay draws a centered boxed message.
func (g *Game) renderOverlay(dst *core.Screen, lines ...string) {
	boxW := 0
	for _, line := range lines {
		boxW = core.Max(boxW, len(line))
	}
	boxW += 6
	boxH := len(lines)*2 + 1
	r := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorBrightGreen)
	for i, line := range lines {
		color := core.ColorGray
		if i == 0 {
			color = core.ColorBrightWhite
		}
		dst.DrawTextCenteredColored(r.Y+1+i*2, line, color)
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
