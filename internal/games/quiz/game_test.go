package quiz

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/registry"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func resetSelectors() {
	SetDeck("")
	SetLength(0)
	SetDifficulty("")
	SetConfigPath("")
}

func optionAction(i int) core.Action {
	switch i {
	case 0:
		return core.ActionOption1
	case 1:
		return core.ActionOption2
	case 2:
		return core.ActionOption3
	default:
		return core.ActionOption4
	}
}

func pressOption(g *Game, i int) {
	in := core.NewInputFrame()
	in.Set(optionAction(i))
	g.Step(in)
}

func idle(g *Game, ticks int) {
	for i := 0; i < ticks; i++ {
		g.Step(core.NewInputFrame())
	}
}

// answerCurrent answers the current question correctly (or incorrectly)
// and waits out the feedback flash.
func answerCurrent(g *Game, correctly bool) {
	q := g.questions[g.index]
	choice := q.correct
	if !correctly {
		choice = (q.correct + 1) % len(q.words)
	}
	pressOption(g, choice)
	idle(g, feedbackFlashTicks)
}

func TestQuizRegistration(t *testing.T) {
	if !registry.Exists("quiz") {
		t.Fatal("quiz is not registered")
	}
	game, err := registry.Create("quiz")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if game.Title() != "Vocab Quiz" {
		t.Errorf("unexpected title %q", game.Title())
	}
}

func TestQuizResetBuildsRun(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	if g.gameOver {
		t.Fatal("fresh quiz is already over")
	}
	if len(g.questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(g.questions))
	}
	if g.timerTicks != 0 {
		t.Fatalf("expected no timer by default, got %d ticks", g.timerTicks)
	}

	for qi, q := range g.questions {
		if len(q.words) != 3 {
			t.Fatalf("question %d has %d options", qi, len(q.words))
		}
		if q.correct < 0 || q.correct >= len(q.words) {
			t.Fatalf("question %d has correct index %d", qi, q.correct)
		}
		seen := map[string]bool{}
		for _, w := range q.words {
			if seen[w] {
				t.Fatalf("question %d repeats option %q", qi, w)
			}
			seen[w] = true
		}
		entry, ok := g.deck.EntryByWord(q.words[q.correct])
		if !ok {
			t.Fatalf("question %d correct word %q is not in the deck", qi, q.words[q.correct])
		}
		if entry.Meaning != q.meaning {
			t.Fatalf("question %d meaning mismatch: %q vs %q", qi, entry.Meaning, q.meaning)
		}
	}
}

func TestQuizCorrectAnswer(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	q := g.questions[0]
	pressOption(g, q.correct)

	if g.score != 10 {
		t.Errorf("expected score 10, got %d", g.score)
	}
	if g.correct != 1 || g.answered != 1 {
		t.Errorf("expected tallies 1/1, got %d/%d", g.correct, g.answered)
	}
	if g.streak != 1 {
		t.Errorf("expected streak 1, got %d", g.streak)
	}
	if !g.feedbackGood || g.feedbackTicks != feedbackFlashTicks {
		t.Errorf("expected good feedback for %d ticks, got %v/%d", feedbackFlashTicks, g.feedbackGood, g.feedbackTicks)
	}
	if g.chosen != q.correct {
		t.Errorf("expected chosen %d, got %d", q.correct, g.chosen)
	}
	if g.index != 0 {
		t.Errorf("question advanced during the flash, index %d", g.index)
	}
}

func TestQuizFeedbackBlocksInput(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	pressOption(g, g.questions[0].correct)
	pressOption(g, 0)
	pressOption(g, 1)

	if g.answered != 1 {
		t.Errorf("answers accepted during feedback, tally %d", g.answered)
	}

	idle(g, feedbackFlashTicks)
	if g.index != 1 {
		t.Errorf("expected next question after the flash, index %d", g.index)
	}
	if g.feedbackTicks != 0 {
		t.Errorf("feedback still active: %d", g.feedbackTicks)
	}
}

func TestQuizWrongAnswerResetsStreak(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	answerCurrent(g, true)
	if g.streak != 1 || g.score != 10 {
		t.Fatalf("setup failed: streak %d score %d", g.streak, g.score)
	}

	q := g.questions[g.index]
	pressOption(g, (q.correct+1)%len(q.words))

	if g.streak != 0 {
		t.Errorf("expected streak reset, got %d", g.streak)
	}
	if g.score != 10 {
		t.Errorf("wrong answer changed score to %d", g.score)
	}
	if g.feedbackGood {
		t.Error("expected bad feedback")
	}
	if !strings.Contains(g.feedbackText, q.words[q.correct]) {
		t.Errorf("feedback %q does not name the correct word %q", g.feedbackText, q.words[q.correct])
	}
}

func TestQuizStreakMultiplierCaps(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	for i := 0; i < 4; i++ {
		answerCurrent(g, true)
	}

	// 10, then x2, then x3 twice: the multiplier stops at 3.
	if g.score != 10+20+30+30 {
		t.Errorf("expected score 90, got %d", g.score)
	}
	if g.streak != 4 {
		t.Errorf("expected streak 4, got %d", g.streak)
	}
}

func TestQuizToastLifecycle(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	answerCurrent(g, true)
	pressOption(g, g.questions[g.index].correct) // streak 2

	if len(g.toasts) != 1 {
		t.Fatalf("expected 1 toast after a streak, got %d", len(g.toasts))
	}
	if g.toasts[0].text != "Streak x2!" {
		t.Errorf("unexpected toast %q", g.toasts[0].text)
	}

	idle(g, toastLifetime)
	if len(g.toasts) != 0 {
		t.Errorf("toast survived its lifetime, %d left", len(g.toasts))
	}
}

func TestQuizTimerExpiryCountsWrong(t *testing.T) {
	defer resetSelectors()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "quiz.yaml")
	yaml := "questions: 3\noptions: 3\nquestion_seconds: 1\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigPath(cfgPath)

	g := New()
	g.Reset(testConfig(5))

	if g.timerTicks != 60 {
		t.Fatalf("expected 60 timer ticks, got %d", g.timerTicks)
	}

	idle(g, 59)
	if g.answered != 0 {
		t.Fatalf("question expired early, tally %d", g.answered)
	}

	idle(g, 1)
	if g.answered != 1 || g.correct != 0 {
		t.Errorf("expected expiry to count as wrong, tallies %d/%d", g.correct, g.answered)
	}
	if g.streak != 0 || g.feedbackGood {
		t.Error("expected bad feedback after expiry")
	}
	if !strings.HasPrefix(g.feedbackText, "Time's up!") {
		t.Errorf("unexpected feedback %q", g.feedbackText)
	}

	// The flash still runs before the next question loads.
	idle(g, feedbackFlashTicks)
	if g.index != 1 {
		t.Errorf("expected next question, index %d", g.index)
	}
	if g.timeLeft != g.timerTicks {
		t.Errorf("timer not rewound: %d", g.timeLeft)
	}
}

func TestQuizFourOptions(t *testing.T) {
	defer resetSelectors()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "quiz.yaml")
	if err := os.WriteFile(cfgPath, []byte("questions: 2\noptions: 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigPath(cfgPath)

	g := New()
	g.Reset(testConfig(5))

	if len(g.questions[0].words) != 4 {
		t.Fatalf("expected 4 options, got %d", len(g.questions[0].words))
	}

	pressOption(g, 3)
	if g.answered != 1 {
		t.Errorf("option 4 not accepted, tally %d", g.answered)
	}
}

func TestQuizEndsAfterLastQuestion(t *testing.T) {
	defer resetSelectors()
	SetLength(2)

	g := New()
	g.Reset(testConfig(5))

	if len(g.questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(g.questions))
	}

	answerCurrent(g, true)
	answerCurrent(g, true)

	if !g.gameOver {
		t.Fatal("expected the quiz to end")
	}
	if g.score != 30 {
		t.Errorf("expected score 30, got %d", g.score)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Quiz Complete") {
		t.Error("end screen missing")
	}
	if !strings.Contains(out, "Accuracy 100%") {
		t.Error("accuracy missing from end screen")
	}
}

func TestQuizRestart(t *testing.T) {
	defer resetSelectors()
	SetLength(2)

	g := New()
	g.Reset(testConfig(5))
	answerCurrent(g, true)
	answerCurrent(g, false)
	if !g.gameOver {
		t.Fatal("expected the quiz to end")
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	g.Step(in)

	if g.gameOver {
		t.Error("restart did not clear the outcome")
	}
	if g.score != 0 || g.index != 0 || g.answered != 0 {
		t.Errorf("restart did not reset the run: score %d index %d answered %d", g.score, g.index, g.answered)
	}
	if len(g.questions) != 2 {
		t.Errorf("restart lost the configured length: %d", len(g.questions))
	}
}

func TestQuizPauseFreezes(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	g.Step(in)

	pressOption(g, g.questions[0].correct)
	if g.answered != 0 {
		t.Errorf("answer accepted while paused, tally %d", g.answered)
	}

	in = core.NewInputFrame()
	in.Set(core.ActionPause)
	g.Step(in)

	pressOption(g, g.questions[0].correct)
	if g.answered != 1 {
		t.Errorf("answer not accepted after unpause, tally %d", g.answered)
	}
}

func TestQuizRenderBasics(t *testing.T) {
	defer resetSelectors()
	g := New()
	g.Reset(testConfig(5))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Vocab Quiz") {
		t.Error("HUD title missing")
	}
	out := screen.String()
	if !strings.Contains(out, "Which word means") {
		t.Error("question missing")
	}
	if !strings.Contains(out, "[1]") {
		t.Error("options missing")
	}
}

func TestQuizDeterminism(t *testing.T) {
	defer resetSelectors()

	g1 := New()
	g1.Reset(testConfig(12345))
	g2 := New()
	g2.Reset(testConfig(12345))

	if !reflect.DeepEqual(g1.questions, g2.questions) {
		t.Fatal("same seed produced different question runs")
	}

	for i := 0; i < 5; i++ {
		answerCurrent(g1, i%2 == 0)
		answerCurrent(g2, i%2 == 0)
	}
	if g1.score != g2.score {
		t.Errorf("same play diverged: %d vs %d", g1.score, g2.score)
	}
}
