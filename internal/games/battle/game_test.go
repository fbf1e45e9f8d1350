package battle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	platformcore "github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle/core"
	"github.com/lexibolt/lexibolt/internal/registry"
)

func testConfig(seed int64) platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func resetSelectors() {
	SetDeck("")
	SetDifficulty("")
	SetConfigPath("")
}

func optionAction(i int) platformcore.Action {
	switch i {
	case 0:
		return platformcore.ActionOption1
	case 1:
		return platformcore.ActionOption2
	default:
		return platformcore.ActionOption3
	}
}

func TestGameRegistration(t *testing.T) {
	if !registry.Exists("battle") {
		t.Error("battle not registered")
	}
	if !registry.Exists("battle_storm") {
		t.Error("battle_storm not registered")
	}

	g, err := registry.Create("battle")
	if err != nil {
		t.Fatalf("Create(battle): %v", err)
	}
	if g.Title() != "Word Battle" {
		t.Errorf("title = %q", g.Title())
	}
}

func TestGameReset(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(42))

	if g.gameOver {
		t.Fatal("fresh battle is over")
	}
	if g.session == nil {
		t.Fatal("no session after reset")
	}
	if g.session.PlayerHP() != MaxHealth || g.session.EnemyHP() != MaxHealth {
		t.Error("battle does not start at full health")
	}
	if len(g.prompt.words) != promptOptions {
		t.Fatalf("prompt has %d options, want %d", len(g.prompt.words), promptOptions)
	}
	if g.prompt.correct < 0 || g.prompt.correct >= len(g.prompt.words) {
		t.Errorf("correct index %d out of range", g.prompt.correct)
	}
	if g.prompt.meaning == "" {
		t.Error("prompt has no meaning")
	}
}

func TestCorrectAnswerFiresAttack(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(7))

	in := platformcore.NewInputFrame()
	in.Set(optionAction(g.prompt.correct))
	g.Step(in)

	if g.session.EnemyHP() >= MaxHealth {
		t.Error("correct answer did not damage the enemy")
	}
	if g.session.Stage().Len() == 0 {
		t.Error("correct answer did not spawn bolts")
	}
	if g.score != 10 {
		t.Errorf("score = %d, want 10", g.score)
	}
	if g.streak != 1 || g.correct != 1 || g.answered != 1 {
		t.Errorf("tallies = streak %d correct %d answered %d", g.streak, g.correct, g.answered)
	}
}

func TestWrongAnswerFizzlesThenCounters(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(7))

	in := platformcore.NewInputFrame()
	in.Set(optionAction((g.prompt.correct + 1) % promptOptions))
	g.Step(in)

	if g.session.EnemyHP() != MaxHealth {
		t.Error("wrong answer damaged the enemy")
	}
	if g.score != 0 {
		t.Errorf("score = %d after wrong answer", g.score)
	}
	if g.answered != 1 || g.correct != 0 {
		t.Errorf("tallies = correct %d answered %d", g.correct, g.answered)
	}

	// The counter still arrives.
	empty := platformcore.NewInputFrame()
	for i := 0; i < 120; i++ {
		g.Step(empty)
	}
	if g.session.PlayerHP() >= MaxHealth {
		t.Error("no counter landed after a wrong answer")
	}
}

func TestAnswerAdvancesPrompt(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(99))
	before := g.prompt

	in := platformcore.NewInputFrame()
	in.Set(optionAction(before.correct))
	g.Step(in)

	if g.prompt.meaning == before.meaning && equalWords(g.prompt.words, before.words) {
		t.Error("prompt did not advance after an answer")
	}
}

func equalWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPauseFreezesBattle(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(3))

	attack := platformcore.NewInputFrame()
	attack.Set(optionAction(g.prompt.correct))
	g.Step(attack)

	pause := platformcore.NewInputFrame()
	pause.Set(platformcore.ActionPause)
	g.Step(pause)
	if !g.paused {
		t.Fatal("pause did not take")
	}

	frozen := g.session.Snapshot()
	empty := platformcore.NewInputFrame()
	for i := 0; i < 10; i++ {
		g.Step(empty)
	}
	if got := g.session.Snapshot(); got != frozen {
		t.Errorf("battle advanced while paused: %+v vs %+v", got, frozen)
	}

	g.Step(pause)
	g.Step(empty)
	if got := g.session.Snapshot(); got == frozen {
		t.Error("battle did not resume after unpause")
	}
}

func TestVictoryAddsRemainingHealth(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(5))

	g.session.damageEnemy(MaxHealth)
	g.Step(platformcore.NewInputFrame())

	if !g.won || !g.gameOver {
		t.Fatal("battle not won after enemy hit zero")
	}
	if g.score != int(MaxHealth) {
		t.Errorf("score = %d, want %d (untouched health bonus)", g.score, int(MaxHealth))
	}
}

func TestDefeatEndsGame(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(5))

	g.session.damagePlayer(MaxHealth)
	g.Step(platformcore.NewInputFrame())

	if g.won {
		t.Error("defeat marked as win")
	}
	if !g.gameOver {
		t.Error("game not over after player hit zero")
	}
}

func TestOutcomeSummarizesBattle(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(7))

	if _, ok := g.Outcome(); ok {
		t.Fatal("outcome reported before the battle ended")
	}

	in := platformcore.NewInputFrame()
	in.Set(optionAction(g.prompt.correct))
	g.Step(in)

	in = platformcore.NewInputFrame()
	in.Set(optionAction((g.prompt.correct + 1) % promptOptions))
	g.Step(in)

	g.session.damageEnemy(MaxHealth)
	g.Step(platformcore.NewInputFrame())

	out, ok := g.Outcome()
	if !ok {
		t.Fatal("no outcome after the battle ended")
	}
	if !out.Won {
		t.Error("outcome not marked won")
	}
	if out.EnemyHP != 0 {
		t.Errorf("enemy hp = %v, want 0", out.EnemyHP)
	}
	if out.PlayerHP != g.session.PlayerHP() {
		t.Errorf("player hp = %v, want %v", out.PlayerHP, g.session.PlayerHP())
	}
	if out.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", out.Rounds)
	}
	if out.AccuracyPct != 50 {
		t.Errorf("accuracy = %v, want 50", out.AccuracyPct)
	}
	if out.DurationSecs != 0 {
		t.Errorf("duration = %d secs after three ticks", out.DurationSecs)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(5))
	g.session.damageEnemy(MaxHealth)
	g.Step(platformcore.NewInputFrame())

	restart := platformcore.NewInputFrame()
	restart.Set(platformcore.ActionRestart)
	g.Step(restart)

	if g.gameOver || g.won {
		t.Error("restart did not clear the outcome")
	}
	if g.score != 0 {
		t.Errorf("restart kept score %d", g.score)
	}
	if g.session.EnemyHP() != MaxHealth {
		t.Error("restart did not refill the enemy")
	}
}

func TestGameRender(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(1))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Word Battle") {
		t.Errorf("HUD row missing title: %q", screen.Row(0))
	}
	if !strings.Contains(screen.String(), "Which word means") {
		t.Error("prompt question not rendered")
	}
	if !strings.Contains(screen.String(), "YOU") || !strings.Contains(screen.String(), "FOE") {
		t.Error("health bar labels not rendered")
	}
}

func TestRenderBoltsAfterAttack(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(testConfig(1))

	in := platformcore.NewInputFrame()
	in.Set(optionAction(g.prompt.correct))
	g.Step(in)

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	lit := 0
	for y := g.arenaY; y < g.arenaY+g.arenaH; y++ {
		for x := g.arenaX; x < g.arenaX+g.arenaW; x++ {
			switch screen.Get(x, y) {
			case '░', '▒', '▓', '█':
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no bolt cells rendered after an attack")
	}
}

func TestRenderTooSmall(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	g := New()
	g.Reset(platformcore.RuntimeConfig{ScreenW: 30, ScreenH: 10, TickRate: 60, Seed: 1})

	if !g.tooSmall {
		t.Fatal("10-row screen not flagged too small")
	}
	screen := platformcore.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("too-small overlay not rendered")
	}
}

func TestStormVariant(t *testing.T) {
	g := NewStorm()
	if g.ID() != "battle_storm" {
		t.Errorf("ID = %q", g.ID())
	}
	if g.Title() != "Storm Battle" {
		t.Errorf("title = %q", g.Title())
	}
	if g.theme.WidthFactor != core.StormWidthFactor {
		t.Errorf("storm width factor = %v, want %v", g.theme.WidthFactor, core.StormWidthFactor)
	}
}

func TestDirectModeSkipsGate(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	dir := t.TempDir()
	path := filepath.Join(dir, "battle.yaml")
	yaml := `prompt_gate: false
moves:
  - name: Strike
    hits: 1
    hit_damage: 25
enemy:
  pools:
    - name: Ember
      damage: 12
      charges: 4
  counter_delay_ms: 900
  counter_windup_ms: 50
  fallback_damage: 3
hit_stagger_ms: 140
difficulty:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)

	g := New()
	g.Reset(testConfig(1))

	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionOption1)
	g.Step(in)

	if got := g.session.EnemyHP(); got != 75 {
		t.Errorf("enemy HP after direct Strike = %v, want 75", got)
	}
	if g.answered != 0 {
		t.Error("direct mode counted a word answer")
	}
}

func TestGameDeterminism(t *testing.T) {
	defer resetSelectors()
	resetSelectors()

	run := func() (int, Snapshot) {
		g := New()
		g.Reset(testConfig(12345))
		for i := 0; i < 600; i++ {
			in := platformcore.NewInputFrame()
			if i%40 == 0 {
				in.Set(optionAction(g.prompt.correct))
			}
			g.Step(in)
			if g.gameOver {
				break
			}
		}
		return g.score, g.session.Snapshot()
	}

	score1, snap1 := run()
	score2, snap2 := run()
	if score1 != score2 {
		t.Errorf("scores differ: %d vs %d", score1, score2)
	}
	if snap1 != snap2 {
		t.Errorf("final snapshots differ: %+v vs %+v", snap1, snap2)
	}
}
