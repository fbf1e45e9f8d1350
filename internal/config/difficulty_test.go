package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedBattleDefaultMatchesHardcoded(t *testing.T) {
	var cfg BattleConfig
	if err := yaml.Unmarshal(defaultBattleYAML, &cfg); err != nil {
		t.Fatalf("embedded battle default must parse: %v", err)
	}

	want := DefaultBattleConfig()
	if len(cfg.Moves) != len(want.Moves) {
		t.Fatalf("move count: %d vs %d", len(cfg.Moves), len(want.Moves))
	}
	for i, m := range want.Moves {
		got := cfg.Moves[i]
		if got.Name != m.Name || got.Hits != m.Hits {
			t.Errorf("move %d: %+v vs %+v", i, got, m)
		}
		if diff := got.HitDamage - m.HitDamage; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("move %s hit damage: %v vs %v", m.Name, got.HitDamage, m.HitDamage)
		}
	}
	if len(cfg.Enemy.Pools) != 3 {
		t.Errorf("expected 3 enemy pools, got %d", len(cfg.Enemy.Pools))
	}
	if cfg.Enemy.CounterDelayMs != 900 || cfg.Enemy.CounterWindupMs != 50 {
		t.Errorf("counter timing: %d/%d", cfg.Enemy.CounterDelayMs, cfg.Enemy.CounterWindupMs)
	}
	if cfg.HitStaggerMs != 140 {
		t.Errorf("hit stagger: %d", cfg.HitStaggerMs)
	}
	if !cfg.PromptGate {
		t.Error("prompt gate should default on")
	}
}

func TestEmbeddedQuizAndReadingDefaultsParse(t *testing.T) {
	var quiz QuizConfig
	if err := yaml.Unmarshal(defaultQuizYAML, &quiz); err != nil {
		t.Fatalf("embedded quiz default must parse: %v", err)
	}
	if quiz.Questions != 10 || quiz.Options != 3 {
		t.Errorf("quiz defaults: %+v", quiz)
	}

	var reading ReadingConfig
	if err := yaml.Unmarshal(defaultReadingYAML, &reading); err != nil {
		t.Fatalf("embedded reading default must parse: %v", err)
	}
	if reading.DwellTicks != 45 || reading.TimeLimitSeconds != 60 {
		t.Errorf("reading defaults: %+v", reading)
	}
}

func TestDifficultyLevelProgression(t *testing.T) {
	m := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
	})

	if lvl := m.Level(0, 0); lvl != 0 {
		t.Errorf("level at start: %v", lvl)
	}
	if lvl := m.Level(50, 0); lvl != 0.5 {
		t.Errorf("level at half: %v", lvl)
	}
	if lvl := m.Level(500, 0); lvl != 1.0 {
		t.Errorf("level past max should clamp at 1: %v", lvl)
	}
}

func TestDifficultyScalesBattleParameters(t *testing.T) {
	m := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling: ScalingConfig{
			DamageMultiplier: 0.5,
			DelayCutMs:       300,
			ChargeBonus:      2,
		},
	})

	// At max level: damage x1.5, delay -300, +2 charges.
	if got := m.CounterDamage(12, 100, 0); got != 18 {
		t.Errorf("counter damage at max: %v", got)
	}
	if got := m.CounterDelayMs(900, 100, 0); got != 600 {
		t.Errorf("counter delay at max: %v", got)
	}
	if got := m.PoolCharges(4, 100, 0); got != 6 {
		t.Errorf("pool charges at max: %v", got)
	}

	// Floors hold under extreme scaling.
	if got := m.CounterDelayMs(400, 100, 0); got != 300 {
		t.Errorf("counter delay should floor at 300, got %v", got)
	}
}

func TestApplyBattlePreset(t *testing.T) {
	cfg := DefaultBattleConfig()
	ApplyBattlePreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset initial level: %v", cfg.Difficulty.InitialLevel)
	}
	if cfg.Enemy.CounterDelayMs != 700 {
		t.Errorf("hard preset counter delay: %d", cfg.Enemy.CounterDelayMs)
	}
	for _, p := range cfg.Enemy.Pools {
		if p.Charges != 5 {
			t.Errorf("hard preset pool %s charges: %d", p.Name, p.Charges)
		}
	}

	cfg = DefaultBattleConfig()
	ApplyBattlePreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}
