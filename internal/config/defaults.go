package config

import (
	_ "embed"
)

//go:embed defaults/battle.yaml
var defaultBattleYAML []byte

//go:embed defaults/quiz.yaml
var defaultQuizYAML []byte

//go:embed defaults/reading.yaml
var defaultReadingYAML []byte

// DefaultBattleConfig returns the default battle configuration. The damage
// table: Strike one heavy hit, Surge two medium hits, Volley three light
// hits summing to 20.
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		PromptGate: true,
		Moves: []MoveConfig{
			{Name: "Strike", Hits: 1, HitDamage: 25},
			{Name: "Surge", Hits: 2, HitDamage: 12},
			{Name: "Volley", Hits: 3, HitDamage: 20.0 / 3.0},
		},
		Enemy: BattleEnemy{
			Pools: []PoolConfig{
				{Name: "Ember", Damage: 12, Charges: 4},
				{Name: "Frost", Damage: 9, Charges: 4},
				{Name: "Venom", Damage: 7, Charges: 4},
			},
			CounterDelayMs:  900,
			CounterWindupMs: 50,
			FallbackDamage:  3,
		},
		HitStaggerMs: 140,
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				DamageMultiplier: 0.5,
				DelayCutMs:       300,
				ChargeBonus:      2,
			},
		},
	}
}

// DefaultQuizConfig returns the default quiz configuration.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		Questions:       10,
		Options:         3,
		QuestionSeconds: 0,
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type: "none",
			},
		},
	}
}

// DefaultReadingConfig returns the default reading configuration.
func DefaultReadingConfig() ReadingConfig {
	return ReadingConfig{
		DwellTicks:       45,
		TimeLimitSeconds: 60,
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type: "none",
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "battle", "battle_storm":
		return defaultBattleYAML
	case "quiz":
		return defaultQuizYAML
	case "reading":
		return defaultReadingYAML
	default:
		return nil
	}
}
