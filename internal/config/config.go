// Package config provides YAML-based game configuration loading and
// difficulty management for the lexibolt games.
package config

// MoveConfig defines one player attack category: how many bolts it fires
// and how much damage each hit deals.
type MoveConfig struct {
	Name      string  `yaml:"name"`
	Hits      int     `yaml:"hits"`
	HitDamage float64 `yaml:"hit_damage"`
}

// PoolConfig defines one enemy resource pool.
type PoolConfig struct {
	Name    string  `yaml:"name"`
	Damage  float64 `yaml:"damage"`
	Charges int     `yaml:"charges"`
}

// BattleEnemy defines the enemy side of a battle.
type BattleEnemy struct {
	Pools           []PoolConfig `yaml:"pools"`
	CounterDelayMs  int          `yaml:"counter_delay_ms"`
	CounterWindupMs int          `yaml:"counter_windup_ms"`
	FallbackDamage  float64      `yaml:"fallback_damage"`
}

// BattleConfig contains all configuration for the battle games.
type BattleConfig struct {
	PromptGate   bool             `yaml:"prompt_gate"`
	Moves        []MoveConfig     `yaml:"moves"`
	Enemy        BattleEnemy      `yaml:"enemy"`
	HitStaggerMs int              `yaml:"hit_stagger_ms"`
	Difficulty   DifficultyConfig `yaml:"difficulty"`
}

// QuizConfig contains all configuration for the quiz game.
type QuizConfig struct {
	Questions       int              `yaml:"questions"`
	Options         int              `yaml:"options"`
	QuestionSeconds int              `yaml:"question_seconds"` // 0 disables the timer
	Difficulty      DifficultyConfig `yaml:"difficulty"`
}

// ReadingConfig contains all configuration for the reading game.
type ReadingConfig struct {
	DwellTicks       int              `yaml:"dwell_ticks"`
	TimeLimitSeconds int              `yaml:"time_limit_seconds"`
	Difficulty       DifficultyConfig `yaml:"difficulty"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	DamageMultiplier float64 `yaml:"damage_multiplier"` // Extra enemy damage at max difficulty
	DelayCutMs       int     `yaml:"delay_cut_ms"`      // Counter delay reduction at max difficulty
	ChargeBonus      int     `yaml:"charge_bonus"`      // Extra pool charges at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
