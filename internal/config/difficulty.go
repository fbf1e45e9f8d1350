package config

import "math"

// Floors below which scaling never pushes a battle. A counter that lands
// instantly or a pool with no charges would not read as a fight.
const (
	minCounterDelayMs = 300
	minPoolCharges    = 1
)

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.cfg.Enabled || d.cfg.Progression.Type == "none" {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	// Clamp progress to [0, 1]
	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// CounterDamage returns the enemy counter damage scaled for the current level.
func (d *DifficultyManager) CounterDamage(base float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	return base * (1.0 + level*d.cfg.Scaling.DamageMultiplier)
}

// CounterDelayMs returns the enemy counter delay scaled for the current
// level. Harder means a faster counter.
func (d *DifficultyManager) CounterDelayMs(base int, score int, ticks int) int {
	level := d.Level(score, ticks)
	result := base - int(level*float64(d.cfg.Scaling.DelayCutMs))
	if result < minCounterDelayMs {
		result = minCounterDelayMs
	}
	return result
}

// PoolCharges returns the enemy pool charges granted at setup for the
// current level. Harder means more resources to burn through.
func (d *DifficultyManager) PoolCharges(base int, score int, ticks int) int {
	level := d.Level(score, ticks)
	result := base + int(level*float64(d.cfg.Scaling.ChargeBonus))
	if result < minPoolCharges {
		result = minPoolCharges
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
