package battle

import (
	"math"

	platformcore "github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle/core"
)

// Theme fixes the look of one battle variant: the bolt colors in arena
// space, the primary stroke weight, and the terminal accent. The two
// variants differ only here.
type Theme struct {
	Name         string
	WidthFactor  float64
	PlayerBolt   core.RGB
	EnemyBolt    core.RGB
	FallbackBolt core.RGB
	Accent       platformcore.Color
	poolBolts    map[string]core.RGB
}

// Counter bolt colors for the default enemy pools. Pools a config invents
// beyond these fall back to the enemy base color.
var poolBolts = map[string]core.RGB{
	"Ember": {R: 1.0, G: 0.55, B: 0.2},
	"Frost": {R: 0.5, G: 0.85, B: 1.0},
	"Venom": {R: 0.45, G: 1.0, B: 0.4},
}

// ClassicTheme is the standard Word Battle look: electric blue strikes.
func ClassicTheme() Theme {
	return Theme{
		Name:         "classic",
		WidthFactor:  core.StrikeWidthFactor,
		PlayerBolt:   core.RGB{R: 0.55, G: 0.75, B: 1.0},
		EnemyBolt:    core.RGB{R: 1.0, G: 0.35, B: 0.3},
		FallbackBolt: core.RGB{R: 0.5, G: 0.5, B: 0.55},
		Accent:       platformcore.ColorBrightCyan,
		poolBolts:    poolBolts,
	}
}

// StormTheme is the heavier violet look of Storm Battle.
func StormTheme() Theme {
	return Theme{
		Name:         "storm",
		WidthFactor:  core.StormWidthFactor,
		PlayerBolt:   core.RGB{R: 0.75, G: 0.55, B: 1.0},
		EnemyBolt:    core.RGB{R: 1.0, G: 0.35, B: 0.3},
		FallbackBolt: core.RGB{R: 0.5, G: 0.5, B: 0.55},
		Accent:       platformcore.ColorBrightMagenta,
		poolBolts:    poolBolts,
	}
}

// ThemeByName resolves a theme from its wire name, defaulting to classic.
// Duel snapshots carry only the name.
func ThemeByName(name string) Theme {
	if name == "storm" {
		return StormTheme()
	}
	return ClassicTheme()
}

// PoolColor returns the counter bolt color for a named enemy pool.
func (t Theme) PoolColor(name string) core.RGB {
	if c, ok := t.poolBolts[name]; ok {
		return c
	}
	return t.EnemyBolt
}

// PoolAccent maps a named pool to its terminal color for HUD text.
func (t Theme) PoolAccent(name string) platformcore.Color {
	return classifyHue(t.PoolColor(name))
}

// CellColor maps one composited cell to a terminal color: blank and
// white-hot are fixed, the levels between follow the cell's accumulated
// hue, brightened on the top level.
func (t Theme) CellColor(level int, p core.RGB) platformcore.Color {
	switch level {
	case core.LevelBlank:
		return platformcore.ColorDefault
	case core.LevelHot:
		return platformcore.ColorBrightWhite
	}

	hue := classifyHue(p)
	switch level {
	case core.LevelFaint:
		if hue == platformcore.ColorWhite {
			return platformcore.ColorGray
		}
		return hue
	case core.LevelDim:
		return hue
	default:
		return brighten(hue)
	}
}

// classifyHue buckets an accumulated RGB value into the 16-color palette.
// Thresholds are tuned to the bolt palette above; mixtures that have gone
// mostly white read as white.
func classifyHue(p core.RGB) platformcore.Color {
	max := math.Max(p.R, math.Max(p.G, p.B))
	if max <= 0 {
		return platformcore.ColorGray
	}
	r, g, b := p.R/max, p.G/max, p.B/max

	switch {
	case r > 0.9 && g > 0.9 && b > 0.9:
		return platformcore.ColorWhite
	case b > 0.9 && r > 0.65:
		return platformcore.ColorMagenta
	case b > 0.9 && g > 0.78:
		return platformcore.ColorCyan
	case b > 0.9:
		return platformcore.ColorBlue
	case r > 0.9 && g > 0.45 && b < 0.5:
		return platformcore.ColorOrange
	case r > 0.9 && g <= 0.45:
		return platformcore.ColorRed
	case g > 0.9:
		return platformcore.ColorGreen
	default:
		return platformcore.ColorGray
	}
}

// brighten maps a base hue to its bright variant for the top quantization
// level below white-hot.
func brighten(c platformcore.Color) platformcore.Color {
	switch c {
	case platformcore.ColorBlue:
		return platformcore.ColorBrightBlue
	case platformcore.ColorCyan:
		return platformcore.ColorBrightCyan
	case platformcore.ColorMagenta:
		return platformcore.ColorBrightMagenta
	case platformcore.ColorRed:
		return platformcore.ColorBrightRed
	case platformcore.ColorGreen:
		return platformcore.ColorBrightGreen
	case platformcore.ColorOrange:
		return platformcore.ColorBrightYellow
	case platformcore.ColorGray:
		return platformcore.ColorWhite
	case platformcore.ColorWhite:
		return platformcore.ColorBrightWhite
	default:
		return c
	}
}
