package core

import "math"

// RGB is additive light, one float per channel. Values accumulate past 1.0
// while compositing and are clamped at quantization.
type RGB struct {
	R, G, B float64
}

// Scale returns c with every channel multiplied by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Lerp returns c blended toward o by t in [0, 1].
func (c RGB) Lerp(o RGB, t float64) RGB {
	return RGB{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
	}
}

func (c RGB) add(o RGB) RGB {
	return RGB{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// white is the flash fill and the tint target for bolt cores.
var white = RGB{R: 1, G: 1, B: 1}

// coreTint is how far a bolt core is shifted from its base color toward white.
const coreTint = 0.7

// glowAlpha is the opacity multiplier of the wide outer glow pass.
const glowAlpha = 0.4

// Glyph levels produced by quantization, darkest to brightest.
const (
	LevelBlank = iota
	LevelFaint
	LevelDim
	LevelBright
	LevelHot
)

// CellGlyph is one quantized cell of a composited frame. Level picks the
// color from the active palette; Rune carries the shape.
type CellGlyph struct {
	Rune  rune
	Level int
}

var levelRunes = [...]rune{' ', '░', '▒', '▓', '█'}

// Frame is the drawable surface bolts composite onto: a cell-resolution grid
// of additive RGB accumulators. Geometry arrives in arena coordinates and is
// scaled onto the grid. Light adds; nothing subtracts. Each Composite starts
// from black, which also discards the previous frame's shake translation.
type Frame struct {
	w, h    int
	pix     []RGB
	scratch []float64 // Per-stroke coverage, reset between passes
}

// NewFrame creates a frame covering w by h cells.
func NewFrame(w, h int) *Frame {
	f := &Frame{}
	f.Resize(w, h)
	return f
}

// Resize reallocates the frame for new cell dimensions.
func (f *Frame) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	f.w, f.h = w, h
	f.pix = make([]RGB, w*h)
	f.scratch = make([]float64, w*h)
}

// Width returns the frame width in cells.
func (f *Frame) Width() int { return f.w }

// Height returns the frame height in cells.
func (f *Frame) Height() int { return f.h }

// Reset clears the frame to black.
func (f *Frame) Reset() {
	for i := range f.pix {
		f.pix[i] = RGB{}
	}
}

// FillWhite adds a full-surface white wash at the given alpha. Drawn before
// the bolts, it is the screen flash.
func (f *Frame) FillWhite(alpha float64) {
	wash := white.Scale(alpha)
	for i := range f.pix {
		f.pix[i] = f.pix[i].add(wash)
	}
}

// DrawBolt composites one bolt in two passes: a wide soft glow in the base
// color at opacity*glowAlpha, then a narrow core at full opacity shifted
// toward white. off is the shake translation in arena units.
func (f *Frame) DrawBolt(b *Bolt, off Vec) {
	if b.Opacity <= 0 {
		return
	}

	f.beginPass()
	for _, s := range b.Segments {
		f.strokeSegment(s, off, b.BaseWidth*3)
	}
	f.commitPass(b.Color, b.Opacity*glowAlpha)

	f.beginPass()
	for _, s := range b.Segments {
		f.strokeSegment(s, off, b.BaseWidth)
	}
	f.commitPass(b.Color.Lerp(white, coreTint), b.Opacity)
}

// Composite renders the stage's current state: clear, flash wash, then every
// live bolt in insertion order under the sampled shake offset.
func (f *Frame) Composite(st *Stage) {
	f.Reset()
	if fl := st.Flash(); fl > 0 {
		f.FillWhite(fl)
	}
	ox, oy := st.Offset()
	off := Vec{X: ox, Y: oy}
	for _, b := range st.Bolts() {
		f.DrawBolt(b, off)
	}
}

// Pixel returns the raw accumulator value at a cell. Out-of-bounds reads
// are black.
func (f *Frame) Pixel(x, y int) RGB {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return RGB{}
	}
	return f.pix[y*f.w+x]
}

// Cell quantizes one accumulator cell to a glyph. Brightness is the maximum
// channel, clamped to 1.
func (f *Frame) Cell(x, y int) CellGlyph {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return CellGlyph{Rune: ' ', Level: LevelBlank}
	}
	p := f.pix[y*f.w+x]
	brightness := math.Max(p.R, math.Max(p.G, p.B))
	if brightness > 1 {
		brightness = 1
	}

	level := LevelBlank
	switch {
	case brightness < 0.06:
		level = LevelBlank
	case brightness < 0.22:
		level = LevelFaint
	case brightness < 0.45:
		level = LevelDim
	case brightness < 0.75:
		level = LevelBright
	default:
		level = LevelHot
	}
	return CellGlyph{Rune: levelRunes[level], Level: level}
}

// beginPass clears the stroke coverage buffer.
func (f *Frame) beginPass() {
	for i := range f.scratch {
		f.scratch[i] = 0
	}
}

// commitPass adds the pass coverage to the accumulators in the given color.
// Coverage within a pass is max-combined, so a stroke never brightens itself
// where segments overlap; separate passes and separate bolts add.
func (f *Frame) commitPass(c RGB, alpha float64) {
	for i, cov := range f.scratch {
		if cov <= 0 {
			continue
		}
		f.pix[i] = f.pix[i].add(c.Scale(cov * alpha))
	}
}

// strokeSegment rasterizes one segment into the coverage buffer. The segment
// is sampled at sub-cell resolution and each sample splats a soft disc whose
// radius derives from the stroke width, scaled per axis from arena units to
// cells.
func (f *Frame) strokeSegment(s Segment, off Vec, widthArena float64) {
	sx := float64(f.w) / ArenaW
	sy := float64(f.h) / ArenaH

	fx := (s.From.X + off.X) * sx
	fy := (s.From.Y + off.Y) * sy
	tx := (s.To.X + off.X) * sx
	ty := (s.To.Y + off.Y) * sy

	rx := widthArena / 2 * sx
	ry := widthArena / 2 * sy
	// Even a hairline stroke must register solidly in its own cell row, so
	// the splat radius never drops below one cell.
	if rx < 1.0 {
		rx = 1.0
	}
	if ry < 1.0 {
		ry = 1.0
	}

	dx := tx - fx
	dy := ty - fy
	steps := int(math.Hypot(dx, dy)*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		f.splat(fx+dx*t, fy+dy*t, rx, ry)
	}
}

// splat records soft circular coverage around a sample point.
func (f *Frame) splat(px, py, rx, ry float64) {
	x0 := int(math.Floor(px - rx))
	x1 := int(math.Ceil(px + rx))
	y0 := int(math.Floor(py - ry))
	y1 := int(math.Ceil(py + ry))

	for cy := y0; cy <= y1; cy++ {
		if cy < 0 || cy >= f.h {
			continue
		}
		for cx := x0; cx <= x1; cx++ {
			if cx < 0 || cx >= f.w {
				continue
			}
			// Normalized distance from the sample to the cell center.
			nx := (float64(cx) + 0.5 - px) / rx
			ny := (float64(cy) + 0.5 - py) / ry
			d := math.Hypot(nx, ny)
			if d >= 1 {
				continue
			}
			cov := 1 - d
			idx := cy*f.w + cx
			if cov > f.scratch[idx] {
				f.scratch[idx] = cov
			}
		}
	}
}
