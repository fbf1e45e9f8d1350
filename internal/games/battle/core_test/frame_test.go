package core_test

import (
	"testing"

	"github.com/lexibolt/lexibolt/internal/games/battle/core"
)

func TestFrameDimensions(t *testing.T) {
	f := core.NewFrame(80, 24)
	if f.Width() != 80 || f.Height() != 24 {
		t.Errorf("expected 80x24, got %dx%d", f.Width(), f.Height())
	}

	f.Resize(120, 30)
	if f.Width() != 120 || f.Height() != 30 {
		t.Errorf("after resize expected 120x30, got %dx%d", f.Width(), f.Height())
	}

	f.Resize(0, -3)
	if f.Width() != 1 || f.Height() != 1 {
		t.Errorf("degenerate resize should clamp to 1x1, got %dx%d", f.Width(), f.Height())
	}
}

func TestFrameStartsBlank(t *testing.T) {
	f := core.NewFrame(10, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			c := f.Cell(x, y)
			if c.Level != core.LevelBlank || c.Rune != ' ' {
				t.Fatalf("cell (%d,%d) should start blank, got %+v", x, y, c)
			}
		}
	}
}

func TestFrameCellOutOfBounds(t *testing.T) {
	f := core.NewFrame(10, 6)
	f.FillWhite(1.0)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 6}} {
		c := f.Cell(p[0], p[1])
		if c.Level != core.LevelBlank || c.Rune != ' ' {
			t.Errorf("out-of-bounds cell (%d,%d) should read blank, got %+v", p[0], p[1], c)
		}
	}
}

func TestFrameFillWhiteLevels(t *testing.T) {
	cases := []struct {
		alpha float64
		level int
		r     rune
	}{
		{0.03, core.LevelBlank, ' '},
		{0.10, core.LevelFaint, '░'},
		{0.30, core.LevelDim, '▒'},
		{0.60, core.LevelBright, '▓'},
		{0.90, core.LevelHot, '█'},
		{2.50, core.LevelHot, '█'}, // Over-bright clamps
	}
	for _, tc := range cases {
		f := core.NewFrame(4, 3)
		f.FillWhite(tc.alpha)
		c := f.Cell(1, 1)
		if c.Level != tc.level || c.Rune != tc.r {
			t.Errorf("alpha %v: expected level %d rune %q, got level %d rune %q",
				tc.alpha, tc.level, tc.r, c.Level, c.Rune)
		}
	}
}

func TestFrameDrawBoltLightsPath(t *testing.T) {
	f := core.NewFrame(80, 24)
	b := &core.Bolt{
		Start:     core.Vec{X: 0, Y: 270},
		End:       core.Vec{X: 960, Y: 270},
		Segments:  []core.Segment{{From: core.Vec{X: 0, Y: 270}, To: core.Vec{X: 960, Y: 270}}},
		Opacity:   1.0,
		Color:     core.RGB{R: 1, G: 1, B: 1},
		BaseWidth: 4.8,
	}
	f.DrawBolt(b, core.Vec{})

	// Mid-arena row maps to cell row 12.
	if c := f.Cell(40, 12); c.Level == core.LevelBlank {
		t.Error("cell on the bolt path should be lit")
	}
	if c := f.Cell(0, 12); c.Level == core.LevelBlank {
		t.Error("cell at the bolt start should be lit")
	}
	if c := f.Cell(79, 12); c.Level == core.LevelBlank {
		t.Error("cell at the bolt end should be lit")
	}
	if c := f.Cell(40, 0); c.Level != core.LevelBlank {
		t.Errorf("cell far from the bolt should stay blank, got level %d", c.Level)
	}
	if c := f.Cell(40, 23); c.Level != core.LevelBlank {
		t.Errorf("cell far from the bolt should stay blank, got level %d", c.Level)
	}
}

func TestFrameDrawBoltSpentInvisible(t *testing.T) {
	f := core.NewFrame(40, 12)
	b := &core.Bolt{
		Segments:  []core.Segment{{From: core.Vec{X: 0, Y: 270}, To: core.Vec{X: 960, Y: 270}}},
		Opacity:   0,
		Color:     core.RGB{R: 1, G: 1, B: 1},
		BaseWidth: 4.8,
	}
	f.DrawBolt(b, core.Vec{})

	for y := 0; y < 12; y++ {
		for x := 0; x < 40; x++ {
			if f.Cell(x, y).Level != core.LevelBlank {
				t.Fatalf("spent bolt should draw nothing, cell (%d,%d) lit", x, y)
			}
		}
	}
}

func TestFrameShakeOffsetMovesBolt(t *testing.T) {
	b := &core.Bolt{
		Segments:  []core.Segment{{From: core.Vec{X: 480, Y: 0}, To: core.Vec{X: 480, Y: 540}}},
		Opacity:   1.0,
		Color:     core.RGB{R: 1, G: 1, B: 1},
		BaseWidth: 4.8,
	}

	centered := core.NewFrame(80, 24)
	centered.DrawBolt(b, core.Vec{})
	shifted := core.NewFrame(80, 24)
	shifted.DrawBolt(b, core.Vec{X: 120, Y: 0}) // 120 arena units = 10 cells

	if centered.Cell(40, 12).Level == core.LevelBlank {
		t.Fatal("vertical bolt should light its own column")
	}
	if shifted.Cell(50, 12).Level == core.LevelBlank {
		t.Error("offset bolt should light the shifted column")
	}
	if shifted.Cell(40, 12).Level != core.LevelBlank {
		t.Error("offset bolt should leave the original column blank")
	}
}

func TestFrameCompositeLifecycle(t *testing.T) {
	st := core.NewStage(core.NewRand(404))
	bolts := core.Generate(core.NewRand(404), core.Vec{X: 100, Y: 270},
		core.Vec{X: 860, Y: 270}, 0, core.RGB{R: 0.57, G: 0.75, B: 1}, core.StrikeWidthFactor)
	st.AddBolts(bolts)
	st.SetFlash(0.2)

	f := core.NewFrame(80, 24)
	f.Composite(st)
	if countLit(f) == 0 {
		t.Fatal("composite of a live stage should light cells")
	}

	// Run the stage dry, then composite again: the frame must come back
	// fully blank, not retain the previous image.
	for i := 0; i < 13; i++ {
		st.Tick()
	}
	if st.Len() != 0 {
		t.Fatalf("stage should be empty after 13 ticks, has %d bolts", st.Len())
	}
	f.Composite(st)
	if n := countLit(f); n != 0 {
		t.Errorf("composite of an empty stage should be blank, %d cells lit", n)
	}
}

func TestFrameFlashBrightensEverything(t *testing.T) {
	st := core.NewStage(core.NewRand(1))
	st.SetFlash(0.25)

	f := core.NewFrame(20, 8)
	f.Composite(st)
	for y := 0; y < 8; y++ {
		for x := 0; x < 20; x++ {
			if f.Cell(x, y).Level == core.LevelBlank {
				t.Fatalf("flash should light every cell, (%d,%d) blank", x, y)
			}
		}
	}
}

func TestFrameCoreBrighterThanGlow(t *testing.T) {
	// Tall frame so the glow pass genuinely reaches cells the core pass
	// cannot. The line sits on the center of cell row 60.
	f := core.NewFrame(160, 120)
	b := &core.Bolt{
		Segments:  []core.Segment{{From: core.Vec{X: 0, Y: 272.25}, To: core.Vec{X: 960, Y: 272.25}}},
		Opacity:   1.0,
		Color:     core.RGB{R: 1, G: 1, B: 1},
		BaseWidth: 6.0,
	}
	f.DrawBolt(b, core.Vec{})

	center := f.Cell(80, 60).Level
	fringe := f.Cell(80, 61).Level
	beyond := f.Cell(80, 62).Level

	if center < core.LevelBright {
		t.Errorf("centerline should be bright, got level %d", center)
	}
	if fringe <= core.LevelBlank {
		t.Error("glow fringe should be lit")
	}
	if fringe >= center {
		t.Errorf("glow fringe (level %d) should be dimmer than the core (level %d)", fringe, center)
	}
	if beyond != core.LevelBlank {
		t.Errorf("cells past the glow radius should be blank, got level %d", beyond)
	}
}

func countLit(f *core.Frame) int {
	n := 0
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if f.Cell(x, y).Level != core.LevelBlank {
				n++
			}
		}
	}
	return n
}
