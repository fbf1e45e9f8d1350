package core_test

import (
	"testing"

	"github.com/lexibolt/lexibolt/internal/games/battle/core"
)

var testColor = core.RGB{R: 0.57, G: 0.75, B: 1.0}

func TestGenerateEndpointsExact(t *testing.T) {
	rng := core.NewRand(12345)
	start := core.Vec{X: 100, Y: 270}
	end := core.Vec{X: 860, Y: 270}

	bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)
	if len(bolts) == 0 {
		t.Fatal("expected at least the primary bolt")
	}

	primary := bolts[0]
	if len(primary.Segments) == 0 {
		t.Fatal("primary bolt has no segments")
	}
	if primary.Segments[0].From != start {
		t.Errorf("first point should be exactly start: got %v, want %v",
			primary.Segments[0].From, start)
	}
	last := primary.Segments[len(primary.Segments)-1]
	if last.To != end {
		t.Errorf("last point should be exactly end: got %v, want %v", last.To, end)
	}
}

func TestGenerateSegmentFloor(t *testing.T) {
	// A short bolt still subdivides into the minimum number of segments.
	rng := core.NewRand(7)
	start := core.Vec{X: 0, Y: 0}
	end := core.Vec{X: 40, Y: 0}

	bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)
	if got := len(bolts[0].Segments); got != 6 {
		t.Errorf("expected 6 segments for a 40-unit bolt, got %d", got)
	}
}

func TestGenerateSegmentCountScales(t *testing.T) {
	rng := core.NewRand(7)
	start := core.Vec{X: 0, Y: 0}
	end := core.Vec{X: 500, Y: 0}

	bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)
	// 500 units at 25 units per segment.
	if got := len(bolts[0].Segments); got != 20 {
		t.Errorf("expected 20 segments for a 500-unit bolt, got %d", got)
	}
}

func TestGenerateDegenerate(t *testing.T) {
	rng := core.NewRand(99)
	p := core.Vec{X: 480, Y: 270}

	bolts := core.Generate(rng, p, p, 0, testColor, core.StrikeWidthFactor)
	if len(bolts) != 1 {
		t.Fatalf("degenerate bolt should spawn no branches, got %d bolts", len(bolts))
	}
	segs := bolts[0].Segments
	if len(segs) != 6 {
		t.Errorf("degenerate bolt should keep the segment floor, got %d", len(segs))
	}
	for i, s := range segs {
		if s.From != p || s.To != p {
			t.Errorf("segment %d of a degenerate bolt should collapse to %v, got %v", i, p, s)
		}
	}
}

func TestGenerateContinuity(t *testing.T) {
	rng := core.NewRand(555)
	start := core.Vec{X: 50, Y: 100}
	end := core.Vec{X: 900, Y: 400}

	bolts := core.Generate(rng, start, end, 0, testColor, core.StormWidthFactor)
	for bi, b := range bolts {
		for i := 0; i+1 < len(b.Segments); i++ {
			if b.Segments[i].To != b.Segments[i+1].From {
				t.Errorf("bolt %d: segment %d ends at %v but segment %d starts at %v",
					bi, i, b.Segments[i].To, i+1, b.Segments[i+1].From)
			}
		}
	}
}

func TestGenerateDepthCap(t *testing.T) {
	start := core.Vec{X: 0, Y: 270}
	end := core.Vec{X: 960, Y: 270}

	// Long bolts over many seeds to make branching all but certain.
	sawBranch := false
	for seed := uint64(1); seed <= 50; seed++ {
		rng := core.NewRand(seed)
		bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)

		if bolts[0].Depth != 0 || bolts[0].IsBranch {
			t.Fatalf("seed %d: first bolt should be the primary strike", seed)
		}
		for _, b := range bolts[1:] {
			sawBranch = true
			if !b.IsBranch {
				t.Errorf("seed %d: non-primary bolt not marked as branch", seed)
			}
			if b.Depth < 1 || b.Depth > 2 {
				t.Errorf("seed %d: branch depth %d out of range", seed, b.Depth)
			}
		}
	}
	if !sawBranch {
		t.Error("expected at least one branch across 50 seeds")
	}
}

func TestGenerateBranchRootsOnParent(t *testing.T) {
	start := core.Vec{X: 0, Y: 270}
	end := core.Vec{X: 960, Y: 270}

	for seed := uint64(1); seed <= 20; seed++ {
		rng := core.NewRand(seed)
		bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)

		for i, b := range bolts[1:] {
			// Every branch starts on a point of an earlier bolt in the list.
			found := false
			for _, parent := range bolts[:i+1] {
				for _, s := range parent.Segments {
					if s.To == b.Start {
						found = true
					}
				}
			}
			if !found {
				t.Errorf("seed %d: branch %d starts at %v, not on any parent point",
					seed, i+1, b.Start)
			}
		}
	}
}

func TestGenerateWidths(t *testing.T) {
	start := core.Vec{X: 0, Y: 270}
	end := core.Vec{X: 960, Y: 270}

	const eps = 1e-9
	for seed := uint64(1); seed <= 50; seed++ {
		rng := core.NewRand(seed)
		bolts := core.Generate(rng, start, end, 0, testColor, core.StormWidthFactor)

		if w := bolts[0].BaseWidth; w < 6.0-eps || w > 6.0+eps {
			t.Fatalf("seed %d: storm primary width should be 6.0, got %v", seed, w)
		}
		for _, b := range bolts[1:] {
			want := float64(3-b.Depth) * 0.6
			if b.BaseWidth < want-eps || b.BaseWidth > want+eps {
				t.Errorf("seed %d: depth %d branch width should be %v, got %v",
					seed, b.Depth, want, b.BaseWidth)
			}
		}
	}

	rng := core.NewRand(1)
	bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)
	if w := bolts[0].BaseWidth; w < 4.8-eps || w > 4.8+eps {
		t.Errorf("standard primary width should be 4.8, got %v", w)
	}
}

func TestGenerateVerticalJitterBounded(t *testing.T) {
	rng := core.NewRand(31337)
	start := core.Vec{X: 0, Y: 270}
	end := core.Vec{X: 800, Y: 270}

	bolts := core.Generate(rng, start, end, 0, testColor, core.StrikeWidthFactor)
	segs := bolts[0].Segments
	// Interior points of a horizontal bolt stray at most half the vertical
	// jitter amplitude from the axis.
	for i := 0; i+1 < len(segs); i++ {
		p := segs[i].To
		if p.Y < 270-15 || p.Y > 270+15 {
			t.Errorf("interior point %d strays to Y=%v, beyond the jitter bound", i, p.Y)
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	start := core.Vec{X: 20, Y: 30}
	end := core.Vec{X: 940, Y: 510}

	b1 := core.Generate(core.NewRand(424242), start, end, 0, testColor, core.StrikeWidthFactor)
	b2 := core.Generate(core.NewRand(424242), start, end, 0, testColor, core.StrikeWidthFactor)

	if len(b1) != len(b2) {
		t.Fatalf("bolt counts differ: %d vs %d", len(b1), len(b2))
	}
	for i := range b1 {
		if b1[i].Depth != b2[i].Depth || b1[i].BaseWidth != b2[i].BaseWidth {
			t.Errorf("bolt %d metadata differs: %+v vs %+v", i, b1[i], b2[i])
		}
		if len(b1[i].Segments) != len(b2[i].Segments) {
			t.Fatalf("bolt %d segment counts differ: %d vs %d",
				i, len(b1[i].Segments), len(b2[i].Segments))
		}
		for j := range b1[i].Segments {
			if b1[i].Segments[j] != b2[i].Segments[j] {
				t.Errorf("bolt %d segment %d differs: %v vs %v",
					i, j, b1[i].Segments[j], b2[i].Segments[j])
			}
		}
	}
}

func TestRandDeterminism(t *testing.T) {
	r1 := core.NewRand(12345)
	r2 := core.NewRand(12345)

	for i := 0; i < 100; i++ {
		if v1, v2 := r1.Next(), r2.Next(); v1 != v2 {
			t.Fatalf("rand not deterministic at step %d: %d vs %d", i, v1, v2)
		}
	}
}

func TestRandFloatRange(t *testing.T) {
	rng := core.NewRand(0) // Zero seed is remapped, not a fixed point
	for i := 0; i < 1000; i++ {
		f := rng.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("Float() out of [0,1) at step %d: %v", i, f)
		}
	}
}
