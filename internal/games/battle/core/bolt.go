// Package core implements the deterministic heart of the battle games:
// procedural lightning bolts, their frame-by-frame decay, and the compositor
// that turns them into screen cells. It depends on nothing outside the
// standard library and is fully driven by a seed, which keeps it testable
// in isolation from the platform.
package core

// Arena dimensions in virtual units. Bolt geometry lives in this fixed space
// and is scaled onto the terminal at blit time, so jitter amplitudes keep
// their shape at any screen size.
const (
	ArenaW = 960.0
	ArenaH = 540.0
)

// Generation constants. These define the look of the effect and are
// deliberately not configurable.
const (
	minSegments    = 6     // Lower bound on subdivision
	segmentSpan    = 25.0  // Arena units of bolt length per segment
	lateralScale   = 0.15  // Horizontal jitter as a fraction of bolt length
	verticalJitter = 30.0  // Vertical jitter amplitude in arena units
	branchChance   = 0.15  // Probability of forking at an interior point
	maxDepth       = 2     // Branch recursion cap
	branchSpread   = 300.0 // Branch endpoint offset range per axis
	widthUnit      = 0.6   // Stroke width unit in arena units
)

// Primary stroke weights. Branches derive their width from depth instead.
const (
	StrikeWidthFactor = 8  // Standard top-level strike
	StormWidthFactor  = 10 // Heavier strike used by the storm variant
)

// Bolt is one procedurally generated lightning polyline. Everything except
// Opacity is immutable after construction; Opacity is decremented once per
// frame by the stage until the bolt is removed.
type Bolt struct {
	Start     Vec
	End       Vec
	Segments  []Segment // Insertion order is draw order
	Opacity   float64
	Depth     int // 0 for a top-level strike, parent+1 for branches
	Color     RGB
	BaseWidth float64
	IsBranch  bool
}

// Generate builds a jittered bolt from start to end plus any branches it
// spawns, returned as a flattened list with the primary bolt first and
// descendants in spawn order. widthFactor selects the primary stroke weight
// (StrikeWidthFactor or StormWidthFactor).
//
// The segment sequence always begins exactly at start and ends exactly at
// end, contains at least minSegments entries, and branches never recurse
// past maxDepth. Coinciding endpoints yield a degenerate zero-length bolt
// rather than a division by zero.
func Generate(rng *Rand, start, end Vec, depth int, color RGB, widthFactor float64) []*Bolt {
	return generate(rng, start, end, depth, color, widthFactor, false)
}

func generate(rng *Rand, start, end Vec, depth int, color RGB, widthFactor float64, isBranch bool) []*Bolt {
	b := &Bolt{
		Start:    start,
		End:      end,
		Opacity:  1.0,
		Depth:    depth,
		Color:    color,
		IsBranch: isBranch,
	}
	if isBranch {
		b.BaseWidth = float64(3-depth) * widthUnit
	} else {
		b.BaseWidth = widthFactor * widthUnit
	}

	delta := end.Sub(start)
	distance := delta.Len()

	// Degenerate bolt: both anchors coincide. Keep the segment-count
	// guarantee without dividing by zero; a zero-length bolt spawns no
	// branches.
	if distance == 0 {
		b.Segments = make([]Segment, minSegments)
		for i := range b.Segments {
			b.Segments[i] = Segment{From: start, To: start}
		}
		return []*Bolt{b}
	}

	segmentCount := int(distance / segmentSpan)
	if segmentCount < minSegments {
		segmentCount = minSegments
	}

	out := []*Bolt{b}
	b.Segments = make([]Segment, 0, segmentCount)
	prev := start
	for i := 1; i <= segmentCount; i++ {
		var point Vec
		if i == segmentCount {
			// The last point lands exactly on the target.
			point = end
		} else {
			progress := float64(i) / float64(segmentCount)
			point = Vec{
				X: start.X + delta.X*progress + (rng.Float()-0.5)*distance*lateralScale,
				Y: start.Y + delta.Y*progress + (rng.Float()-0.5)*verticalJitter,
			}
		}
		b.Segments = append(b.Segments, Segment{From: prev, To: point})

		// Interior points may fork a thinner branch heading off at random.
		if i < segmentCount && depth < maxDepth && rng.Float() < branchChance {
			offshoot := Vec{
				X: point.X + (rng.Float()-0.5)*branchSpread,
				Y: point.Y + (rng.Float()-0.5)*branchSpread,
			}
			out = append(out, generate(rng, point, offshoot, depth+1, color, widthFactor, true)...)
		}

		prev = point
	}

	return out
}
