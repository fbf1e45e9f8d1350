package core

// Decay constants, applied once per frame. They are frame-coupled on
// purpose: the platform steps the simulation once per rendered frame, and
// the effect timing rides on that cadence.
const (
	opacityDecay = 0.08 // Bolt fade per frame; a fresh bolt is gone within 13 frames
	flashDecay   = 0.05 // Screen flash fade per frame
	shakeDecay   = 1.0  // Shake countdown per frame
)

// Stage owns every live visual effect of a battle: the bolt collection
// (insertion order is draw order, oldest first), the white screen flash, and
// the screen shake. Tick drives all three toward rest; attack events push
// new state in from outside.
type Stage struct {
	bolts   []*Bolt
	flash   float64
	shake   float64
	offsetX float64
	offsetY float64
	rng     *Rand
}

// NewStage creates an empty stage drawing its shake offsets from rng.
func NewStage(rng *Rand) *Stage {
	return &Stage{rng: rng}
}

// AddBolts appends generated bolts to the live collection.
func (st *Stage) AddBolts(bolts []*Bolt) {
	st.bolts = append(st.bolts, bolts...)
}

// SetFlash sets the white-flash intensity. Attacks set an absolute level
// rather than accumulating one.
func (st *Stage) SetFlash(v float64) {
	st.flash = v
}

// SetShake sets the shake intensity in arena units.
func (st *Stage) SetShake(v float64) {
	st.shake = v
}

// Tick advances every effect by one frame: flash and shake decay toward zero
// (clamped, never negative), a fresh shake offset is sampled while shake is
// active, every bolt loses opacity, and spent bolts are removed.
func (st *Stage) Tick() {
	if st.flash > 0 {
		st.flash -= flashDecay
		if st.flash < 0 {
			st.flash = 0
		}
	}

	st.offsetX, st.offsetY = 0, 0
	if st.shake > 0 {
		st.offsetX = (st.rng.Float() - 0.5) * st.shake
		st.offsetY = (st.rng.Float() - 0.5) * st.shake
		st.shake -= shakeDecay
		if st.shake < 0 {
			st.shake = 0
		}
	}

	for _, b := range st.bolts {
		b.Opacity -= opacityDecay
	}

	// Remove spent bolts. Reverse traversal keeps indexes stable while
	// deleting; removal order does not matter since bolts are independent.
	for i := len(st.bolts) - 1; i >= 0; i-- {
		if st.bolts[i].Opacity <= 0 {
			st.bolts = append(st.bolts[:i], st.bolts[i+1:]...)
		}
	}
}

// Clear drops all live effects. Used on session teardown.
func (st *Stage) Clear() {
	st.bolts = nil
	st.flash = 0
	st.shake = 0
	st.offsetX = 0
	st.offsetY = 0
}

// Bolts returns the live bolt collection in draw order.
func (st *Stage) Bolts() []*Bolt {
	return st.bolts
}

// Len returns the number of live bolts.
func (st *Stage) Len() int {
	return len(st.bolts)
}

// Flash returns the current flash intensity.
func (st *Stage) Flash() float64 {
	return st.flash
}

// Shake returns the current shake intensity.
func (st *Stage) Shake() float64 {
	return st.shake
}

// Offset returns the shake translation sampled on the last Tick.
func (st *Stage) Offset() (x, y float64) {
	return st.offsetX, st.offsetY
}
