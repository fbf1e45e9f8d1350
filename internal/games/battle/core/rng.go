package core

// Rand is a deterministic pseudo-random number generator (xorshift64).
// All randomness in the battle core flows through a single Rand, so a seed
// fully determines every bolt, branch, shake offset, and counter-attack.
type Rand struct {
	state uint64
}

// NewRand creates a new generator with the given seed.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 88172645463325252 // Default seed
	}
	return &Rand{state: seed}
}

// Next returns the next random uint64.
func (r *Rand) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Float returns a random float64 in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.Next()&0x7FFFFFFFFFFFFFFF) / float64(0x8000000000000000)
}

// Intn returns a random int in [0, n).
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}
