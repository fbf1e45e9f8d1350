package battle

// Snapshot is a comparable view of the observable session state at one
// tick. Two sessions built from the same seed and fed the same actions
// produce identical snapshot streams.
type Snapshot struct {
	Tick     uint64
	Phase    Phase
	PlayerHP float64
	EnemyHP  float64
	Bolts    int
	Flash    float64
	Shake    float64
	Charges  int
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:     s.tick,
		Phase:    s.phase,
		PlayerHP: s.playerHP,
		EnemyHP:  s.enemyHP,
		Bolts:    s.stage.Len(),
		Flash:    s.stage.Flash(),
		Shake:    s.stage.Shake(),
		Charges:  s.RemainingCharges(),
	}
}
