// Package battle implements the Word Battle games: a lightning-duel session
// against a counter-attacking enemy, gated by vocabulary prompts. The
// deterministic effect simulation lives in the inner core package; this
// package owns the session state, the attack choreography, and the glue to
// the game registry.
package battle

import (
	"math"

	"github.com/lexibolt/lexibolt/internal/games/battle/core"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseWon
	PhaseLost
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// MaxHealth is the size of both health pools. Damage only ever moves a pool
// down; reaching zero is terminal.
const MaxHealth = 100.0

// Effect set points. Attacks and counters SET these on the stage, they do
// not accumulate.
const (
	attackFlash  = 0.2
	attackShake  = 8.0
	counterFlash = 0.25
	counterShake = 12.0
)

// Move is one player attack category: how many bolts it fires and the
// damage each hit deals.
type Move struct {
	Name      string
	Hits      int
	HitDamage float64
}

// Pool is one enemy resource pool: a depletable charge counter with a fixed
// per-use damage.
type Pool struct {
	Name    string
	Damage  float64
	Charges int
}

// AnchorFunc returns the player and enemy anchor points in arena
// coordinates, looked up fresh at the moment each bolt fires. ok reports
// whether the anchors exist; without them an attack silently does nothing.
type AnchorFunc func() (player, enemy core.Vec, ok bool)

// SessionParams configures a new battle session.
type SessionParams struct {
	TickRate        int
	Rand            *core.Rand
	Anchors         AnchorFunc
	Theme           Theme
	Moves           []Move
	Pools           []Pool
	FallbackDamage  float64
	StaggerMs       int
	CounterDelayMs  int
	CounterWindupMs int
}

// Session is one battle from full health to a decided outcome. All mutable
// battle state lives here: the health pools, the enemy resources, the
// effect stage, and the schedule of staggered hits and counter-attacks.
// Everything is driven by Step; nothing fires between ticks.
type Session struct {
	phase Phase
	tick  uint64

	playerHP float64
	enemyHP  float64

	moves          []Move
	pools          []Pool
	fallbackDamage float64

	tickRate        int
	staggerMs       int
	counterDelayMs  int
	counterWindupMs int

	// counterScale is the difficulty multiplier applied to counter damage
	// at the moment a counter lands.
	counterScale float64

	theme   Theme
	stage   *core.Stage
	timers  *timerQueue
	rng     *core.Rand
	anchors AnchorFunc
}

// NewSession creates a battle at full health in the Playing phase.
func NewSession(p SessionParams) *Session {
	if p.TickRate <= 0 {
		p.TickRate = 60
	}
	if p.Rand == nil {
		p.Rand = core.NewRand(0)
	}
	if p.Anchors == nil {
		p.Anchors = func() (core.Vec, core.Vec, bool) { return core.Vec{}, core.Vec{}, false }
	}
	if p.FallbackDamage <= 0 {
		p.FallbackDamage = 3
	}
	if p.StaggerMs <= 0 {
		p.StaggerMs = 140
	}
	if p.CounterDelayMs <= 0 {
		p.CounterDelayMs = 900
	}
	if p.CounterWindupMs <= 0 {
		p.CounterWindupMs = 50
	}

	pools := make([]Pool, len(p.Pools))
	copy(pools, p.Pools)
	moves := make([]Move, len(p.Moves))
	copy(moves, p.Moves)

	return &Session{
		phase:           PhasePlaying,
		playerHP:        MaxHealth,
		enemyHP:         MaxHealth,
		moves:           moves,
		pools:           pools,
		fallbackDamage:  p.FallbackDamage,
		tickRate:        p.TickRate,
		staggerMs:       p.StaggerMs,
		counterDelayMs:  p.CounterDelayMs,
		counterWindupMs: p.CounterWindupMs,
		counterScale:    1.0,
		theme:           p.Theme,
		stage:           core.NewStage(p.Rand),
		timers:          newTimerQueue(),
		rng:             p.Rand,
		anchors:         p.Anchors,
	}
}

// ticksForMs converts a millisecond delay to simulation ticks, never less
// than one tick.
func ticksForMs(ms, tickRate int) uint64 {
	t := int(math.Round(float64(ms) * float64(tickRate) / 1000.0))
	if t < 1 {
		t = 1
	}
	return uint64(t)
}

// Step advances the session one tick: decay the live effects, then fire
// every timer that has come due. New bolts inserted this tick render at
// full opacity on the frame that follows.
func (s *Session) Step() {
	s.tick++
	s.stage.Tick()
	s.timers.advance(s.tick)
}

// Attack fires the player's move: the first hit lands immediately, the
// rest are staggered, and the enemy's counter is scheduled off the action.
// Returns false when the session is not playing or the move is unknown.
func (s *Session) Attack(moveIndex int) bool {
	if s.phase != PhasePlaying {
		return false
	}
	if moveIndex < 0 || moveIndex >= len(s.moves) {
		return false
	}
	m := s.moves[moveIndex]

	s.playerHit(m.HitDamage)
	if s.phase != PhasePlaying {
		// The opening hit ended the battle; nothing further to schedule.
		return true
	}
	for i := 1; i < m.Hits; i++ {
		damage := m.HitDamage
		due := s.tick + ticksForMs(i*s.staggerMs, s.tickRate)
		s.timers.schedule(due, func() { s.playerHit(damage) })
	}

	s.timers.schedule(s.tick+ticksForMs(s.counterDelayMs, s.tickRate), s.counterDecision)
	return true
}

// Fizzle schedules the enemy counter without any player hit: the cost of a
// wrong answer at the word gate.
func (s *Session) Fizzle() bool {
	if s.phase != PhasePlaying {
		return false
	}
	s.timers.schedule(s.tick+ticksForMs(s.counterDelayMs, s.tickRate), s.counterDecision)
	return true
}

// playerHit lands one player bolt on the enemy. The anchors are looked up
// fresh for every hit; without them the hit is a silent no-op.
func (s *Session) playerHit(damage float64) {
	if s.phase != PhasePlaying {
		return
	}
	player, enemy, ok := s.anchors()
	if !ok {
		return
	}

	s.stage.AddBolts(core.Generate(s.rng, player, enemy, 0, s.theme.PlayerBolt, s.theme.WidthFactor))
	s.stage.SetFlash(attackFlash)
	s.stage.SetShake(attackShake)
	s.damageEnemy(damage)
}

// counterDecision runs at the counter delay after a player action: a live
// enemy picks a resource pool (or the fading fallback) and winds up. The
// charge is spent now; the bolt and the damage land after the windup.
func (s *Session) counterDecision() {
	if s.phase != PhasePlaying || s.enemyHP <= 0 {
		return
	}

	damage := s.fallbackDamage
	color := s.theme.FallbackBolt

	live := make([]int, 0, len(s.pools))
	for i, p := range s.pools {
		if p.Charges > 0 {
			live = append(live, i)
		}
	}
	if len(live) > 0 {
		// Equal weight regardless of remaining charges.
		pi := live[s.rng.Intn(len(live))]
		s.pools[pi].Charges--
		damage = s.pools[pi].Damage
		color = s.theme.PoolColor(s.pools[pi].Name)
	}

	damage *= s.counterScale
	s.timers.schedule(s.tick+ticksForMs(s.counterWindupMs, s.tickRate), func() {
		s.counterHit(damage, color)
	})
}

// counterHit lands the enemy's counter bolt on the player.
func (s *Session) counterHit(damage float64, color core.RGB) {
	if s.phase != PhasePlaying {
		return
	}
	player, enemy, ok := s.anchors()
	if !ok {
		return
	}

	s.stage.AddBolts(core.Generate(s.rng, enemy, player, 0, color, s.theme.WidthFactor))
	s.stage.SetFlash(counterFlash)
	s.stage.SetShake(counterShake)
	s.damagePlayer(damage)
}

// damageEnemy decrements the enemy pool, clamped at zero. Zero ends the
// battle and cancels everything still scheduled; the phase guard in every
// callback backs this up.
func (s *Session) damageEnemy(damage float64) {
	if damage < 0 {
		damage = 0
	}
	s.enemyHP = clampHealth(s.enemyHP - damage)
	if s.enemyHP <= 0 {
		s.phase = PhaseWon
		s.timers.cancelAll()
	}
}

// damagePlayer decrements the player pool, clamped at zero.
func (s *Session) damagePlayer(damage float64) {
	if damage < 0 {
		damage = 0
	}
	s.playerHP = clampHealth(s.playerHP - damage)
	if s.playerHP <= 0 {
		s.phase = PhaseLost
		s.timers.cancelAll()
	}
}

func clampHealth(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxHealth {
		return MaxHealth
	}
	return v
}

// Teardown cancels every outstanding timer and clears the stage. No
// callback fires after teardown.
func (s *Session) Teardown() {
	s.timers.cancelAll()
	s.stage.Clear()
}

// SetCounterScale sets the difficulty multiplier applied to counter damage.
func (s *Session) SetCounterScale(scale float64) {
	if scale < 1 {
		scale = 1
	}
	s.counterScale = scale
}

// SetCounterDelayMs updates the counter delay for actions scheduled from
// now on. Already-scheduled counters keep their original due tick.
func (s *Session) SetCounterDelayMs(ms int) {
	if ms <= 0 {
		return
	}
	s.counterDelayMs = ms
}

// Phase returns the session phase.
func (s *Session) Phase() Phase { return s.phase }

// Tick returns the current simulation tick.
func (s *Session) Tick() uint64 { return s.tick }

// PlayerHP returns the player health pool.
func (s *Session) PlayerHP() float64 { return s.playerHP }

// EnemyHP returns the enemy health pool.
func (s *Session) EnemyHP() float64 { return s.enemyHP }

// Moves returns the player's attack moves.
func (s *Session) Moves() []Move { return s.moves }

// Pools returns a copy of the enemy resource pools.
func (s *Session) Pools() []Pool {
	out := make([]Pool, len(s.pools))
	copy(out, s.pools)
	return out
}

// RemainingCharges sums the charges left across all enemy pools.
func (s *Session) RemainingCharges() int {
	total := 0
	for _, p := range s.pools {
		total += p.Charges
	}
	return total
}

// Stage returns the live effect stage for compositing.
func (s *Session) Stage() *core.Stage { return s.stage }

// PendingTimers returns the number of scheduled callbacks still waiting.
func (s *Session) PendingTimers() int { return s.timers.pending() }

// Theme returns the session's theme.
func (s *Session) Theme() Theme { return s.theme }
