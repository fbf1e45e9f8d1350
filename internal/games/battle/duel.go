package battle

import (
	"github.com/lexibolt/lexibolt/internal/config"
	platformcore "github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle/core"
	"github.com/lexibolt/lexibolt/internal/multiplayer"
)

// duelCooldownTicks paces attacks: half a second at 60 fps between casts.
const duelCooldownTicks = 30

// Anchors returns the two combatant anchor points in arena coordinates,
// player 1 on the left. Duel clients place their markers with these.
func Anchors() (p1, p2 core.Vec) {
	return playerAnchor, enemyAnchor
}

// duelSide is one player's half of a duel.
type duelSide struct {
	hp       float64
	pools    []Pool
	cooldown int
	dealt    float64
}

// Duel is the online two-player battle: both sides spend their own resource
// pools as attacks against each other. The server runs it authoritatively
// through StepMulti; clients only render snapshots.
type Duel struct {
	theme Theme
	rng   *core.Rand
	stage *core.Stage

	tick uint64

	side1 duelSide
	side2 duelSide

	fallbackDamage float64
	cooldownTicks  int

	gameOver bool
	winner   platformcore.PlayerID
}

// NewDuel creates a duel with the given theme, not yet reset.
func NewDuel(theme Theme) *Duel {
	return &Duel{
		theme:         theme,
		cooldownTicks: duelCooldownTicks,
	}
}

// Reset initializes both sides at full health with fresh pools.
func (d *Duel) Reset(cfg platformcore.RuntimeConfig) {
	bc, err := config.LoadBattle("")
	if err != nil {
		bc = config.DefaultBattleConfig()
	}

	d.rng = core.NewRand(uint64(cfg.Seed))
	d.stage = core.NewStage(d.rng)
	d.tick = 0
	d.side1 = duelSide{hp: MaxHealth, pools: duelPools(bc)}
	d.side2 = duelSide{hp: MaxHealth, pools: duelPools(bc)}
	d.fallbackDamage = bc.Enemy.FallbackDamage
	if d.fallbackDamage <= 0 {
		d.fallbackDamage = 3
	}
	d.gameOver = false
	d.winner = 0
}

// duelPools builds one side's resource pools from the battle config. Both
// sides get identical fresh copies.
func duelPools(bc config.BattleConfig) []Pool {
	pools := make([]Pool, 0, len(bc.Enemy.Pools))
	for _, p := range bc.Enemy.Pools {
		pools = append(pools, Pool{Name: p.Name, Damage: p.Damage, Charges: p.Charges})
	}
	return pools
}

// StepMulti advances the duel one tick. Player 1's input resolves before
// player 2's; if both land a killing blow on the same tick, player 1 wins.
func (d *Duel) StepMulti(in platformcore.MultiInputFrame) platformcore.StepResult {
	d.tick++
	d.stage.Tick()

	if !d.gameOver {
		if d.side1.cooldown > 0 {
			d.side1.cooldown--
		}
		if d.side2.cooldown > 0 {
			d.side2.cooldown--
		}
		d.handleInput(platformcore.Player1, in.Player1())
		d.handleInput(platformcore.Player2, in.Player2())
	}

	return platformcore.StepResult{State: platformcore.GameState{
		Score:    d.Score1(),
		GameOver: d.gameOver,
	}}
}

func (d *Duel) handleInput(player platformcore.PlayerID, in platformcore.InputFrame) {
	if d.gameOver {
		return
	}
	choice, ok := chosenOption(in)
	if !ok {
		return
	}
	if d.attacker(player).cooldown > 0 {
		return
	}
	d.fire(player, choice)
}

// fire spends the chosen pool (or falls back to the fading attack when it
// is empty) and lands the bolt on the opponent.
func (d *Duel) fire(player platformcore.PlayerID, poolIdx int) {
	att := d.attacker(player)
	def := d.defender(player)

	damage := d.fallbackDamage
	color := d.theme.FallbackBolt
	if poolIdx >= 0 && poolIdx < len(att.pools) && att.pools[poolIdx].Charges > 0 {
		att.pools[poolIdx].Charges--
		damage = att.pools[poolIdx].Damage
		color = d.theme.PoolColor(att.pools[poolIdx].Name)
	}

	from, to := playerAnchor, enemyAnchor
	if player == platformcore.Player2 {
		from, to = enemyAnchor, playerAnchor
	}
	d.stage.AddBolts(core.Generate(d.rng, from, to, 0, color, d.theme.WidthFactor))
	d.stage.SetFlash(attackFlash)
	d.stage.SetShake(attackShake)

	att.dealt += damage
	att.cooldown = d.cooldownTicks
	def.hp = clampHealth(def.hp - damage)
	if def.hp <= 0 {
		d.gameOver = true
		d.winner = player
	}
}

func (d *Duel) attacker(player platformcore.PlayerID) *duelSide {
	if player == platformcore.Player2 {
		return &d.side2
	}
	return &d.side1
}

func (d *Duel) defender(player platformcore.PlayerID) *duelSide {
	if player == platformcore.Player2 {
		return &d.side1
	}
	return &d.side2
}

// IsGameOver returns true when one side has fallen.
func (d *Duel) IsGameOver() bool {
	return d.gameOver
}

// Winner returns the winning player, or 0 while the duel runs.
func (d *Duel) Winner() platformcore.PlayerID {
	return d.winner
}

// Score1 returns the damage player 1 has dealt, rounded down.
func (d *Duel) Score1() int {
	return int(d.side1.dealt)
}

// Score2 returns the damage player 2 has dealt, rounded down.
func (d *Duel) Score2() int {
	return int(d.side2.dealt)
}

// DuelSnapshot is the wire view of one duel tick. Bolts are deep copies;
// the client renders them through the same compositor the local games use.
type DuelSnapshot struct {
	Tick uint64

	HP1    float64
	HP2    float64
	Pools1 []Pool
	Pools2 []Pool

	Cooldown1 int
	Cooldown2 int

	Bolts   []core.Bolt
	Flash   float64
	Shake   float64
	OffsetX float64
	OffsetY float64

	Theme    string
	GameOver bool
	Winner   platformcore.PlayerID
}

// IsGameSnapshot marks DuelSnapshot as a multiplayer snapshot payload.
func (DuelSnapshot) IsGameSnapshot() {}

// Ensure Duel satisfies the online match contract.
var (
	_ multiplayer.OnlineGame   = (*Duel)(nil)
	_ multiplayer.GameSnapshot = DuelSnapshot{}
)

// Snapshot captures the current duel state for broadcast.
func (d *Duel) Snapshot() multiplayer.GameSnapshot {
	ox, oy := d.stage.Offset()
	return DuelSnapshot{
		Tick:      d.tick,
		HP1:       d.side1.hp,
		HP2:       d.side2.hp,
		Pools1:    append([]Pool(nil), d.side1.pools...),
		Pools2:    append([]Pool(nil), d.side2.pools...),
		Cooldown1: d.side1.cooldown,
		Cooldown2: d.side2.cooldown,
		Bolts:     snapshotBolts(d.stage),
		Flash:     d.stage.Flash(),
		Shake:     d.stage.Shake(),
		OffsetX:   ox,
		OffsetY:   oy,
		Theme:     d.theme.Name,
		GameOver:  d.gameOver,
		Winner:    d.winner,
	}
}

// snapshotBolts deep-copies the live bolts so the snapshot survives later
// stage mutation.
func snapshotBolts(st *core.Stage) []core.Bolt {
	src := st.Bolts()
	out := make([]core.Bolt, len(src))
	for i, b := range src {
		cp := *b
		cp.Segments = append([]core.Segment(nil), b.Segments...)
		out[i] = cp
	}
	return out
}
