package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle"
	boltcore "github.com/lexibolt/lexibolt/internal/games/battle/core"
	"github.com/lexibolt/lexibolt/internal/multiplayer"
)

// duelHUDHeight rows: title, separator, controls, separator.
const duelHUDHeight = 4

// duelPanelHeight is the bottom panel: strike list header, three pools,
// status line.
const duelPanelHeight = 5

// DuelClientModel renders one side of an online duel. The server simulates;
// this model only draws the latest snapshot and forwards strike inputs to
// the coordinator.
type DuelClientModel struct {
	matchID     multiplayer.MatchID
	side        core.PlayerID
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	eventChan   <-chan multiplayer.SessionEvent

	screen *core.Screen
	frame  *boltcore.Frame
	theme  battle.Theme

	snap    battle.DuelSnapshot
	hasSnap bool

	matchOver bool
	endReason string
	endWinner core.PlayerID
	endScore1 int
	endScore2 int

	keyMapper *KeyMapper

	width    int
	height   int
	arenaX   int
	arenaY   int
	arenaW   int
	arenaH   int
	tooSmall bool

	backToMenu bool
	quitting   bool
}

// NewDuelClientModel creates a client for a started duel match.
func NewDuelClientModel(
	matchID multiplayer.MatchID,
	side core.PlayerID,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) DuelClientModel {
	m := DuelClientModel{
		matchID:     matchID,
		side:        side,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
		screen:      core.NewScreen(width, height),
		theme:       battle.ThemeByName(""),
		keyMapper:   NewKeyMapper(),
		width:       width,
		height:      height,
	}
	m.relayout()
	return m
}

// relayout places the arena between the HUD and the strike panel.
func (m *DuelClientModel) relayout() {
	m.arenaX = 1
	m.arenaY = duelHUDHeight + 2 // health bar row + pools row
	m.arenaW = m.width - 2
	m.arenaH = m.height - m.arenaY - duelPanelHeight - 1

	if m.arenaW < 24 || m.arenaH < 5 {
		m.tooSmall = true
		return
	}
	m.tooSmall = false

	if m.frame == nil {
		m.frame = boltcore.NewFrame(m.arenaW, m.arenaH)
	} else {
		m.frame.Resize(m.arenaW, m.arenaH)
	}
}

// Init starts listening for coordinator events.
func (m DuelClientModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m DuelClientModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m DuelClientModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.relayout()
		return m, nil

	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID {
			if snap, ok := msg.Snapshot.(battle.DuelSnapshot); ok {
				if !m.hasSnap || snap.Theme != m.snap.Theme {
					m.theme = battle.ThemeByName(snap.Theme)
				}
				m.snap = snap
				m.hasSnap = true
			}
		}
		return m, m.waitForEvent()

	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.matchOver = true
			m.endReason = msg.Reason.String()
			m.endWinner = msg.Winner
			m.endScore1 = msg.Score1
			m.endScore2 = msg.Score2
		}
		return m, m.waitForEvent()
	}

	return m, nil
}

func (m DuelClientModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frame := core.NewInputFrame()
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
		m.quitting = true
		return m, tea.Quit
	}

	if frame.Has(core.ActionBack) {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
		m.backToMenu = true
		return m, nil
	}

	if m.matchOver {
		return m, nil
	}

	// Only strike choices travel. Everything else is local.
	for _, a := range []core.Action{core.ActionOption1, core.ActionOption2, core.ActionOption3} {
		if frame.Has(a) {
			m.coordinator.Send(multiplayer.PlayerInputMsg{
				MatchID:  m.matchID,
				Player:   m.side,
				TickHint: m.snap.Tick,
				Input:    frame,
			})
			break
		}
	}

	return m, nil
}

// View renders the latest snapshot.
func (m DuelClientModel) View() string {
	if m.quitting {
		return ""
	}

	m.render()
	return RenderScreen(m.screen)
}

func (m DuelClientModel) render() {
	dst := m.screen
	dst.Clear()

	m.renderHUD(dst)

	if m.tooSmall {
		m.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	if !m.hasSnap {
		m.renderOverlay(dst, "Connecting", "Waiting for the arena feed")
		return
	}

	m.renderBars(dst)
	m.renderArena(dst)
	m.renderPanel(dst)

	if m.matchOver {
		m.renderEndOverlay(dst)
	}
}

// renderHUD draws the top status bar.
func (m DuelClientModel) renderHUD(dst *core.Screen) {
	you := "Player 1"
	if m.side == core.Player2 {
		you = "Player 2"
	}
	dst.DrawTextColored(0, 0, " Word Duel | You are "+you, m.theme.Accent)
	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorGray)
	dst.DrawTextColored(0, 2, " 1-3: Strike | B/Esc: Leave | Q: Quit", core.ColorGray)
	dst.DrawHLine(0, 3, dst.Width(), '─', core.ColorGray)
}

// renderBars draws both health bars, player 1 on the left to match the
// arena, with the opponent's remaining pools on the row below.
func (m DuelClientModel) renderBars(dst *core.Screen) {
	y := duelHUDHeight
	barW := (m.width - 24) / 2
	if barW < 8 {
		barW = 8
	}

	c1, c2 := core.ColorRed, m.theme.Accent
	if m.side == core.Player1 {
		c1, c2 = m.theme.Accent, core.ColorRed
	}

	dst.DrawTextColored(1, y, "P1", c1)
	frac1 := m.snap.HP1 / battle.MaxHealth
	m.renderBar(dst, 4, y, barW, frac1, duelHealthColor(frac1))
	dst.DrawTextColored(5+barW, y, fmt.Sprintf("%.0f", m.snap.HP1), core.ColorGray)

	labelX := m.width - 3
	dst.DrawTextColored(labelX, y, "P2", c2)
	frac2 := m.snap.HP2 / battle.MaxHealth
	barX := labelX - 1 - barW
	m.renderBar(dst, barX, y, barW, frac2, duelHealthColor(frac2))
	hp2 := fmt.Sprintf("%.0f", m.snap.HP2)
	dst.DrawTextColored(barX-1-len(hp2), y, hp2, core.ColorGray)

	m.renderOpponentPools(dst, y+1)
}

func (m DuelClientModel) renderBar(dst *core.Screen, x, y, width int, frac float64, c core.Color) {
	filled := int(frac*float64(width) + 0.5)
	for i := 0; i < width; i++ {
		if i < filled {
			dst.SetCell(x+i, y, '█', c)
		} else {
			dst.SetCell(x+i, y, '░', core.ColorGray)
		}
	}
}

func duelHealthColor(frac float64) core.Color {
	switch {
	case frac > 0.5:
		return core.ColorGreen
	case frac > 0.25:
		return core.ColorYellow
	default:
		return core.ColorRed
	}
}

// renderOpponentPools draws the opponent's remaining charges right-aligned,
// so you can see what they have left to throw at you.
func (m DuelClientModel) renderOpponentPools(dst *core.Screen, y int) {
	pools := m.snap.Pools2
	if m.side == core.Player2 {
		pools = m.snap.Pools1
	}

	x := m.width - 1
	for i := len(pools) - 1; i >= 0; i-- {
		p := pools[i]
		text := fmt.Sprintf("%s:%d", p.Name, p.Charges)
		x -= len(text)
		color := m.theme.PoolAccent(p.Name)
		if p.Charges == 0 {
			color = core.ColorGray
		}
		dst.DrawTextColored(x, y, text, color)
		x -= 2
	}
}

// renderArena composites the snapshot bolts into the cell frame the same
// way the local battle does with its live stage.
func (m DuelClientModel) renderArena(dst *core.Screen) {
	a1, a2 := battle.Anchors()
	x1, y1 := m.arenaCell(a1)
	x2, y2 := m.arenaCell(a2)

	c1, c2 := core.ColorRed, m.theme.Accent
	if m.side == core.Player1 {
		c1, c2 = m.theme.Accent, core.ColorRed
	}
	dst.SetCell(m.arenaX+x1, m.arenaY+y1, '◆', c1)
	dst.SetCell(m.arenaX+x2, m.arenaY+y2, '◆', c2)

	m.frame.Reset()
	if m.snap.Flash > 0 {
		m.frame.FillWhite(m.snap.Flash)
	}
	off := boltcore.Vec{X: m.snap.OffsetX, Y: m.snap.OffsetY}
	for i := range m.snap.Bolts {
		m.frame.DrawBolt(&m.snap.Bolts[i], off)
	}

	for cy := 0; cy < m.frame.Height(); cy++ {
		for cx := 0; cx < m.frame.Width(); cx++ {
			cell := m.frame.Cell(cx, cy)
			if cell.Level == boltcore.LevelBlank {
				continue
			}
			color := m.theme.CellColor(cell.Level, m.frame.Pixel(cx, cy))
			dst.SetCell(m.arenaX+cx, m.arenaY+cy, cell.Rune, color)
		}
	}
}

// arenaCell maps an arena-space point to a frame cell.
func (m DuelClientModel) arenaCell(v boltcore.Vec) (int, int) {
	x := int(v.X / boltcore.ArenaW * float64(m.arenaW))
	y := int(v.Y / boltcore.ArenaH * float64(m.arenaH))
	return core.Clamp(x, 0, m.arenaW-1), core.Clamp(y, 0, m.arenaH-1)
}

// renderPanel draws the bottom strike panel: your pools as numbered options
// and the recharge status.
func (m DuelClientModel) renderPanel(dst *core.Screen) {
	sepY := m.height - duelPanelHeight - 1
	dst.DrawHLine(0, sepY, dst.Width(), '─', core.ColorGray)

	pools := m.snap.Pools1
	cooldown := m.snap.Cooldown1
	if m.side == core.Player2 {
		pools = m.snap.Pools2
		cooldown = m.snap.Cooldown2
	}

	dst.DrawTextColored(1, sepY+1, "Pick your strike:", core.ColorBrightWhite)
	for i, p := range pools {
		if i >= 3 {
			break
		}
		line := fmt.Sprintf("[%d] %s  %.0f dmg  x%d", i+1, p.Name, p.Damage, p.Charges)
		color := m.theme.PoolAccent(p.Name)
		if p.Charges == 0 {
			color = core.ColorGray
		}
		dst.DrawTextColored(1, sepY+2+i, line, color)
	}

	statusY := m.height - 1
	if cooldown > 0 {
		dst.DrawTextColored(1, statusY, "Recharging...", core.ColorGray)
	} else {
		dst.DrawTextColored(1, statusY, "Ready!", m.theme.Accent)
	}
}

// renderEndOverlay draws the match result box.
func (m DuelClientModel) renderEndOverlay(dst *core.Screen) {
	line1 := m.endReason
	switch {
	case m.endWinner == m.side:
		line1 = "VICTORY"
	case m.endWinner != 0:
		line1 = "DEFEAT"
	}
	line2 := fmt.Sprintf("%s | %d - %d | B: Menu", m.endReason, m.endScore1, m.endScore2)
	m.renderOverlay(dst, line1, line2)
}

// renderOverlay draws a centered boxed message.
func (m DuelClientModel) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := core.Max(len(line1), len(line2)) + 6
	boxH := 5
	r := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, m.theme.Accent)
	dst.DrawTextCenteredColored(r.Y+1, line1, core.ColorBrightWhite)
	dst.DrawTextCenteredColored(r.Y+3, line2, core.ColorGray)
}

// BackToMenu returns true if user wants to go back to menu.
func (m DuelClientModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m DuelClientModel) IsQuitting() bool {
	return m.quitting
}
