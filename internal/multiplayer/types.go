// Package multiplayer provides the transport-neutral layer behind online
// duels: session tracking, lobby pairing by join code, and the
// authoritative match loop. It knows nothing about SSH or Bubble Tea; the
// TUI layer bridges those.
package multiplayer

import "github.com/lexibolt/lexibolt/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 is always the local human player, Player2 can be CPU or remote player.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
// Used to track individual connections and potentially pair them for matches.
type SessionID string

// MatchID uniquely identifies a game match.
// A match can involve one or more sessions depending on mode.
type MatchID string

// MatchMode defines how a game match is configured.
type MatchMode int

const (
	// MatchModeSolo is a single-player game (quiz, reading).
	MatchModeSolo MatchMode = iota

	// MatchModeVsCPU is a battle against the scripted enemy.
	MatchModeVsCPU

	// MatchModeOnlinePvP is a duel between two connected sessions.
	MatchModeOnlinePvP
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeSolo:
		return "Solo"
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
// Games receive this to know their context without managing match lifecycle.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// Platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs tracks which sessions are part of this match.
	// For Solo/VsCPU: one session. For OnlinePvP: two sessions.
	SessionIDs []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
