package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle"
	"github.com/lexibolt/lexibolt/internal/multiplayer"
	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/storage"
)

// sessionEventBuffer is the per-connection event buffer; the coordinator
// drops oldest on overflow.
const sessionEventBuffer = 64

// sessionHandleKey stores the multiplayer handle on the SSH context.
type sessionHandleKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.lexibolt/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.lexibolt/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves lexibolt over SSH via Wish: every connection gets the
// full session flow, and the embedded coordinator pairs duels across
// connections.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lexibolt-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), duelFactory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".lexibolt", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// duelFactory builds the authoritative server-side game for an online
// match. The lobby's game ID picks the arena theme.
func duelFactory(gameID string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	var theme battle.Theme
	switch gameID {
	case "battle", "":
		theme = battle.ClassicTheme()
	case "battle_storm":
		theme = battle.StormTheme()
	default:
		return nil, fmt.Errorf("game %q has no duel variant", gameID)
	}

	d := battle.NewDuel(theme)
	d.Reset(cfg)
	return d, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	handle, _ := sshSession.Context().Value(sessionHandleKey{}).(*multiplayer.ChannelSession)

	model := NewSessionModel(s.store, cfg, sshSession.User(), handle, s.coordinator)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionMiddleware provisions the multiplayer handle for a connection and
// tears it down when the connection ends, so half-open lobbies and matches
// resolve even on abrupt disconnects.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
		handle := multiplayer.NewChannelSession(id, sessionEventBuffer)
		s.sessions.Register(handle)
		sshSession.Context().SetValue(sessionHandleKey{}, handle)

		next(sshSession)

		handle.Close()
		s.sessions.Unregister(id)
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState tracks which screen an SSH session is on.
type sessionState int

const (
	sessionStateMenu sessionState = iota
	sessionStateScores
	sessionStateGame
	sessionStateLobby
	sessionStateDuel
)

// SessionModel manages the full session flow over SSH: menu, scoreboard,
// local games, and the duel lobby with its client.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	sessionID   multiplayer.SessionID
	handle      *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator

	state     sessionState
	menu      MenuModel
	scores    ScoreboardModel
	gameModel *GameModel
	lobby     *OnlineLobbyModel
	duel      *DuelClientModel

	quitting bool
}

// NewSessionModel creates a new session model. handle may be nil, which
// disables the online entry.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	username string,
	handle *multiplayer.ChannelSession,
	coordinator *multiplayer.Coordinator,
) SessionModel {
	var id multiplayer.SessionID
	if handle != nil {
		id = handle.ID()
	} else {
		id = multiplayer.SessionID(fmt.Sprintf("%s-%d", username, time.Now().UnixNano()))
	}

	withOnline := handle != nil && coordinator != nil

	return SessionModel{
		store:       store,
		config:      cfg,
		username:    username,
		sessionID:   id,
		handle:      handle,
		coordinator: coordinator,
		menu:        NewMenuModel(store, cfg, withOnline),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case sessionStateGame:
		return m.updateGame(msg)
	case sessionStateScores:
		return m.updateScores(msg)
	case sessionStateLobby:
		return m.updateLobby(msg)
	case sessionStateDuel:
		return m.updateDuel(msg)
	default:
		return m.updateMenu(msg)
	}
}

// backToMenu drops the active sub-screen and rebuilds the menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.gameModel = nil
	m.lobby = nil
	m.duel = nil
	m.state = sessionStateMenu
	m.menu = NewMenuModel(m.store, m.config, m.handle != nil && m.coordinator != nil)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.state = sessionStateScores
		return m, m.scores.Init()
	}

	// Check if a game was selected
	if selected := m.menu.Selected(); selected != nil {
		m.config = m.menu.Config() // Get possibly updated config from resize

		if selected.GameID == OnlineDuelGameID {
			lobby := NewOnlineLobbyModel(
				m.sessionID,
				m.coordinator,
				m.handle.Events(),
				m.config.ScreenW,
				m.config.ScreenH,
			)
			m.lobby = &lobby
			m.state = sessionStateLobby
			return m, m.lobby.Init()
		}

		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			return m, nil
		}

		gameModel := NewGameModel(game, m.store, m.config)
		m.gameModel = &gameModel
		m.state = sessionStateGame

		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScores handles updates when on the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}

	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateLobby handles updates during duel matchmaking.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.lobby.Update(msg)
	if lobby, ok := newModel.(OnlineLobbyModel); ok {
		m.lobby = &lobby
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.lobby.BackToMenu() {
		return m.backToMenu()
	}

	// Matched: hand the event stream over to the duel client.
	if m.lobby.State() == OnlineStateInMatch {
		duel := NewDuelClientModel(
			m.lobby.MatchID(),
			m.lobby.Side(),
			m.sessionID,
			m.coordinator,
			m.handle.Events(),
			m.config.ScreenW,
			m.config.ScreenH,
		)
		m.duel = &duel
		m.lobby = nil
		m.state = sessionStateDuel
		return m, m.duel.Init()
	}

	return m, cmd
}

// updateDuel handles updates during an online match.
func (m SessionModel) updateDuel(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.duel.Update(msg)
	if duel, ok := newModel.(DuelClientModel); ok {
		m.duel = &duel
	}

	if m.duel.BackToMenu() {
		return m.backToMenu()
	}

	if m.duel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionStateGame:
		return m.gameModel.View()
	case sessionStateScores:
		return m.scores.View()
	case sessionStateLobby:
		return m.lobby.View()
	case sessionStateDuel:
		return m.duel.View()
	default:
		return m.menu.View()
	}
}

// GameModel runs one registry game inside an SSH session, with multi-input
// mapping and back-to-menu handling.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a new game model.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if !m.gameState.GameOver {
			m.game.Reset(m.config)
		}
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Check for quit
	if m.keyMapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Check for back to menu (B or Esc when game over or paused)
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver

	// Run game simulation with Player1 input (games restart themselves on R)
	result := m.game.Step(m.inputFrame.Player1())
	m.gameState = result.State

	// A restart clears the previous game over; arm the save again.
	if wasOver && !m.gameState.GameOver {
		m.scoreSaved = false
	}

	// Save the result on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		saveGameResult(m.store, m.game, m.gameState)
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
