// Package storage provides SQLite-based persistence for scores, battle
// outcomes, and online duel results. Uses the pure-Go modernc.org/sqlite
// driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/lexibolt/lexibolt/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Battle outcomes as stored in the battles table.
const (
	BattleOutcomeWon  = "won"
	BattleOutcomeLost = "lost"
)

// BattleRecord represents one finished battle against the enemy.
type BattleRecord struct {
	ID           int64
	GameID       string
	Outcome      string // "won" or "lost"
	PlayerHP     float64
	EnemyHP      float64
	Rounds       int     // Prompts answered during the battle
	AccuracyPct  float64 // Correct answers as a percentage of rounds
	DurationSecs int
	CreatedAt    time.Time
}

// DuelRecord represents the outcome of an online duel.
type DuelRecord struct {
	ID           int64
	MatchID      string
	GameID       string
	Player1      string
	Player2      string
	Score1       int
	Score2       int
	Winner       string // Empty if nobody won (disconnect before first blood)
	EndReason    string
	DurationSecs int
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS battles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			player_hp REAL NOT NULL DEFAULT 0,
			enemy_hp REAL NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			accuracy_pct REAL NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_battles_game_id ON battles(game_id);

		CREATE TABLE IF NOT EXISTS duels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_duels_game_id ON duels(game_id);
		CREATE INDEX IF NOT EXISTS idx_duels_player1 ON duels(player1);
		CREATE INDEX IF NOT EXISTS idx_duels_player2 ON duels(player2);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scanTime normalizes a scanned created_at value. The driver hands back
// either a time.Time or the raw column text depending on how the value
// was written.
func scanTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse("2006-01-02 15:04:05", string(t)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return collectScores(rows)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return collectScores(rows)
}

func collectScores(rows *sql.Rows) ([]ScoreEntry, error) {
	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = scanTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveBattle records a finished battle.
// Returns the ID of the inserted record.
func (s *Store) SaveBattle(rec BattleRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO battles
		 (game_id, outcome, player_hp, enemy_hp, rounds, accuracy_pct, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID,
		rec.Outcome,
		rec.PlayerHP,
		rec.EnemyHP,
		rec.Rounds,
		rec.AccuracyPct,
		rec.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save battle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentBattles retrieves the most recent battles across all battle games.
func (s *Store) RecentBattles(limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	// id breaks ties between battles saved within the same second.
	rows, err := s.db.Query(
		`SELECT id, game_id, outcome, player_hp, enemy_hp, rounds, accuracy_pct, duration_secs, created_at
		 FROM battles
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query battles: %w", err)
	}
	defer rows.Close()

	var records []BattleRecord
	for rows.Next() {
		var rec BattleRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID,
			&rec.GameID,
			&rec.Outcome,
			&rec.PlayerHP,
			&rec.EnemyHP,
			&rec.Rounds,
			&rec.AccuracyPct,
			&rec.DurationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = scanTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// BattleTally returns how many battles were won and lost for the given game.
func (s *Store) BattleTally(gameID string) (wins, losses int, err error) {
	rows, err := s.db.Query(
		"SELECT outcome, COUNT(*) FROM battles WHERE game_id = ? GROUP BY outcome",
		gameID,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query battle tally: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return 0, 0, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		switch outcome {
		case BattleOutcomeWon:
			wins = count
		case BattleOutcomeLost:
			losses = count
		}
	}

	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return wins, losses, nil
}

// SaveDuel records the result of an online duel. Saving the same match ID
// twice updates the existing row instead of failing, so a retried save is
// harmless. Returns the ID of the stored record.
func (s *Store) SaveDuel(rec DuelRecord) (int64, error) {
	_, err := s.db.Exec(
		`INSERT INTO duels
		 (match_id, game_id, player1, player2, score1, score2, winner, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(match_id) DO UPDATE SET
		   score1 = excluded.score1,
		   score2 = excluded.score2,
		   winner = excluded.winner,
		   end_reason = excluded.end_reason,
		   duration_secs = excluded.duration_secs`,
		rec.MatchID,
		rec.GameID,
		rec.Player1,
		rec.Player2,
		rec.Score1,
		rec.Score2,
		rec.Winner,
		rec.EndReason,
		rec.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save duel: %w", err)
	}

	// LastInsertId is unreliable on the update path, so look the row up.
	var id int64
	if err := s.db.QueryRow("SELECT id FROM duels WHERE match_id = ?", rec.MatchID).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage: cannot get saved duel ID: %w", err)
	}

	return id, nil
}

// DuelByMatchID retrieves a duel by its match ID.
// Returns nil without error when no such match exists.
func (s *Store) DuelByMatchID(matchID string) (*DuelRecord, error) {
	var rec DuelRecord
	var createdAt any
	var winner sql.NullString

	err := s.db.QueryRow(
		`SELECT id, match_id, game_id, player1, player2,
		        score1, score2, winner, end_reason, duration_secs, created_at
		 FROM duels
		 WHERE match_id = ?`,
		matchID,
	).Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.GameID,
		&rec.Player1,
		&rec.Player2,
		&rec.Score1,
		&rec.Score2,
		&winner,
		&rec.EndReason,
		&rec.DurationSecs,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duel: %w", err)
	}

	if winner.Valid {
		rec.Winner = winner.String
	}
	rec.CreatedAt = scanTime(createdAt)

	return &rec, nil
}

// RecentDuels retrieves the most recent duels.
func (s *Store) RecentDuels(limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1, player2,
		        score1, score2, winner, end_reason, duration_secs, created_at
		 FROM duels
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	defer rows.Close()

	return collectDuels(rows)
}

// PlayerDuelHistory retrieves duel history for a specific player session.
func (s *Store) PlayerDuelHistory(player string, limit int) ([]DuelRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, player1, player2,
		        score1, score2, winner, end_reason, duration_secs, created_at
		 FROM duels
		 WHERE player1 = ? OR player2 = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player duels: %w", err)
	}
	defer rows.Close()

	return collectDuels(rows)
}

func collectDuels(rows *sql.Rows) ([]DuelRecord, error) {
	var records []DuelRecord
	for rows.Next() {
		var rec DuelRecord
		var createdAt any
		var winner sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.GameID,
			&rec.Player1,
			&rec.Player2,
			&rec.Score1,
			&rec.Score2,
			&winner,
			&rec.EndReason,
			&rec.DurationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winner.Valid {
			rec.Winner = winner.String
		}
		rec.CreatedAt = scanTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter lets the coordinator save duel results without a direct
// storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	rec := DuelRecord{
		MatchID:      data.MatchID,
		GameID:       data.GameID,
		Player1:      data.Player1Session,
		Player2:      data.Player2Session,
		Score1:       data.Score1,
		Score2:       data.Score2,
		Winner:       data.WinnerSession,
		EndReason:    data.EndReason,
		DurationSecs: data.DurationSecs,
	}
	_, err := s.SaveDuel(rec)
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	// Get count, high, avg, total
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	// Get last played
	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = scanTime(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = scanTime(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
