package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexibolt/lexibolt/internal/multiplayer"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save some scores
	_, err = store.SaveScore("battle", 100)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("battle", 50)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	_, err = store.SaveScore("battle", 200)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Different game
	_, err = store.SaveScore("quiz", 500)
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	// Retrieve top scores for battle
	scores, err := store.TopScores("battle", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 {
		t.Errorf("Expected highest score to be 200, got %d", scores[0].Score)
	}
	if scores[1].Score != 100 {
		t.Errorf("Expected second score to be 100, got %d", scores[1].Score)
	}
	if scores[2].Score != 50 {
		t.Errorf("Expected third score to be 50, got %d", scores[2].Score)
	}

	// Retrieve top scores for quiz
	quizScores, err := store.TopScores("quiz", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(quizScores) != 1 {
		t.Errorf("Expected 1 quiz score, got %d", len(quizScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Save 5 scores
	for i := 0; i < 5; i++ {
		store.SaveScore("quiz", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("quiz", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No scores yet
	high, err := store.HighScore("reading")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	// Add scores
	store.SaveScore("reading", 100)
	store.SaveScore("reading", 300)
	store.SaveScore("reading", 200)

	high, err = store.HighScore("reading")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("battle", 100)
	store.SaveScore("battle", 200)
	store.SaveScore("quiz", 300)

	// Clear only battle scores
	err = store.ClearScores("battle")
	if err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	// Battle should be empty
	battleScores, _ := store.TopScores("battle", 10)
	if len(battleScores) != 0 {
		t.Errorf("Expected 0 battle scores after clear, got %d", len(battleScores))
	}

	// Quiz should still have scores
	quizScores, _ := store.TopScores("quiz", 10)
	if len(quizScores) != 1 {
		t.Errorf("Quiz scores should not be affected by clearing battle")
	}
}

func TestStoreAllScores(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Add many scores
	for i := 0; i < 20; i++ {
		store.SaveScore("quiz", i*10)
	}

	scores, err := store.AllScores("quiz")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreCreatesNestedDirs(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveBattle(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rec := BattleRecord{
		GameID:       "battle",
		Outcome:      BattleOutcomeWon,
		PlayerHP:     62.5,
		EnemyHP:      0,
		Rounds:       9,
		AccuracyPct:  77.8,
		DurationSecs: 95,
	}
	id, err := store.SaveBattle(rec)
	if err != nil {
		t.Fatalf("SaveBattle() failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected a non-zero battle ID")
	}

	battles, err := store.RecentBattles(10)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}
	if len(battles) != 1 {
		t.Fatalf("Expected 1 battle, got %d", len(battles))
	}

	got := battles[0]
	if got.GameID != "battle" || got.Outcome != BattleOutcomeWon {
		t.Errorf("Battle identity mismatch: %+v", got)
	}
	if got.PlayerHP != 62.5 || got.EnemyHP != 0 {
		t.Errorf("Battle HP mismatch: %v / %v", got.PlayerHP, got.EnemyHP)
	}
	if got.Rounds != 9 || got.AccuracyPct != 77.8 || got.DurationSecs != 95 {
		t.Errorf("Battle details mismatch: %+v", got)
	}
}

func TestStoreRecentBattlesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 1; i <= 3; i++ {
		_, err := store.SaveBattle(BattleRecord{
			GameID:  "battle",
			Outcome: BattleOutcomeLost,
			Rounds:  i,
		})
		if err != nil {
			t.Fatalf("SaveBattle() failed: %v", err)
		}
	}

	battles, err := store.RecentBattles(2)
	if err != nil {
		t.Fatalf("RecentBattles() failed: %v", err)
	}
	if len(battles) != 2 {
		t.Fatalf("Expected 2 battles with limit, got %d", len(battles))
	}

	// Newest first, even when saved within the same second
	if battles[0].Rounds != 3 || battles[1].Rounds != 2 {
		t.Errorf("Battles not in recency order: %d, %d", battles[0].Rounds, battles[1].Rounds)
	}
}

func TestStoreBattleTally(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	outcomes := []struct {
		gameID  string
		outcome string
	}{
		{"battle", BattleOutcomeWon},
		{"battle", BattleOutcomeWon},
		{"battle", BattleOutcomeLost},
		{"battle_storm", BattleOutcomeLost},
	}
	for _, o := range outcomes {
		if _, err := store.SaveBattle(BattleRecord{GameID: o.gameID, Outcome: o.outcome}); err != nil {
			t.Fatalf("SaveBattle() failed: %v", err)
		}
	}

	wins, losses, err := store.BattleTally("battle")
	if err != nil {
		t.Fatalf("BattleTally() failed: %v", err)
	}
	if wins != 2 || losses != 1 {
		t.Errorf("Expected 2/1 for battle, got %d/%d", wins, losses)
	}

	wins, losses, err = store.BattleTally("battle_storm")
	if err != nil {
		t.Fatalf("BattleTally() failed: %v", err)
	}
	if wins != 0 || losses != 1 {
		t.Errorf("Expected 0/1 for battle_storm, got %d/%d", wins, losses)
	}

	wins, losses, err = store.BattleTally("quiz")
	if err != nil {
		t.Fatalf("BattleTally() failed: %v", err)
	}
	if wins != 0 || losses != 0 {
		t.Errorf("Expected 0/0 for unplayed game, got %d/%d", wins, losses)
	}
}

func TestStoreSaveDuelUpsert(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rec := DuelRecord{
		MatchID:      "match-ABCDEF-1",
		GameID:       "duel",
		Player1:      "alice",
		Player2:      "bob",
		Score1:       12,
		Score2:       9,
		Winner:       "",
		EndReason:    "Match completed",
		DurationSecs: 40,
	}
	id1, err := store.SaveDuel(rec)
	if err != nil {
		t.Fatalf("SaveDuel() failed: %v", err)
	}

	// Saving the same match again must update, not duplicate or fail.
	rec.Score1 = 48
	rec.Winner = "alice"
	id2, err := store.SaveDuel(rec)
	if err != nil {
		t.Fatalf("SaveDuel() upsert failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Upsert changed the row ID: %d vs %d", id1, id2)
	}

	duels, err := store.RecentDuels(10)
	if err != nil {
		t.Fatalf("RecentDuels() failed: %v", err)
	}
	if len(duels) != 1 {
		t.Fatalf("Expected 1 duel after upsert, got %d", len(duels))
	}
	if duels[0].Score1 != 48 || duels[0].Winner != "alice" {
		t.Errorf("Upsert did not update the row: %+v", duels[0])
	}
}

func TestStoreDuelByMatchID(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Missing match: nil result, no error
	rec, err := store.DuelByMatchID("no-such-match")
	if err != nil {
		t.Fatalf("DuelByMatchID() failed: %v", err)
	}
	if rec != nil {
		t.Errorf("Expected nil for missing match, got %+v", rec)
	}

	_, err = store.SaveDuel(DuelRecord{
		MatchID:   "match-XYZ-9",
		GameID:    "duel",
		Player1:   "alice",
		Player2:   "bob",
		Score1:    100,
		Score2:    52,
		Winner:    "alice",
		EndReason: "Match completed",
	})
	if err != nil {
		t.Fatalf("SaveDuel() failed: %v", err)
	}

	rec, err = store.DuelByMatchID("match-XYZ-9")
	if err != nil {
		t.Fatalf("DuelByMatchID() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a duel record")
	}
	if rec.Player1 != "alice" || rec.Player2 != "bob" || rec.Winner != "alice" {
		t.Errorf("Duel record mismatch: %+v", rec)
	}
	if rec.Score1 != 100 || rec.Score2 != 52 {
		t.Errorf("Duel scores mismatch: %d / %d", rec.Score1, rec.Score2)
	}
}

func TestStorePlayerDuelHistory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	duels := []DuelRecord{
		{MatchID: "m1", GameID: "duel", Player1: "alice", Player2: "bob", EndReason: "Match completed"},
		{MatchID: "m2", GameID: "duel", Player1: "bob", Player2: "carol", EndReason: "Match completed"},
		{MatchID: "m3", GameID: "duel", Player1: "alice", Player2: "carol", EndReason: "Opponent disconnected"},
	}
	for _, d := range duels {
		if _, err := store.SaveDuel(d); err != nil {
			t.Fatalf("SaveDuel() failed: %v", err)
		}
	}

	history, err := store.PlayerDuelHistory("alice", 10)
	if err != nil {
		t.Fatalf("PlayerDuelHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("Expected 2 duels for alice, got %d", len(history))
	}

	history, err = store.PlayerDuelHistory("carol", 10)
	if err != nil {
		t.Fatalf("PlayerDuelHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("Expected 2 duels for carol, got %d", len(history))
	}

	history, err = store.PlayerDuelHistory("dave", 10)
	if err != nil {
		t.Fatalf("PlayerDuelHistory() failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected no duels for dave, got %d", len(history))
	}
}

func TestStoreSaveMatchResult(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Exercise the save path through the coordinator's interface.
	var saver multiplayer.MatchResultSaver = store
	err = saver.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "match-COORD-1",
		GameID:         "duel",
		Player1Session: "ssh-1",
		Player2Session: "ssh-2",
		Score1:         31,
		Score2:         100,
		WinnerSession:  "ssh-2",
		EndReason:      "Match completed",
		DurationSecs:   77,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	rec, err := store.DuelByMatchID("match-COORD-1")
	if err != nil {
		t.Fatalf("DuelByMatchID() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected the saved duel")
	}
	if rec.Winner != "ssh-2" || rec.Score2 != 100 || rec.DurationSecs != 77 {
		t.Errorf("Saved duel mismatch: %+v", rec)
	}
}

func TestStoreGameStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveScore("battle", 100)
	store.SaveScore("battle", 200)
	store.SaveScore("quiz", 90)

	stats, err := store.GetGameStats("battle")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("Expected 2 games, got %d", stats.GamesCount)
	}
	if stats.HighScore != 200 {
		t.Errorf("Expected high score 200, got %d", stats.HighScore)
	}
	if stats.AvgScore != 150 {
		t.Errorf("Expected average 150, got %v", stats.AvgScore)
	}
	if stats.TotalScore != 300 {
		t.Errorf("Expected total 300, got %d", stats.TotalScore)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 games, got %d", len(all))
	}
	if all["quiz"] == nil || all["quiz"].HighScore != 90 {
		t.Errorf("Quiz stats missing or wrong: %+v", all["quiz"])
	}
}
