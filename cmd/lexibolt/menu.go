package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lexibolt/lexibolt/internal/core"
	"github.com/lexibolt/lexibolt/internal/games/battle"
	"github.com/lexibolt/lexibolt/internal/games/quiz"
	"github.com/lexibolt/lexibolt/internal/games/reading"
	"github.com/lexibolt/lexibolt/internal/platform/tui"
	"github.com/lexibolt/lexibolt/internal/registry"
	"github.com/lexibolt/lexibolt/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start lexibolt with a game picker menu",
	Long: `Start lexibolt in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scores and records
  Q            - Quit

Examples:
  lexibolt menu
  lexibolt menu --fps 30
  lexibolt menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants the records browser
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		// Walk the game's selection flow before creation
		switch gameID {
		case "battle":
			battle.SetConfigPath(flagConfig)

			selection, selErr := tui.RunBattleMenu(cfg)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				continue
			}

			// User pressed back or quit
			if selection == nil {
				continue
			}

			gameID = selection.GameID
			battle.SetDifficulty(selection.Difficulty)
			battle.SetDeck(selection.DeckID)

		case "quiz":
			quiz.SetConfigPath(flagConfig)
			quiz.SetDifficulty(flagDifficulty)

			quizSelection, quizErr := tui.RunQuizMenu(cfg)
			if quizErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", quizErr)
				continue
			}

			// User pressed back or quit
			if quizSelection == nil {
				continue
			}

			quiz.SetDeck(quizSelection.DeckID)
			quiz.SetLength(quizSelection.Length)

		case "reading":
			reading.SetConfigPath(flagConfig)
			reading.SetDifficulty(flagDifficulty)

			readingSelection, readingErr := tui.RunReadingMenu(cfg)
			if readingErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", readingErr)
				continue
			}

			// User pressed back or quit
			if readingSelection == nil {
				continue
			}

			reading.SetDeck(readingSelection.DeckID)
			reading.SetPassage(readingSelection.Passage)
		}

		// Create game instance
		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Update seed for each game
		cfg.Seed = time.Now().UnixNano()

		// Run the game
		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
