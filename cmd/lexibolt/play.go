package main

import (
	"fmt"
	"os"

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

var (
	flagConfig     string
	flagDifficulty string
	flagDeck       string
	flagMode       string
	flagPassage    string
	flagLength     int
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  1/2/3      - Pick an answer
  P          - Pause
  R          - Restart (after game over)
  B/Esc      - Back (after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slower counters, progresses to max
  normal - Standard pacing, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  lexibolt play battle
  lexibolt play battle --mode storm --difficulty hard
  lexibolt play quiz --deck voyager --length 5
  lexibolt play reading --deck starter --passage "The Harbor"
  lexibolt play battle --config ./my-battle.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagDeck, "deck", "", "Vocabulary deck ID (default: starter)")
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Battle variant: classic or storm")
	playCmd.Flags().StringVar(&flagPassage, "passage", "", "Reading passage title (default: first in deck)")
	playCmd.Flags().IntVar(&flagLength, "length", 0, "Quiz question count (0 = config default)")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'lexibolt list' to see available games.")
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
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

	// Set config path, deck and difficulty for games before creation
	switch gameID {
	case "battle", "battle_storm":
		battle.SetConfigPath(flagConfig)
		battle.SetDifficulty(flagDifficulty)
		battle.SetDeck(flagDeck)

		switch flagMode {
		case "":
			// Keep the variant named on the command line
		case "classic":
			gameID = "battle"
		case "storm":
			gameID = "battle_storm"
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown battle mode %q (want classic or storm)\n", flagMode)
			os.Exit(1)
		}

	case "quiz":
		quiz.SetConfigPath(flagConfig)
		quiz.SetDifficulty(flagDifficulty)
		quiz.SetDeck(flagDeck)
		quiz.SetLength(flagLength)

	case "reading":
		reading.SetConfigPath(flagConfig)
		reading.SetDifficulty(flagDifficulty)
		reading.SetDeck(flagDeck)
		reading.SetPassage(flagPassage)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
