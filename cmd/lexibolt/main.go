// lexibolt is a terminal word arcade: vocabulary games with lightning.
//
// Usage:
//
//	lexibolt list              - List available games
//	lexibolt play <game>       - Play a game
//	lexibolt menu              - Start menu to pick games interactively
//	lexibolt serve             - Start SSH server for remote play and duels
//	lexibolt scores            - Browse scores and match records
//	lexibolt decks             - Inspect vocabulary decks
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.lexibolt/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/lexibolt/lexibolt/internal/games/battle"
	_ "github.com/lexibolt/lexibolt/internal/games/quiz"
	_ "github.com/lexibolt/lexibolt/internal/games/reading"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lexibolt",
	Short: "Lexibolt - Word games with lightning in your terminal",
	Long: `Lexibolt is a terminal word arcade. Answer vocabulary prompts to
throw lightning bolts at your opponent, quiz yourself on a deck, or hunt
target words through a reading passage.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play and online duels
  scores   - Browse scores and match records
  decks    - Inspect vocabulary decks

Examples:
  lexibolt list
  lexibolt play battle
  lexibolt play battle --mode storm
  lexibolt menu
  lexibolt serve --address :2222
  lexibolt scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lexibolt/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(decksCmd)
}
