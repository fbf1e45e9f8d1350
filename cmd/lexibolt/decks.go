package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexibolt/lexibolt/internal/vocab"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Inspect vocabulary decks",
	Long: `List, show and validate the vocabulary decks the games draw from.

Decks shipped with lexibolt are embedded in the binary. Your own decks go
in ~/.lexibolt/decks/ as YAML files; a user deck with the same ID as an
embedded one replaces it.

Examples:
  lexibolt decks list
  lexibolt decks show starter
  lexibolt decks check ./my-deck.yaml`,
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available decks",
	Run:   runDecksList,
}

var decksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one deck in full",
	Args:  cobra.ExactArgs(1),
	Run:   runDecksShow,
}

var decksCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a deck file",
	Long: `Parse and validate a deck YAML file without installing it.

Exits non-zero when the deck is invalid, with the reason on stderr.`,
	Args: cobra.ExactArgs(1),
	Run:  runDecksCheck,
}

func init() {
	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksShowCmd)
	decksCmd.AddCommand(decksCheckCmd)
}

func runDecksList(cmd *cobra.Command, args []string) {
	loader := vocab.NewLoader(vocab.DefaultRoot())
	decks, err := loader.LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading decks: %v\n", err)
		os.Exit(1)
	}

	if len(decks) == 0 {
		fmt.Println("No decks available.")
		return
	}

	fmt.Println("Available decks:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, d := range decks {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-6s  %-8s  %s\n", maxIDLen, "ID", "Words", "Passages", "Title")
	fmt.Printf("  %-*s  %-6s  %-8s  %s\n", maxIDLen, "--", "-----", "--------", "-----")

	// Print decks
	for _, d := range decks {
		fmt.Printf("  %-*s  %-6d  %-8d  %s\n", maxIDLen, d.ID, len(d.Entries), len(d.Passages), d.Title)
	}

	fmt.Println()
	fmt.Println("Run 'lexibolt decks show <id>' to see a deck's words.")
	fmt.Printf("Drop your own YAML decks in %s\n", vocab.DefaultRoot())
}

func runDecksShow(cmd *cobra.Command, args []string) {
	loader := vocab.NewLoader(vocab.DefaultRoot())
	deck, err := loader.LoadByID(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", deck.Title, deck.ID)
	if deck.Language != "" {
		fmt.Printf("Language: %s\n", deck.Language)
	}
	fmt.Println()

	// Entries grouped by level, easy words first
	for level := vocab.MinLevel; level <= vocab.MaxLevel; level++ {
		entries := deck.EntriesByLevel(level)
		if len(entries) == 0 {
			continue
		}

		fmt.Printf("Level %d:\n", level)
		for _, e := range entries {
			if e.Hint != "" {
				fmt.Printf("  %-16s %s  (hint: %s)\n", e.Word, e.Meaning, e.Hint)
			} else {
				fmt.Printf("  %-16s %s\n", e.Word, e.Meaning)
			}
		}
		fmt.Println()
	}

	if len(deck.Passages) > 0 {
		fmt.Println("Passages:")
		for _, p := range deck.Passages {
			fmt.Printf("  %s  (%d words to find)\n", p.Title, len(p.Targets))
		}
		fmt.Println()
	}

	fmt.Printf("%d entries, %d passages\n", len(deck.Entries), len(deck.Passages))
}

func runDecksCheck(cmd *cobra.Command, args []string) {
	path := args[0]

	deck, err := vocab.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid deck: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %s (%s) - %d entries, %d passages\n",
		deck.Title, deck.ID, len(deck.Entries), len(deck.Passages))
	fmt.Printf("Install it with: cp %s %s/\n", path, vocab.DefaultRoot())
}
