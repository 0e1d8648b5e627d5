package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games in the games dir",
	Long:  `Shows every parseable game file in paths.games_dir and the registered rendering backends.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	games, err := game.List(cfg.Paths.GamesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(games) == 0 {
		fmt.Printf("No games found in %s.\n", cfg.Paths.GamesDir)
	} else {
		fmt.Println("Available games:")
		fmt.Println()

		// Calculate column widths
		maxNameLen := 4 // "Name" header
		for _, g := range games {
			if len(g.Name) > maxNameLen {
				maxNameLen = len(g.Name)
			}
		}

		fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Title")
		fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----")
		for _, g := range games {
			fmt.Printf("  %-*s  %s\n", maxNameLen, g.Name, g.Title)
		}
	}

	fmt.Println()
	fmt.Println("Backends:")
	for _, b := range render.List() {
		marker := " "
		if b.Name == cfg.Render.Backend {
			marker = "*"
		}
		fmt.Printf(" %s %-10s %s\n", marker, b.Name, b.Description)
	}

	fmt.Println()
	fmt.Println("Run 'b18print <name> <version>' to render a game.")
}
