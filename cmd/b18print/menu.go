package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/pipeline"
	"github.com/vovakirdan/b18print/internal/platform/tui"
	"github.com/vovakirdan/b18print/internal/storage"
)

var flagMenuAuthor string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a game to render interactively",
	Long: `Start the interactive game picker.

Use arrow keys or j/k to navigate and Enter to pick a game, then type the
version to render. After a render you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Render history
  Q            - Quit

Examples:
  b18print menu
  b18print menu --author "Rich Price"`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagMenuAuthor, "author", "", "Author written into the manifest")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	games, err := game.List(cfg.Paths.GamesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Paths.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		var stats map[string]*storage.GameStats
		if store != nil {
			stats, _ = store.AllGameStats()
		}

		result, err := tui.RunMenu(games, stats, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		if result.WantsHistory {
			if store == nil {
				fmt.Fprintln(os.Stderr, "History is unavailable without a database.")
				continue
			}
			goBack, err := tui.RunHistory(store, historyGames(store), width, height)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				break
			}
			if goBack {
				continue
			}
			break
		}

		if result.Quit {
			break
		}

		req := pipeline.Request{Name: result.Game, Version: result.Version, Author: flagMenuAuthor}
		// Render errors are logged; the menu comes back either way.
		_ = renderGame(ctx, cfg, logger, req)
		if ctx.Err() != nil {
			break
		}
	}
}
