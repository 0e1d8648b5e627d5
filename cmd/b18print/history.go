package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/b18print/internal/platform/tui"
	"github.com/vovakirdan/b18print/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [game]",
	Short: "Show past renders",
	Long: `Display recorded render runs, newest first.

On a terminal this opens an interactive table; tab cycles through games.
When stdout is not a terminal the runs are printed as plain text.

Examples:
  b18print history
  b18print history 1889 --limit 5
  b18print history | grep failed`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to print in plain mode")
}

func runHistory(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Paths.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if term.IsTerminal(int(os.Stdout.Fd())) && len(args) == 0 {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunHistory(store, historyGames(store), width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var runs []storage.Run
	if len(args) == 1 {
		runs, err = store.RunsForGame(args[0], flagHistoryLimit)
	} else {
		runs, err = store.RecentRuns(flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-10s  %-6s  %-16s  %s\n", "ID", "Game", "Version", "Status", "Assets", "Started", "Error")
	fmt.Printf("  %-4s  %-8s  %-8s  %-10s  %-6s  %-16s  %s\n", "--", "----", "-------", "------", "------", "-------", "-----")
	for _, r := range runs {
		fmt.Printf("  %-4d  %-8s  %-8s  %-10s  %-6d  %-16s  %s\n",
			r.ID, r.Game, r.Version, r.Status, r.Assets, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Error)
	}

	if len(args) == 1 {
		if last, err := store.LastSuccess(args[0]); err == nil && last != nil {
			fmt.Println()
			fmt.Printf("Last success: version %s, %s\n", last.Version, last.Archive)
		}
	}
}

// historyGames lists every game that has recorded runs.
func historyGames(store *storage.Store) []string {
	stats, err := store.AllGameStats()
	if err != nil {
		return nil
	}
	games := make([]string, 0, len(stats))
	for name := range stats {
		games = append(games, name)
	}
	sort.Strings(games)
	return games
}
