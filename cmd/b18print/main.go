// b18print renders the print assets of a board18 game: map, market, token and
// tile sheets, a placement manifest and a zip archive.
//
// Usage:
//
//	b18print <game> <version> [author]  - Render a game version
//	b18print debug                      - Run the content server only
//	b18print list                       - List games in the games dir
//	b18print layout <game>              - Show computed sheet metrics
//	b18print schema                     - Write the manifest JSON schema
//	b18print history [game]             - Show past renders
//	b18print menu                       - Pick a game interactively
//	b18print serve                      - Same as debug
//
// Global flags:
//
//	--config <path>     - Config override file
//	--log-level <lvl>   - debug, info, warn or error
//	--backend <name>    - Rendering backend (raster, chromium)
//	--out <dir>         - Output directory
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/render"

	// Import backends to register them
	_ "github.com/vovakirdan/b18print/internal/render/chromium"
	_ "github.com/vovakirdan/b18print/internal/render/raster"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagBackend  string
	flagOut      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "b18print <game> <version> [author]",
	Short: "Render board18 print assets for a game",
	Long: `b18print renders every printable sheet of a game through a local
content server, writes the board18 manifest and packs everything into a zip.

Outputs land in <out>/<game>/board18-<game>-<version>.zip with the manifest
next to it. Passing "debug" as the only argument starts the content server
and waits until interrupted.

Available commands:
  list     - Show games in the games dir
  layout   - Show computed metrics for a game
  schema   - Write the manifest JSON schema
  history  - Show past renders
  menu     - Interactive game picker
  serve    - Run the content server only

Examples:
  b18print 1889 1 "Rich Price"
  b18print 1830 2 --backend chromium
  b18print debug
  b18print layout 1889`,
	Args: cobra.RangeArgs(1, 3),
	Run:  runRender,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config override file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Rendering backend (overrides render.backend)")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "Output directory (overrides render.output_dir)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the layered config and applies the global flags. It exits
// on an invalid configuration.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagBackend != "" {
		cfg.Render.Backend = flagBackend
	}
	if flagOut != "" {
		cfg.Render.OutputDir = flagOut
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !render.Exists(cfg.Render.Backend) {
		fmt.Fprintf(os.Stderr, "Error: unknown backend %q\n", cfg.Render.Backend)
		for _, b := range render.List() {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", b.Name, b.Description)
		}
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the CLI logger and routes gg diagnostics through it.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "b18print",
	})

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	gg.SetLogger(slog.New(logger))
	return logger
}
