package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/contentserver"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content server only",
	Long: `Start the local content server that the renderer navigates, without
rendering anything. Useful for inspecting print pages in a browser.

The built site in render.site_dir is served when it exists. Every print route
also answers with its JSON sheet when requested with Accept: application/json,
and /sheets/<game>/<page> always does.

Examples:
  b18print serve
  b18print serve --addr localhost:9100
  curl localhost:9000/sheets/1889/market`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides render.address)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)
	if flagAddr != "" {
		cfg.Render.Address = flagAddr
	}

	cat, err := catalog.Open(cfg.Paths.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tile catalog: %v\n", err)
		os.Exit(1)
	}

	server := contentserver.New(contentserver.Options{
		Address: cfg.Render.Address,
		SiteDir: cfg.Render.SiteDir,
		Games:   contentserver.Dir(cfg.Paths.GamesDir),
		Catalog: cat,
		Config:  cfg,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Press Ctrl+C to stop")
	if err := server.ListenAndServe(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
