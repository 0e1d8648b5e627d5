package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/pipeline"
	"github.com/vovakirdan/b18print/internal/storage"
)

func runRender(_ *cobra.Command, args []string) {
	if args[0] == "debug" {
		runServe(nil, nil)
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: a version is required: b18print <game> <version> [author]")
		os.Exit(1)
	}

	req := pipeline.Request{Name: args[0], Version: args[1]}
	if len(args) > 2 {
		req.Author = args[2]
	}

	cfg := loadConfig()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderGame(ctx, cfg, logger, req); err != nil {
		stop()
		if errors.Is(err, game.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Run 'b18print list' to see available games.")
		}
		os.Exit(1)
	}
}

// renderGame runs one pipeline and logs its failure.
func renderGame(ctx context.Context, cfg config.Config, logger *log.Logger, req pipeline.Request) error {
	cat, err := catalog.Open(cfg.Paths.Catalog)
	if err != nil {
		logger.Error("loading tile catalog", "error", err)
		return err
	}

	runner := &pipeline.Runner{
		Config:  cfg,
		Catalog: cat,
		Logger:  logger,
	}

	// History is best effort.
	store, err := storage.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("run history disabled", "error", err)
	} else {
		defer store.Close()
		runner.History = store
	}

	res, err := runner.Run(ctx, req)
	if err != nil {
		logger.Error("render failed", "game", req.Name, "version", req.Version, "error", err)
		return err
	}

	fmt.Println(res.Layout.ArchivePath())
	return nil
}
