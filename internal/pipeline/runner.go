package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/contentserver"
	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/geometry"
	"github.com/vovakirdan/b18print/internal/manifest"
	"github.com/vovakirdan/b18print/internal/packager"
	"github.com/vovakirdan/b18print/internal/render"
	"github.com/vovakirdan/b18print/internal/storage"
	"github.com/vovakirdan/b18print/internal/tiles"
)

// Request identifies one render.
type Request struct {
	Name    string
	Version string
	Author  string
}

// Result describes the outputs of a successful render.
type Result struct {
	Layout   Layout
	Assets   []string
	Manifest *manifest.Manifest
	Skipped  []string // Tile ids that could not be resolved
}

// History records runs. *storage.Store implements it.
type History interface {
	StartRun(game, version, author string) (int64, error)
	FinishRun(id int64, status storage.Status, assets int, archive string, runErr error) error
}

// Runner wires the whole pipeline for one game version.
//
// Two runs for the same game and version must not overlap: they share the
// output directory and archive path.
type Runner struct {
	Config  config.Config
	Catalog catalog.Catalog
	Logger  *log.Logger

	// History is optional. Its failures are logged and never fail a run.
	History History

	// OpenSurface overrides the configured backend.
	OpenSurface SurfaceOpener

	// Server overrides the content server built from Config.
	Server func(name string, spec *game.Spec) Server
}

// Run renders every asset, writes the manifest and builds the archive.
func (r *Runner) Run(ctx context.Context, req Request) (res *Result, err error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("game", req.Name, "version", req.Version)
	cfg := r.Config

	started := time.Now()
	runID, recorded := r.startHistory(logger, req)
	defer func() {
		if !recorded {
			return
		}
		status, assets, archive := storage.StatusFailed, 0, ""
		if err == nil {
			status, assets, archive = storage.StatusSucceeded, len(res.Assets), res.Layout.ArchivePath()
		}
		if herr := r.History.FinishRun(runID, status, assets, archive, err); herr != nil {
			logger.Warn("recording run history", "error", herr)
		}
	}()

	spec, err := game.LoadByName(cfg.Paths.GamesDir, req.Name)
	if err != nil {
		return nil, err
	}

	cat := r.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	market, err := geometry.Market(spec.Stock, cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: market layout: %w", err)
	}
	metrics := Metrics{
		Map:    geometry.Map(spec, cfg),
		Market: market,
		Tiles:  tiles.Build(spec, cat),
		Tokens: tiles.Tokens(spec),
	}
	for _, id := range metrics.Tiles.Skipped {
		logger.Warn("skipping tile without catalog entry", "tile", id)
	}
	for _, id := range metrics.Tiles.Unset {
		logger.Warn("tile has no quantity, printing as unlimited", "tile", id)
	}

	layout := NewLayout(cfg.Render.OutputDir, req.Name, req.Version)
	// Assets from an earlier run of this version would end up in the archive.
	if err := os.RemoveAll(layout.RootDir()); err != nil {
		return nil, fmt.Errorf("pipeline: clearing %s: %w", layout.RootDir(), err)
	}
	jobs := Plan(layout, metrics, cfg)
	logger.Debug("planned captures", "jobs", len(jobs))

	orch := &Orchestrator{
		Server:            r.server(req.Name, spec, cat, logger),
		OpenSurface:       r.surfaceOpener(logger),
		NavigationTimeout: cfg.Render.NavigationTimeout,
		Logger:            logger,
	}
	assets, err := orch.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	m := manifest.Build(manifest.Input{
		Name:    req.Name,
		Version: req.Version,
		Author:  req.Author,
		Links:   manifest.Links{BGG: spec.Links.BGG, Rules: spec.Links.Rules},
		Map:     metrics.Map,
		Market:  metrics.Market,
		Tiles:   metrics.Tiles,
		Tokens:  metrics.Tokens,
		Config:  cfg,
	})
	data, err := manifest.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := manifest.Write(layout.ManifestPath(), m); err != nil {
		return nil, err
	}

	extra := []packager.File{{Name: layout.ManifestEntry(), Data: data, Modified: started}}
	if err := packager.Archive(layout.RootDir(), layout.RootName(), extra, layout.ArchivePath()); err != nil {
		return nil, err
	}
	logger.Info("archive written", "path", layout.ArchivePath(), "assets", len(assets), "elapsed", time.Since(started).Round(time.Millisecond))

	return &Result{
		Layout:   layout,
		Assets:   assets,
		Manifest: m,
		Skipped:  metrics.Tiles.Skipped,
	}, nil
}

func (r *Runner) startHistory(logger *log.Logger, req Request) (int64, bool) {
	if r.History == nil {
		return 0, false
	}
	id, err := r.History.StartRun(req.Name, req.Version, req.Author)
	if err != nil {
		logger.Warn("recording run history", "error", err)
		return 0, false
	}
	return id, true
}

func (r *Runner) server(name string, spec *game.Spec, cat catalog.Catalog, logger *log.Logger) Server {
	if r.Server != nil {
		return r.Server(name, spec)
	}
	return contentserver.New(contentserver.Options{
		Address: r.Config.Render.Address,
		SiteDir: r.Config.Render.SiteDir,
		Games:   contentserver.Fixed{Name: name, Spec: spec},
		Catalog: cat,
		Config:  r.Config,
		Logger:  logger,
	})
}

func (r *Runner) surfaceOpener(logger *log.Logger) SurfaceOpener {
	if r.OpenSurface != nil {
		return r.OpenSurface
	}
	backend := r.Config.Render.Backend
	opts := render.Options{ChromePath: r.Config.Render.ChromePath, Logger: logger}
	return func(ctx context.Context) (render.Surface, error) {
		return render.Open(ctx, backend, opts)
	}
}
