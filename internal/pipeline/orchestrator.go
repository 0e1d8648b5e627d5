// Package pipeline turns a game spec into print assets: it plans the page
// captures, drives a rendering surface against the content server, and then
// writes the manifest and archive.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/b18print/internal/render"
)

// State is the orchestrator's position in a run.
type State int

const (
	StateIdle State = iota
	StateServerStarted
	StateNavigatingPage
	StateSizing
	StateCapturing
	StateServerStopped
	StateDone
	StateFailed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateServerStarted:
		return "server-started"
	case StateNavigatingPage:
		return "navigating"
	case StateSizing:
		return "sizing"
	case StateCapturing:
		return "capturing"
	case StateServerStopped:
		return "server-stopped"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Server is the content server the surface navigates against.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	URL(path string) string
}

// SurfaceOpener launches a rendering surface.
type SurfaceOpener func(ctx context.Context) (render.Surface, error)

// stopTimeout bounds server shutdown, which runs even after ctx is cancelled.
const stopTimeout = 5 * time.Second

// Orchestrator runs capture jobs one at a time on a single page.
type Orchestrator struct {
	Server            Server
	OpenSurface       SurfaceOpener
	NavigationTimeout time.Duration
	Logger            *log.Logger

	mu    sync.Mutex
	state State
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()
	o.logger().Debug("state", "from", prev, "to", s)
}

func (o *Orchestrator) logger() *log.Logger {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o.Logger
}

// Run processes jobs in order and returns the paths written. It stops at the
// first failure. The surface and the server are torn down on every return.
func (o *Orchestrator) Run(ctx context.Context, jobs []Job) (written []string, err error) {
	logger := o.logger()
	defer func() {
		if err != nil {
			o.setState(StateFailed)
		}
	}()

	if err := o.Server.Start(ctx); err != nil {
		return nil, err
	}
	o.setState(StateServerStarted)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		stopErr := o.Server.Stop(stopCtx)
		if stopErr != nil {
			logger.Warn("stopping content server", "error", stopErr)
		}
		if err == nil {
			err = stopErr
		}
		if err == nil {
			o.setState(StateServerStopped)
			o.setState(StateDone)
		}
	}()

	surface, err := o.OpenSurface(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open surface: %w", err)
	}
	defer closeLogged(logger, "surface", surface.Close)

	tab, err := surface.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open page: %w", err)
	}
	defer closeLogged(logger, "page", tab.Close)

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		logger.Info("Printing " + job.Path)
		if err := o.runJob(ctx, tab, job); err != nil {
			return written, fmt.Errorf("pipeline: %s: %w", job.Name, err)
		}
		written = append(written, job.Path)
	}
	return written, nil
}

func (o *Orchestrator) runJob(ctx context.Context, tab render.Page, job Job) error {
	o.setState(StateNavigatingPage)
	navCtx := ctx
	if o.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, o.NavigationTimeout)
		defer cancel()
	}
	if err := tab.Navigate(navCtx, o.Server.URL(job.URL)); err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, render.ErrNavigationTimeout) {
			err = fmt.Errorf("%w: %w", render.ErrNavigationTimeout, err)
		}
		return err
	}

	o.setState(StateSizing)
	if err := tab.SetViewport(ctx, job.Width, job.Height); err != nil {
		return err
	}

	o.setState(StateCapturing)
	return tab.Capture(ctx, job.Path, render.CaptureOptions{OmitBackground: job.OmitBackground})
}

func closeLogged(logger *log.Logger, what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("closing "+what, "error", err)
	}
}
