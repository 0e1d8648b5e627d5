// Package chromium is the headless Chrome rendering backend, driven over the
// DevTools protocol with chromedp.
package chromium

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/mailru/easyjson/jwriter"

	"github.com/vovakirdan/b18print/internal/render"
)

// Name is the registry name of this backend.
const Name = "chromium"

func init() {
	render.Register(Name, "headless Chrome via the DevTools protocol", Open)
}

// Surface is one browser process.
type Surface struct {
	logger        *log.Logger
	ctx           context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	closeOnce     sync.Once
}

// Open launches the browser. The process lives until Close or until ctx is
// cancelled.
func Open(ctx context.Context, opts render.Options) (render.Surface, error) {
	logger := opts.Log()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("force-color-profile", "srgb"),
		chromedp.Flag("hide-scrollbars", true),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Debugf),
		chromedp.WithErrorf(logger.Errorf),
	)

	// An empty run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("chromium: start browser: %w", err)
	}
	logger.Debug("browser started")

	return &Surface{
		logger:        logger,
		ctx:           browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

// NewPage opens a tab.
func (s *Surface) NewPage(context.Context) (render.Page, error) {
	tabCtx, cancel := chromedp.NewContext(s.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("chromium: open tab: %w", err)
	}
	return &Tab{ctx: tabCtx, cancel: cancel, logger: s.logger}, nil
}

// Close stops the browser process.
func (s *Surface) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = chromedp.Cancel(s.ctx)
		s.cancelBrowser()
		s.cancelAlloc()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("chromium: close browser: %w", err)
	}
	return nil
}

// Tab is one browser tab.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
}

// bind runs tab actions under the caller's deadline and cancellation.
func (t *Tab) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(t.ctx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(t.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads url and waits for the networkIdle lifecycle event of the new
// document.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := t.bind(ctx)
	defer cancel()

	idle := make(chan struct{})
	var (
		once    sync.Once
		mu      sync.Mutex
		started bool
	)
	listenCtx, stopListening := context.WithCancel(runCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started {
				once.Do(func() { close(idle) })
			}
		}
	})

	err := chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
	)
	if err == nil {
		select {
		case <-idle:
			return nil
		case <-runCtx.Done():
			err = runCtx.Err()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", render.ErrNavigationTimeout, url)
	}
	return fmt.Errorf("chromium: navigate %s: %w", url, err)
}

// SetViewport implements render.Page.
func (t *Tab) SetViewport(ctx context.Context, width, height int) error {
	runCtx, cancel := t.bind(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.EmulateViewport(int64(width), int64(height))); err != nil {
		return fmt.Errorf("chromium: set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

// Capture screenshots the viewport to path.
func (t *Tab) Capture(ctx context.Context, path string, opts render.CaptureOptions) error {
	runCtx, cancel := t.bind(ctx)
	defer cancel()

	var buf []byte
	actions := []chromedp.Action{}
	if opts.OmitBackground {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			return cdp.Execute(ctx, emulation.CommandSetDefaultBackgroundColorOverride, transparent{}, nil)
		}))
	}
	actions = append(actions, chromedp.CaptureScreenshot(&buf))
	if opts.OmitBackground {
		actions = append(actions, emulation.SetDefaultBackgroundColorOverride())
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return fmt.Errorf("chromium: capture %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chromium: create directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("chromium: write %s: %w", path, err)
	}
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	t.cancel()
	return nil
}

// transparent sets a fully transparent default background. The generated
// cdp.RGBA drops a zero alpha when encoding, so the params are written by hand.
type transparent struct{}

func (transparent) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"color":{"r":0,"g":0,"b":0,"a":0}}`)
}
