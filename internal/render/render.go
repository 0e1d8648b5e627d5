// Package render defines the rendering surface the print pipeline drives and
// a registry of backends that provide it.
//
// A surface hosts headless pages. A page loads a URL, waits for it to settle
// and captures its viewport to a PNG file.
package render

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

var (
	// ErrNavigationTimeout is returned when a page does not settle before the
	// navigation deadline.
	ErrNavigationTimeout = errors.New("render: navigation timed out")

	// ErrUnknownBackend is returned by Open for an unregistered backend name.
	ErrUnknownBackend = errors.New("render: unknown backend")
)

// CaptureOptions controls a single capture.
type CaptureOptions struct {
	// OmitBackground leaves unpainted pixels transparent.
	OmitBackground bool
}

// Page is one browser tab or equivalent.
type Page interface {
	// Navigate loads url and blocks until the page is quiet or ctx expires.
	Navigate(ctx context.Context, url string) error

	// SetViewport sets the exact capture size in CSS pixels.
	SetViewport(ctx context.Context, width, height int) error

	// Capture writes the current viewport to path as PNG.
	Capture(ctx context.Context, path string, opts CaptureOptions) error

	Close() error
}

// Surface hosts pages.
type Surface interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Options configures a backend when it is opened.
type Options struct {
	ChromePath string
	Logger     *log.Logger
	HTTPClient *http.Client
}

// Log returns the configured logger or one that discards everything.
func (o Options) Log() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
