// Package raster is an in-process rendering backend. Pages are fetched as
// sheet descriptions over HTTP and drawn with gogpu/gg.
package raster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/vovakirdan/b18print/internal/render"
	"github.com/vovakirdan/b18print/internal/sheet"
)

// Name is the registry name of this backend.
const Name = "raster"

func init() {
	render.Register(Name, "draw built-in sheets in process with gogpu/gg", Open)
}

// Surface fetches and draws sheets.
type Surface struct {
	client *http.Client
	logger *log.Logger
}

// Open returns a raster surface. It never fails.
func Open(_ context.Context, opts render.Options) (render.Surface, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &Surface{client: client, logger: opts.Log()}, nil
}

// NewPage implements render.Surface.
func (s *Surface) NewPage(context.Context) (render.Page, error) {
	return &Page{client: s.client, logger: s.logger}, nil
}

// Close implements render.Surface.
func (s *Surface) Close() error { return nil }

// Page holds the last fetched sheet and the viewport.
type Page struct {
	client *http.Client
	logger *log.Logger

	sheet         *sheet.Sheet
	width, height int
}

// Navigate fetches the sheet at url. The page is settled once the whole
// response body has been read.
func (p *Page) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", render.ErrNavigationTimeout, url)
		}
		return fmt.Errorf("raster: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", render.ErrNavigationTimeout, url)
		}
		return fmt.Errorf("raster: read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("raster: get %s: %s", url, resp.Status)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "application/json" {
		return fmt.Errorf("raster: %s is not a sheet (%s)", url, mt)
	}

	var s sheet.Sheet
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("raster: decode %s: %w", url, err)
	}
	p.sheet = &s
	p.logger.Debug("sheet loaded", "page", s.Page, "shapes", len(s.Shapes))
	return nil
}

// SetViewport implements render.Page.
func (p *Page) SetViewport(_ context.Context, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster: invalid viewport %dx%d", width, height)
	}
	p.width, p.height = width, height
	return nil
}

// Capture draws the sheet at the viewport size and saves it as PNG.
func (p *Page) Capture(ctx context.Context, path string, opts render.CaptureOptions) error {
	if p.sheet == nil {
		return errors.New("raster: capture before navigate")
	}
	if p.width == 0 || p.height == 0 {
		return errors.New("raster: capture before viewport is set")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("raster: %w", err)
	}

	dc := gg.NewContext(p.width, p.height)
	defer dc.Close()

	if !opts.OmitBackground {
		bg := gg.White
		if p.sheet.Background != "" {
			bg = gg.Hex(p.sheet.Background)
		}
		dc.ClearWithColor(bg)
	}

	if err := Draw(dc, p.sheet); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("raster: create directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

// Close implements render.Page.
func (p *Page) Close() error { return nil }

// Draw paints every shape of s onto dc.
func Draw(dc *gg.Context, s *sheet.Sheet) error {
	dc.Push()
	defer dc.Pop()

	if s.Margin != 0 {
		dc.Translate(s.Margin, s.Margin)
	}
	if s.Scale != 0 && s.Scale != 1 {
		dc.Scale(s.Scale, s.Scale)
	}
	dc.SetLineWidth(1)

	for i, sh := range s.Shapes {
		switch sh.Kind {
		case sheet.KindRect:
			dc.DrawRectangle(sh.X, sh.Y, sh.W, sh.H)
		case sheet.KindHex:
			dc.DrawRegularPolygon(6, sh.X, sh.Y, sh.R, sh.Rotation)
		case sheet.KindCircle:
			dc.DrawCircle(sh.X, sh.Y, sh.R)
		case sheet.KindLine:
			dc.DrawLine(sh.X, sh.Y, sh.X2, sh.Y2)
		default:
			return fmt.Errorf("raster: shape %d: unknown kind %q", i, sh.Kind)
		}
		if err := paint(dc, sh); err != nil {
			return fmt.Errorf("raster: shape %d: %w", i, err)
		}
	}
	return nil
}

func paint(dc *gg.Context, sh sheet.Shape) error {
	if sh.Fill != "" && sh.Kind != sheet.KindLine {
		dc.SetHexColor(sh.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if sh.Stroke != "" {
		dc.SetHexColor(sh.Stroke)
		return dc.Stroke()
	}
	dc.ClearPath()
	return nil
}

// Size returns the pixel size a sheet needs after its print transform.
func Size(s *sheet.Sheet) (width, height int) {
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	return int(math.Ceil(s.Width*scale + 2*s.Margin)), int(math.Ceil(s.Height*scale + 2*s.Margin))
}
