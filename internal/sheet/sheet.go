// Package sheet describes printable pages as flat lists of shapes in layout
// units. The content server serves sheets as JSON and the raster backend
// draws them.
package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// ErrUnknownPage is returned for a page name no builder handles.
var ErrUnknownPage = errors.New("sheet: unknown page")

// Page names.
const (
	PageMap     = "map"
	PageMarket  = "market"
	PageTokens  = "tokens"
	PageRevenue = "revenue"
	PageTiles   = "tiles"
)

// Shape kinds.
const (
	KindRect   = "rect"
	KindHex    = "hex"
	KindCircle = "circle"
	KindLine   = "line"
)

// Shape is one drawable element. Rect and line use X/Y as their first point;
// hex and circle use X/Y as their center and R as their radius.
type Shape struct {
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w,omitempty"`
	H        float64 `json:"h,omitempty"`
	X2       float64 `json:"x2,omitempty"`
	Y2       float64 `json:"y2,omitempty"`
	R        float64 `json:"r,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	Stroke   string  `json:"stroke,omitempty"`
	Label    string  `json:"label,omitempty"`
}

// Sheet is a page description. Shapes are drawn in order after applying
// Scale and then translating by Margin.
type Sheet struct {
	Game       string  `json:"game"`
	Page       string  `json:"page"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale,omitempty"`
	Margin     float64 `json:"margin,omitempty"`
	Background string  `json:"background,omitempty"`
	Shapes     []Shape `json:"shapes"`
}

// Source is what sheets are built from.
type Source struct {
	Name    string
	Spec    *game.Spec
	Catalog catalog.Catalog
	Config  config.Config
}

// Build returns the sheet for a page: map, market, tokens, revenue or
// tiles/<color>.
func Build(page string, src Source) (*Sheet, error) {
	var (
		s   *Sheet
		err error
	)
	switch {
	case page == PageMap:
		s = mapSheet(src)
	case page == PageMarket:
		s, err = marketSheet(src)
	case page == PageTokens:
		s = tokenSheet(src)
	case page == PageRevenue:
		s = revenueSheet(src)
	case strings.HasPrefix(page, PageTiles+"/"):
		s = tileSheet(src, strings.TrimPrefix(page, PageTiles+"/"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if err != nil {
		return nil, err
	}
	s.Game = src.Name
	if s.Shapes == nil {
		s.Shapes = []Shape{}
	}
	return s, nil
}
