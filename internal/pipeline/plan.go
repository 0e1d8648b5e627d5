package pipeline

import (
	"fmt"
	"math"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/geometry"
	"github.com/vovakirdan/b18print/internal/tiles"
)

// Job is one page capture.
type Job struct {
	Name           string
	URL            string // Server path, resolved against the content server
	Width          int
	Height         int
	Path           string
	OmitBackground bool
}

// Metrics are the derived measurements a plan is sized from.
type Metrics struct {
	Map    geometry.MapLayout
	Market geometry.MarketLayout
	Tiles  tiles.Aggregate
	Tokens tiles.TokenTrays
}

// Plan returns the capture jobs in their fixed order: map, market, tokens,
// then one tile sheet per color in palette order.
func Plan(l Layout, m Metrics, cfg config.Config) []Job {
	base := "/games/" + l.Name

	mapW, mapH := m.Map.Viewport(cfg)
	jobs := []Job{
		{
			Name:   "Map",
			URL:    base + "/b18/map?print=true",
			Width:  mapW,
			Height: mapH,
			Path:   l.AssetPath("Map"),
		},
		{
			Name:   "Market",
			URL:    base + "/market?print=true",
			Width:  marketSide(m.Market.TotalWidth, cfg),
			Height: marketSide(m.Market.TotalHeight, cfg),
			Path:   l.AssetPath("Market"),
		},
		{
			Name:           "Tokens",
			URL:            base + "/b18/tokens?print=true",
			Width:          cfg.Trays.Token.SheetWidth,
			Height:         tokenSheetHeight(m.Tokens, cfg),
			Path:           l.AssetPath("Tokens"),
			OmitBackground: true,
		},
	}

	for _, color := range m.Tiles.Colors {
		file := tiles.FileName(color)
		jobs = append(jobs, Job{
			Name:           file,
			URL:            fmt.Sprintf("%s/b18/tiles/%s?print=true", base, color),
			Width:          m.Tiles.Counts[color] * cfg.Trays.Tile.Cell,
			Height:         cfg.Trays.Tile.SheetHeight,
			Path:           l.AssetPath(file),
			OmitBackground: true,
		})
	}
	return jobs
}

// tokenSheetHeight is one cell per token row. A game without token rows
// still gets a 1 px sheet, since the manifest always lists both token trays
// against Tokens.png and no backend can capture a zero-height viewport.
func tokenSheetHeight(t tiles.TokenTrays, cfg config.Config) int {
	return max(1, cfg.Trays.Token.Cell*t.SheetRows())
}

// marketSide scales a market dimension plus its print margin, with one pixel
// of slack against rounding.
func marketSide(total float64, cfg config.Config) int {
	return int(math.Ceil((total+cfg.MarketPrint.Margin)*cfg.MarketPrint.Scale)) + 1
}
