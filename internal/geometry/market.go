package geometry

import (
	"math"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// Fixed bands, in pixels.
const (
	MarketWidthMargin = 10
	TitleBand         = 50
	LegendBand        = 50
	ParBand           = 50
)

// CSS holds print-unit string equivalents of a layout's dimensions.
type CSS struct {
	Width       string `json:"width"`
	Height      string `json:"height"`
	TotalWidth  string `json:"totalWidth"`
	TotalHeight string `json:"totalHeight"`
}

func newCSS(width, height, totalWidth, totalHeight float64) CSS {
	return CSS{
		Width:       UnitsToCSS(width),
		Height:      UnitsToCSS(height),
		TotalWidth:  UnitsToCSS(totalWidth),
		TotalHeight: UnitsToCSS(totalHeight),
	}
}

// MarketLayout is the derived geometry of a stock market sheet.
// Width and Height are per cell; totals include every band and overlay.
type MarketLayout struct {
	Type        Topology    `json:"type"`
	Rows        int         `json:"rows"`
	Columns     int         `json:"columns"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	TotalWidth  float64     `json:"totalWidth"`
	TotalHeight float64     `json:"totalHeight"`
	HumanWidth  string      `json:"humanWidth"`
	HumanHeight string      `json:"humanHeight"`
	CSS         CSS         `json:"css"`
	Par         *ParLayout  `json:"par,omitempty"`
	Legend      int         `json:"legend"`
	Title       bool        `json:"title"`
	Overlay     *GridOffset `json:"overlay,omitempty"`
}

// GridOffset positions the par overlay in market cells.
type GridOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Market computes the stock market layout.
func Market(stock game.Stock, cfg config.Config) (MarketLayout, error) {
	topo, err := ParseTopology(stock.Type)
	if err != nil {
		return MarketLayout{}, err
	}

	cellW := multiplier(stock.Cell.Width) * cfg.Stock.Cell.Width
	cellH := multiplier(stock.Cell.Height) * cfg.Stock.Cell.Height
	g := topologies[topo](stock.Market, cellW, cellH, cfg.Stock)

	totalWidth := g.width*float64(g.columns) + MarketWidthMargin
	totalHeight := g.height * float64(g.rows)
	if stock.HasTitle() {
		totalHeight += TitleBand
	}

	layout := MarketLayout{
		Type:    topo,
		Rows:    g.rows,
		Columns: g.columns,
		Width:   g.width,
		Height:  g.height,
		Legend:  len(stock.Legend),
		Title:   stock.HasTitle(),
	}

	// The par overlay may only grow the bounding box.
	if p := stock.Display.Par; p != nil {
		par := Par(stock, cfg)
		rowHeight := g.height
		if topo == Topology1Diag {
			rowHeight = g.height / 2
		}
		parTotalWidth := par.TotalWidth + g.width*p.X
		parTotalHeight := par.TotalHeight + rowHeight*p.Y + ParBand

		totalWidth = math.Max(totalWidth, parTotalWidth)
		totalHeight = math.Max(totalHeight, parTotalHeight)
		layout.Par = &par
		layout.Overlay = &GridOffset{X: p.X, Y: p.Y}
	}

	layout.HumanWidth = HumanInches(totalWidth)
	layout.HumanHeight = HumanInches(totalHeight)

	if topo == Topology1D || topo == Topology1Diag {
		if cfg.Stock.Display.Legend && len(stock.Legend) > 0 {
			totalHeight += LegendBand
		}
	}
	totalHeight += stock.Display.ExtraTotalHeight
	totalWidth += stock.Display.ExtraTotalWidth

	layout.TotalWidth = totalWidth
	layout.TotalHeight = totalHeight
	layout.CSS = newCSS(layout.Width, layout.Height, totalWidth, totalHeight)
	return layout, nil
}

// multiplier returns a per-game cell multiplier, defaulting to 1.
func multiplier(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
