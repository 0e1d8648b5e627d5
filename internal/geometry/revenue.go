package geometry

import (
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// Revenue track defaults.
const (
	DefaultRevenueMin    = 1
	DefaultRevenueMax    = 100
	DefaultRevenuePerRow = 20
)

// RevenueLayout is the geometry of the revenue track.
type RevenueLayout struct {
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	PerRow      int     `json:"perRow"`
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	TotalWidth  float64 `json:"totalWidth"`
	TotalHeight float64 `json:"totalHeight"`
	CSS         CSS     `json:"css"`
}

// Revenue computes the revenue track layout. A nil section uses defaults.
func Revenue(revenue *game.Revenue, cfg config.Config) RevenueLayout {
	var r game.Revenue
	if revenue != nil {
		r = *revenue
	}
	if r.Min == 0 {
		r.Min = DefaultRevenueMin
	}
	if r.Max == 0 {
		r.Max = DefaultRevenueMax
	}
	if r.PerRow == 0 {
		r.PerRow = DefaultRevenuePerRow
	}

	width := cfg.Stock.Cell.Width
	height := cfg.Stock.Cell.Height
	rows := (r.Max + r.PerRow - 1) / r.PerRow
	columns := r.PerRow

	totalWidth := width * float64(columns)
	totalHeight := height*float64(rows) + TitleBand

	return RevenueLayout{
		Min:         r.Min,
		Max:         r.Max,
		PerRow:      r.PerRow,
		Rows:        rows,
		Columns:     columns,
		Width:       width,
		Height:      height,
		TotalWidth:  totalWidth,
		TotalHeight: totalHeight,
		CSS:         newCSS(width, height, totalWidth, totalHeight),
	}
}
