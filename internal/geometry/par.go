package geometry

import (
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// ParLayout is the geometry of the par value grid.
type ParLayout struct {
	Rows        int     `json:"rows"`
	Columns     int     `json:"columns"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	TotalWidth  float64 `json:"totalWidth"`
	TotalHeight float64 `json:"totalHeight"`
	CSS         CSS     `json:"css"`
}

// Par computes the par grid layout. A missing par section is an empty grid
// one column wide.
func Par(stock game.Stock, cfg config.Config) ParLayout {
	var par game.Par
	if stock.Par != nil {
		par = *stock.Par
	}

	widthMul := par.Width
	if widthMul == 0 {
		widthMul = cfg.Stock.Par
	}
	width := widthMul * cfg.Stock.Cell.Width
	height := multiplier(par.Height) * cfg.Stock.Cell.Height

	values := par.Values.Rows()
	rows := len(values)
	columns := MaxLength(values)
	if columns == 0 {
		columns = 1
	}

	totalWidth := width * float64(columns)
	totalHeight := height * float64(rows)
	if stock.HasTitle() {
		totalHeight += TitleBand
	}

	return ParLayout{
		Rows:        rows,
		Columns:     columns,
		Width:       width,
		Height:      height,
		TotalWidth:  totalWidth,
		TotalHeight: totalHeight,
		CSS:         newCSS(width, height, totalWidth, totalHeight),
	}
}
