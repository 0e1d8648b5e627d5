package geometry

import (
	"math"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// MapLayout is the derived geometry of the full map sheet.
//
// Letters in a coordinate index rows and digits index columns. The staggered
// axis (y for horizontal grids, x for vertical) advances half a hex per index
// and gets one extra half step of room so the last hex is not clipped.
type MapLayout struct {
	Horizontal  bool    `json:"horizontal"`
	A1Valid     *bool   `json:"a1Valid,omitempty"`
	StartX      float64 `json:"startX"`
	StartY      float64 `json:"startY"`
	XStep       float64 `json:"xStep"`
	YStep       float64 `json:"yStep"`
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	TotalWidth  float64 `json:"totalWidth"`
	TotalHeight float64 `json:"totalHeight"`
	HumanWidth  string  `json:"humanWidth"`
	HumanHeight string  `json:"humanHeight"`
}

// Map computes the map layout. Coordinates must already be validated.
func Map(spec *game.Spec, cfg config.Config) MapLayout {
	hex := cfg.Map.HexWidth
	half := hex / 2
	across := hex * math.Sqrt(3) / 2

	rows, columns := 0, 0
	for _, c := range spec.Map.Coords() {
		row, col, err := game.ParseCoord(c)
		if err != nil {
			continue
		}
		rows = max(rows, row+1)
		columns = max(columns, col+1)
	}

	layout := MapLayout{
		Horizontal: spec.Info.Horizontal(),
		A1Valid:    spec.Map.A1Valid,
		StartX:     half,
		StartY:     half,
		Columns:    columns,
		Rows:       rows,
	}

	if layout.Horizontal {
		layout.XStep = across
		layout.YStep = half
		if a1Invalid(layout.A1Valid) {
			layout.StartX = 0
		}
		layout.TotalWidth = layout.StartX + layout.XStep*float64(columns)
		layout.TotalHeight = layout.StartY + layout.YStep*float64(rows+1)
	} else {
		layout.XStep = half
		layout.YStep = across
		layout.TotalWidth = layout.StartX + layout.XStep*float64(columns+1)
		layout.TotalHeight = layout.StartY + layout.YStep*float64(rows)
	}

	layout.TotalWidth += spec.Map.ExtraTotalWidth
	layout.TotalHeight += spec.Map.ExtraTotalHeight
	layout.HumanWidth = HumanInches(layout.TotalWidth)
	layout.HumanHeight = HumanInches(layout.TotalHeight)
	return layout
}

// PageOffset is the extra viewport width that keeps the first column of a
// horizontal grid with an invalid A1 from being clipped.
func (m MapLayout) PageOffset(cfg config.Config) int {
	if m.Horizontal && a1Invalid(m.A1Valid) {
		return cfg.Map.Offset
	}
	return 0
}

// Viewport returns the capture size of the map sheet.
func (m MapLayout) Viewport(cfg config.Config) (width, height int) {
	return int(math.Ceil(m.TotalWidth)) + m.PageOffset(cfg), int(math.Ceil(m.TotalHeight))
}

// a1Invalid is true only for an explicit false; nil means unknown.
func a1Invalid(v *bool) bool {
	return v != nil && !*v
}
