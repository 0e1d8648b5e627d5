package sheet

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/geometry"
	"github.com/vovakirdan/b18print/internal/tiles"
)

func mapSheet(src Source) *Sheet {
	layout := geometry.Map(src.Spec, src.Config)
	hex := src.Config.Map.HexWidth
	radius := hex / math.Sqrt(3)
	rotation := 0.0
	if !layout.Horizontal {
		rotation = math.Pi / 2
	}

	s := &Sheet{
		Page:       PageMap,
		Width:      layout.TotalWidth,
		Height:     layout.TotalHeight,
		Background: white,
	}
	for _, group := range src.Spec.Map.Hexes {
		fill := namedOr(group.Color, "plain")
		for _, coord := range group.Hexes {
			row, col, err := game.ParseCoord(coord)
			if err != nil {
				continue
			}
			s.Shapes = append(s.Shapes, Shape{
				Kind:     KindHex,
				X:        layout.StartX + layout.XStep*float64(col),
				Y:        layout.StartY + layout.YStep*float64(row),
				R:        radius,
				Rotation: rotation,
				Fill:     fill,
				Stroke:   outline,
				Label:    coord,
			})
		}
	}
	return s
}

func marketSheet(src Source) (*Sheet, error) {
	stock := src.Spec.Stock
	layout, err := geometry.Market(stock, src.Config)
	if err != nil {
		return nil, err
	}

	top := 0.0
	if layout.Title {
		top = geometry.TitleBand
	}
	s := &Sheet{
		Page:       PageMarket,
		Width:      layout.TotalWidth,
		Height:     layout.TotalHeight,
		Scale:      src.Config.MarketPrint.Scale,
		Margin:     src.Config.MarketPrint.Margin / 2,
		Background: white,
	}

	cell := func(x, y, w, h float64, raw json.RawMessage) {
		s.Shapes = append(s.Shapes, Shape{
			Kind:   KindRect,
			X:      x,
			Y:      y,
			W:      w,
			H:      h,
			Fill:   white,
			Stroke: outline,
			Label:  cellLabel(raw),
		})
	}

	switch layout.Type {
	case geometry.Topology2D:
		for r, row := range stock.Market.Rows() {
			for c, raw := range row {
				cell(float64(c)*layout.Width, top+float64(r)*layout.Height, layout.Width, layout.Height, raw)
			}
		}
	case geometry.Topology1D:
		for i, raw := range stock.Market {
			cell(float64(i)*layout.Width, top, layout.Width, layout.Height, raw)
		}
	case geometry.Topology1Diag:
		for i, raw := range stock.Market {
			cell(float64(i/2)*layout.Width, top+float64(i%2)*layout.Height, layout.Width, layout.Height, raw)
		}
	}

	if layout.Par != nil && layout.Overlay != nil && stock.Par != nil {
		rowHeight := layout.Height
		if layout.Type == geometry.Topology1Diag {
			rowHeight /= 2
		}
		x0 := layout.Width * layout.Overlay.X
		y0 := top + rowHeight*layout.Overlay.Y
		for r, row := range stock.Par.Values.Rows() {
			for c, raw := range row {
				s.Shapes = append(s.Shapes, Shape{
					Kind:   KindRect,
					X:      x0 + float64(c)*layout.Par.Width,
					Y:      y0 + float64(r)*layout.Par.Height,
					W:      layout.Par.Width,
					H:      layout.Par.Height,
					Fill:   Color("gray"),
					Stroke: outline,
					Label:  cellLabel(raw),
				})
			}
		}
	}
	return s, nil
}

func tokenSheet(src Source) *Sheet {
	trays := tiles.Tokens(src.Spec)
	cell := float64(src.Config.Trays.Token.Cell)
	width := float64(src.Config.Trays.Token.SheetWidth)

	s := &Sheet{
		Page:   PageTokens,
		Width:  width,
		Height: cell * float64(trays.SheetRows()),
	}

	row := 0
	for _, e := range trays.Station {
		fill := namedOr(e.Color, "gray")
		y := cell*float64(row) + cell/2
		for x := cell / 2; x < width; x += cell {
			s.Shapes = append(s.Shapes, Shape{
				Kind:   KindCircle,
				X:      x,
				Y:      y,
				R:      cell/2 - 1,
				Fill:   fill,
				Stroke: outline,
				Label:  e.Label,
			})
			fill = white
		}
		row++
	}
	return s
}

func revenueSheet(src Source) *Sheet {
	layout := geometry.Revenue(src.Spec.Revenue, src.Config)
	s := &Sheet{
		Page:       PageRevenue,
		Width:      layout.TotalWidth,
		Height:     layout.TotalHeight,
		Background: white,
	}
	for v := layout.Min; v <= layout.Max; v++ {
		i := v - layout.Min
		s.Shapes = append(s.Shapes, Shape{
			Kind:   KindRect,
			X:      float64(i%layout.PerRow) * layout.Width,
			Y:      geometry.TitleBand + float64(i/layout.PerRow)*layout.Height,
			W:      layout.Width,
			H:      layout.Height,
			Fill:   white,
			Stroke: outline,
			Label:  strconv.Itoa(v),
		})
	}
	return s
}

// tileSheet lays every tile of one color out in a column of rotations.
func tileSheet(src Source, color string) *Sheet {
	tc := src.Config.Trays.Tile
	cell := float64(tc.Cell)
	agg := tiles.Build(src.Spec, src.Catalog)
	bucket, _ := agg.Bucket(color)

	s := &Sheet{
		Page:   PageTiles + "/" + color,
		Width:  cell * float64(len(bucket.Tiles)),
		Height: float64(tc.SheetHeight),
	}

	radius := float64(tc.LongSide) / 2
	base := 0.0
	if !src.Spec.Info.Horizontal() {
		base = math.Pi / 2
	}
	rowsPerSheet := int(s.Height / cell)
	fill := Color(color)

	for i, e := range bucket.Tiles {
		cx := cell*float64(i) + cell/2
		for r := 0; r < min(e.Rotations, rowsPerSheet); r++ {
			cy := cell*float64(r) + cell/2
			a := base + float64(r)*math.Pi/3
			s.Shapes = append(s.Shapes,
				Shape{Kind: KindHex, X: cx, Y: cy, R: radius, Rotation: base, Fill: fill, Stroke: outline, Label: e.ID},
				Shape{Kind: KindLine, X: cx, Y: cy, X2: cx + radius*0.8*math.Cos(a+math.Pi/6), Y2: cy + radius*0.8*math.Sin(a+math.Pi/6), Stroke: outline},
			)
		}
	}
	return s
}

// cellLabel renders a market cell value as text: strings unquoted, numbers as
// written, anything else blank.
func cellLabel(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func namedOr(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	return Color(name)
}
