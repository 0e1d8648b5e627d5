// Package game models the declarative description of one game edition and
// loads it from JSON game files.
package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Spec is one game edition. It is read-only after Load.
type Spec struct {
	Info      Info               `json:"info"`
	Tiles     map[string]TileRef `json:"tiles"`
	Companies []Company          `json:"companies"`
	Tokens    []Token            `json:"tokens"`
	Stock     Stock              `json:"stock"`
	Map       Map                `json:"map"`
	Links     Links              `json:"links"`
	Revenue   *Revenue           `json:"revenue,omitempty"`
}

// Info holds identifying and display metadata.
type Info struct {
	Title              string `json:"title"`
	Subtitle           string `json:"subtitle,omitempty"`
	Designer           string `json:"designer,omitempty"`
	Orientation        string `json:"orientation"`
	ExtraStationTokens int    `json:"extraStationTokens,omitempty"`
}

// Horizontal reports whether the map uses horizontal hex orientation.
func (i Info) Horizontal() bool {
	return i.Orientation == OrientationHorizontal
}

// Map orientations.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// TileDef is a tile definition: a catalog entry or a game override.
// Unset fields are the zero value of their type.
type TileDef struct {
	Color     string    `json:"color,omitempty" yaml:"color"`
	Quantity  Quantity  `json:"quantity" yaml:"quantity"`
	Rotations Rotations `json:"rotations" yaml:"rotations"`
}

// TileRef is a game's reference to a tile: either `true` (use the catalog
// entry as is) or an override object merged over the catalog entry.
type TileRef struct {
	Override *TileDef
}

// UnmarshalJSON accepts `true`, `false`, or an override object.
func (t *TileRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var def TileDef
		if err := json.Unmarshal(data, &def); err != nil {
			return err
		}
		t.Override = &def
		return nil
	}
	t.Override = nil
	return nil
}

// HasOverride reports whether the game overrides catalog fields.
func (t TileRef) HasOverride() bool { return t.Override != nil }

// Company is a major or minor company with its station tokens.
type Company struct {
	Name   string     `json:"name"`
	Abbrev string     `json:"abbrev"`
	Color  string     `json:"color,omitempty"`
	Tokens TokenCount `json:"tokens"`
}

// Token is an ad-hoc extra token declared at the top level.
type Token struct {
	Name     string   `json:"name,omitempty"`
	Quantity Quantity `json:"quantity"`
}

// Stock describes the stock market topology.
type Stock struct {
	Type    string       `json:"type"`
	Market  Cells        `json:"market"`
	Title   *bool        `json:"title,omitempty"`
	Cell    StockCell    `json:"cell"`
	Legend  Cells        `json:"legend"`
	Par     *Par         `json:"par,omitempty"`
	Display StockDisplay `json:"display"`
}

// HasTitle reports whether the title band is drawn.
func (s Stock) HasTitle() bool {
	return s.Title == nil || *s.Title
}

// StockCell holds per-game cell size multipliers.
type StockCell struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Par is the par value grid.
type Par struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Values Cells   `json:"values"`
}

// StockDisplay holds optional display settings for the market sheet.
type StockDisplay struct {
	Par              *GridOffset `json:"par,omitempty"`
	ExtraTotalWidth  float64     `json:"extraTotalWidth,omitempty"`
	ExtraTotalHeight float64     `json:"extraTotalHeight,omitempty"`
}

// GridOffset is a position in market cells.
type GridOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Map describes the hex grid.
type Map struct {
	A1Valid          *bool      `json:"a1Valid,omitempty"`
	Hexes            []HexGroup `json:"hexes"`
	ExtraTotalWidth  float64    `json:"extraTotalWidth,omitempty"`
	ExtraTotalHeight float64    `json:"extraTotalHeight,omitempty"`
}

// HexGroup is a set of hex coordinates sharing one definition.
type HexGroup struct {
	Color string   `json:"color,omitempty"`
	Hexes []string `json:"hexes"`
}

// Coords returns every coordinate on the map, in file order.
func (m Map) Coords() []string {
	var coords []string
	for _, g := range m.Hexes {
		coords = append(coords, g.Hexes...)
	}
	return coords
}

// Links holds external references.
type Links struct {
	BGG   string `json:"bgg,omitempty"`
	Rules string `json:"rules,omitempty"`
}

// Revenue describes the revenue track.
type Revenue struct {
	Min    int `json:"min,omitempty"`
	Max    int `json:"max,omitempty"`
	PerRow int `json:"perRow,omitempty"`
}

// Validate checks the parts of a game that layout arithmetic depends on.
func (s *Spec) Validate() error {
	switch s.Stock.Type {
	case "", "1D", "1Diag", "2D":
	default:
		return fmt.Errorf("game: unknown stock type %q", s.Stock.Type)
	}
	for _, c := range s.Map.Coords() {
		if _, _, err := ParseCoord(c); err != nil {
			return fmt.Errorf("game: %w", err)
		}
	}
	if o := s.Info.Orientation; o != "" && o != OrientationHorizontal && o != OrientationVertical {
		return fmt.Errorf("game: unknown orientation %q", o)
	}
	return nil
}

// Coordinate length limits. They bound the map to 18278 rows and 999 columns.
const (
	MaxCoordLetters = 3
	MaxCoordDigits  = 3
)

// ParseCoord splits a hex coordinate like "A1" or "AA12" into a zero-based row
// (letters) and a zero-based column (digits).
// Rows use at most MaxCoordLetters letters and columns at most MaxCoordDigits
// digits.
func ParseCoord(coord string) (row, col int, err error) {
	coord = strings.ToUpper(strings.TrimSpace(coord))
	i := 0
	for i < len(coord) && coord[i] >= 'A' && coord[i] <= 'Z' {
		row = row*26 + int(coord[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(coord) || i > MaxCoordLetters || len(coord)-i > MaxCoordDigits {
		return 0, 0, fmt.Errorf("invalid hex coordinate %q", coord)
	}
	n := 0
	for _, ch := range coord[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("invalid hex coordinate %q", coord)
		}
		n = n*10 + int(ch-'0')
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("invalid hex coordinate %q", coord)
	}
	return row - 1, n - 1, nil
}
