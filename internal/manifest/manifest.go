// Package manifest describes where every printed asset sits on its sheet, in
// the JSON form consumed by the print-assembly tool.
package manifest

import "encoding/json"

// Tray types.
const (
	TrayTile         = "tile"
	TrayStationToken = "btok"
	TrayMarketToken  = "mtok"
)

// Manifest is the top-level asset description of one game version.
type Manifest struct {
	BName   string `json:"bname"`
	Version string `json:"version"`
	Author  string `json:"author"`
	Board   Board  `json:"board"`
	Market  Market `json:"market"`
	Tray    []Tray `json:"tray"`
	Links   []Link `json:"links"`
}

// Board places the map image.
type Board struct {
	ImgLoc      string `json:"imgLoc"`
	XStart      int    `json:"xStart"`
	Orientation string `json:"orientation" jsonschema:"enum=F,enum=P"`
	XStep       int    `json:"xStep"`
	YStart      int    `json:"yStart"`
	YStep       int    `json:"yStep"`
}

// Market places the stock market image.
type Market struct {
	ImgLoc string  `json:"imgLoc"`
	XStart float64 `json:"xStart"`
	XStep  float64 `json:"xStep"`
	YStart float64 `json:"yStart"`
	YStep  float64 `json:"yStep"`
}

// Tray is one tile sheet or token sheet. Tile trays carry Tile entries, token
// trays carry Token entries; the matching list is always written, even empty.
type Tray struct {
	Type   string       `json:"type" jsonschema:"enum=tile,enum=btok,enum=mtok"`
	TName  string       `json:"tName"`
	ImgLoc string       `json:"imgLoc"`
	XStart int          `json:"xStart"`
	YStart int          `json:"yStart"`
	XStep  int          `json:"xStep"`
	YStep  int          `json:"yStep"`
	XSize  int          `json:"xSize"`
	YSize  int          `json:"ySize"`
	Tile   []TileEntry  `json:"tile,omitempty"`
	Token  []TokenEntry `json:"token,omitempty"`
}

// MarshalJSON writes the entry list that belongs to the tray type.
func (t Tray) MarshalJSON() ([]byte, error) {
	type plain Tray
	if t.Type == TrayTile {
		tile := t.Tile
		if tile == nil {
			tile = []TileEntry{}
		}
		return json.Marshal(struct {
			plain
			Tile []TileEntry `json:"tile"`
		}{plain(t), tile})
	}
	token := t.Token
	if token == nil {
		token = []TokenEntry{}
	}
	return json.Marshal(struct {
		plain
		Token []TokenEntry `json:"token"`
	}{plain(t), token})
}

// TileEntry is one distinct tile: how many rotations to print and how many
// copies exist. Dups of 0 means unlimited and also a true zero count.
type TileEntry struct {
	Rots int `json:"rots"`
	Dups int `json:"dups"`
}

// TokenEntry is one token row. Market token rows have no Dups.
type TokenEntry struct {
	Dups *int `json:"dups,omitempty"`
	Flip bool `json:"flip"`
}

// Link is an external reference shown next to the board.
type Link struct {
	Name string `json:"link_name"`
	URL  string `json:"link_url"`
}
