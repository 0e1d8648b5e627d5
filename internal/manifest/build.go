package manifest

import (
	"fmt"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/geometry"
	"github.com/vovakirdan/b18print/internal/tiles"
)

// Board placement in manifest units. A flat-topped grid steps 87 across and
// 50 down; a pointy one the other way around.
const (
	boardStart     = 50
	boardLongStep  = 87
	boardShortStep = 50
)

// Input is everything the manifest is derived from.
type Input struct {
	Name    string
	Version string
	Author  string
	Links   Links
	Map     geometry.MapLayout
	Market  geometry.MarketLayout
	Tiles   tiles.Aggregate
	Tokens  tiles.TokenTrays
	Config  config.Config
}

// Links are the optional external references of a game.
type Links struct {
	BGG   string
	Rules string
}

// ID is the asset folder name shared by images and archive ("1889-1").
func ID(name, version string) string {
	return name + "-" + version
}

// ImageLoc is the manifest path of an asset image.
func ImageLoc(name, version, file string) string {
	return fmt.Sprintf("images/%s/%s.png", ID(name, version), file)
}

// Build derives the manifest. It has no side effects; equal inputs give
// equal manifests.
func Build(in Input) *Manifest {
	m := &Manifest{
		BName:   in.Name,
		Version: in.Version,
		Author:  in.Author,
		Board:   board(in),
		Market:  market(in),
		Tray:    []Tray{},
		Links:   links(in),
	}

	for _, bucket := range in.Tiles.Buckets {
		m.Tray = append(m.Tray, tileTray(in, bucket))
	}
	station, mkt := tokenTrays(in)
	m.Tray = append(m.Tray, station, mkt)
	return m
}

func board(in Input) Board {
	b := Board{
		ImgLoc:      ImageLoc(in.Name, in.Version, "Map"),
		XStart:      boardStart,
		Orientation: "P",
		XStep:       boardShortStep,
		YStart:      boardStart,
		YStep:       boardLongStep,
	}
	if in.Map.Horizontal {
		b.Orientation = "F"
		b.XStep = boardLongStep
		b.YStep = boardShortStep
	} else if in.Map.A1Valid != nil && !*in.Map.A1Valid {
		b.XStart = 0
	}
	return b
}

func market(in Input) Market {
	cfg := in.Config
	scale := cfg.MarketPrint.Scale
	cell := cfg.Stock.Cell

	yStart := cfg.MarketPrint.YStartTitle
	if !in.Market.Title {
		yStart = cfg.MarketPrint.YStartNoTitle
	}

	yStep := cell.Height
	switch in.Market.Type {
	case geometry.Topology1Diag:
		yStep = cell.Height * cfg.Stock.Column / 2
	case geometry.Topology1D:
		yStep = cell.Height * cfg.Stock.Column
	}

	return Market{
		ImgLoc: ImageLoc(in.Name, in.Version, "Market"),
		XStart: cfg.MarketPrint.XStart * scale,
		XStep:  cell.Width * scale,
		YStart: yStart * scale,
		YStep:  yStep * scale,
	}
}

func links(in Input) []Link {
	out := []Link{}
	if in.Links.BGG != "" {
		out = append(out, Link{Name: in.Name + " on BGG", URL: in.Links.BGG})
	}
	if in.Links.Rules != "" {
		out = append(out, Link{Name: "Rules", URL: in.Links.Rules})
	}
	return out
}

func tileTray(in Input, bucket tiles.Bucket) Tray {
	tc := in.Config.Trays.Tile
	xSize, ySize := tc.ShortSide, tc.LongSide
	if in.Map.Horizontal {
		xSize, ySize = tc.LongSide, tc.ShortSide
	}

	tray := Tray{
		Type:   TrayTile,
		TName:  tiles.TrayName(bucket.Color),
		ImgLoc: ImageLoc(in.Name, in.Version, tiles.FileName(bucket.Color)),
		XStart: tc.Start,
		YStart: tc.Start,
		XStep:  tc.Cell,
		YStep:  tc.Cell,
		XSize:  xSize,
		YSize:  ySize,
		Tile:   make([]TileEntry, 0, len(bucket.Tiles)),
	}
	for _, e := range bucket.Tiles {
		tray.Tile = append(tray.Tile, TileEntry{Rots: e.Rotations, Dups: e.Duplicates})
	}
	return tray
}

func tokenTrays(in Input) (station, mkt Tray) {
	cell := in.Config.Trays.Token.Cell
	station = Tray{
		Type:   TrayStationToken,
		TName:  "Tokens",
		ImgLoc: ImageLoc(in.Name, in.Version, "Tokens"),
		XSize:  cell,
		XStep:  cell,
		YSize:  cell,
		YStep:  cell,
		Token:  make([]TokenEntry, 0, len(in.Tokens.Station)),
	}
	mkt = station
	mkt.Type = TrayMarketToken
	mkt.Token = make([]TokenEntry, 0, len(in.Tokens.Market))

	for _, e := range in.Tokens.Station {
		dups := e.Duplicates
		station.Token = append(station.Token, TokenEntry{Dups: &dups, Flip: true})
	}
	for range in.Tokens.Market {
		mkt.Token = append(mkt.Token, TokenEntry{Flip: true})
	}
	return station, mkt
}
