package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/b18print.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Stock: StockConfig{
			Cell:    CellConfig{Width: 50, Height: 50},
			Column:  7,
			Diag:    3,
			Par:     2,
			Display: StockDisplayConfig{Legend: true},
		},
		Map: MapConfig{
			HexWidth: 100,
			Offset:   87,
		},
		MarketPrint: MarketPrintConfig{
			Scale:         0.96,
			Margin:        50,
			XStart:        25,
			YStartTitle:   75,
			YStartNoTitle: 25,
		},
		Trays: TraysConfig{
			Tile: TileTrayConfig{
				Cell:        150,
				SheetHeight: 900,
				Start:       24,
				LongSide:    116,
				ShortSide:   100,
			},
			Token: TokenTrayConfig{
				Cell:       30,
				SheetWidth: 60,
			},
		},
		Render: RenderConfig{
			Backend:           "raster",
			Address:           "localhost:9000",
			SiteDir:           "dist/site",
			OutputDir:         "render",
			NavigationTimeout: 30 * time.Second,
		},
		Paths: PathsConfig{
			GamesDir:  "data/games",
			HistoryDB: "~/.b18print/history.db",
		},
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
