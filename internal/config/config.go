// Package config provides the layered YAML configuration for the print
// pipeline: embedded defaults, optionally overridden by a user file, frozen
// into a Config value before any component runs.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete, immutable configuration for one invocation.
type Config struct {
	Stock       StockConfig       `yaml:"stock"`
	Map         MapConfig         `yaml:"map"`
	MarketPrint MarketPrintConfig `yaml:"market_print"`
	Trays       TraysConfig       `yaml:"trays"`
	Render      RenderConfig      `yaml:"render"`
	Paths       PathsConfig       `yaml:"paths"`
	Log         LogConfig         `yaml:"log"`
}

// StockConfig holds the stock market cell constants.
type StockConfig struct {
	Cell    CellConfig         `yaml:"cell"`
	Column  float64            `yaml:"column"` // Cell heights per 1D column
	Diag    float64            `yaml:"diag"`   // Cell heights per 1Diag column
	Par     float64            `yaml:"par"`    // Default par cell width multiplier
	Display StockDisplayConfig `yaml:"display"`
}

// CellConfig is the pixel size of one market cell.
type CellConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StockDisplayConfig toggles optional market bands.
type StockDisplayConfig struct {
	Legend bool `yaml:"legend"`
}

// MapConfig defines hex grid constants.
type MapConfig struct {
	HexWidth float64 `yaml:"hex_width"` // Flat-to-flat hex size in pixels
	Offset   int     `yaml:"offset"`    // Page offset when A1 is not a valid position
}

// MarketPrintConfig defines how the market sheet is scaled for print.
type MarketPrintConfig struct {
	Scale         float64 `yaml:"scale"`
	Margin        float64 `yaml:"margin"`
	XStart        float64 `yaml:"x_start"`
	YStartTitle   float64 `yaml:"y_start_title"`
	YStartNoTitle float64 `yaml:"y_start_no_title"`
}

// TraysConfig defines tile and token sheet cell sizes.
type TraysConfig struct {
	Tile  TileTrayConfig  `yaml:"tile"`
	Token TokenTrayConfig `yaml:"token"`
}

// TileTrayConfig defines the tile sheet layout.
type TileTrayConfig struct {
	Cell        int `yaml:"cell"`
	SheetHeight int `yaml:"sheet_height"`
	Start       int `yaml:"start"`
	LongSide    int `yaml:"long_side"`
	ShortSide   int `yaml:"short_side"`
}

// TokenTrayConfig defines the token sheet layout.
type TokenTrayConfig struct {
	Cell       int `yaml:"cell"`
	SheetWidth int `yaml:"sheet_width"`
}

// RenderConfig configures the rendering surface and content server.
type RenderConfig struct {
	Backend           string        `yaml:"backend"` // "chromium" or "raster"
	Address           string        `yaml:"address"`
	SiteDir           string        `yaml:"site_dir"`
	OutputDir         string        `yaml:"output_dir"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ChromePath        string        `yaml:"chrome_path"`
}

// PathsConfig locates game files, the tile catalog and the history database.
type PathsConfig struct {
	GamesDir  string `yaml:"games_dir"`
	Catalog   string `yaml:"catalog"` // Empty selects the embedded catalog
	HistoryDB string `yaml:"history_db"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
}

// Validate reports the first configuration value that would break layout
// arithmetic or the render loop.
func (c Config) Validate() error {
	var errs []error
	if c.Stock.Cell.Width <= 0 || c.Stock.Cell.Height <= 0 {
		errs = append(errs, fmt.Errorf("stock.cell must be positive, got %vx%v", c.Stock.Cell.Width, c.Stock.Cell.Height))
	}
	if c.Map.HexWidth <= 0 {
		errs = append(errs, fmt.Errorf("map.hex_width must be positive, got %v", c.Map.HexWidth))
	}
	if c.MarketPrint.Scale <= 0 {
		errs = append(errs, fmt.Errorf("market_print.scale must be positive, got %v", c.MarketPrint.Scale))
	}
	if c.Trays.Tile.Cell <= 0 || c.Trays.Tile.SheetHeight <= 0 {
		errs = append(errs, errors.New("trays.tile cell and sheet_height must be positive"))
	}
	if c.Trays.Token.Cell <= 0 || c.Trays.Token.SheetWidth <= 0 {
		errs = append(errs, errors.New("trays.token cell and sheet_width must be positive"))
	}
	if c.Render.Address == "" {
		errs = append(errs, errors.New("render.address is required"))
	}
	if c.Render.NavigationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("render.navigation_timeout must be positive, got %s", c.Render.NavigationTimeout))
	}
	if c.Render.OutputDir == "" {
		errs = append(errs, errors.New("render.output_dir is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
