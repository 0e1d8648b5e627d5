// Package geometry derives exact pixel dimensions for every printable surface
// (map, stock market, par overlay, revenue track) from a game spec and the
// global layout constants. Every function here is pure.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

// ErrUnknownTopology is returned for an unrecognized stock.type.
var ErrUnknownTopology = errors.New("geometry: unknown market topology")

// Topology is the stock market grid shape.
type Topology int

const (
	Topology2D    Topology = iota // Rectangular grid, possibly ragged
	Topology1D                    // Single row
	Topology1Diag                 // Single diagonal track folded into two rows
)

var topologyNames = [...]string{
	Topology2D:    "2D",
	Topology1D:    "1D",
	Topology1Diag: "1Diag",
}

func (t Topology) String() string {
	if int(t) < len(topologyNames) {
		return topologyNames[t]
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// MarshalText writes the stock.type tag.
func (t Topology) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTopology maps a stock.type tag to its variant. An empty tag is 2D.
func ParseTopology(tag string) (Topology, error) {
	switch tag {
	case "", "2D":
		return Topology2D, nil
	case "1D":
		return Topology1D, nil
	case "1Diag":
		return Topology1Diag, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTopology, tag)
}

// grid is the per-topology cell geometry before totals are applied.
type grid struct {
	width, height float64
	rows, columns int
}

// topologyGrid computes a grid for one topology from the scaled cell size.
type topologyGrid func(market game.Cells, cellW, cellH float64, stock config.StockConfig) grid

// topologies is the single dispatch table; adding a topology adds one entry.
var topologies = map[Topology]topologyGrid{
	Topology1Diag: func(market game.Cells, cellW, cellH float64, stock config.StockConfig) grid {
		return grid{
			width:   cellW,
			height:  stock.Diag * cellH,
			rows:    2,
			columns: int(math.Ceil(float64(len(market)) / 2)),
		}
	},
	Topology1D: func(market game.Cells, cellW, cellH float64, stock config.StockConfig) grid {
		return grid{
			width:   cellW,
			height:  stock.Column * cellH,
			rows:    1,
			columns: len(market),
		}
	},
	Topology2D: func(market game.Cells, cellW, cellH float64, _ config.StockConfig) grid {
		return grid{
			width:   cellW,
			height:  cellH,
			rows:    len(market),
			columns: MaxLength(market.Rows()),
		}
	},
}

// MaxLength returns the longest row length; 0 for no rows.
func MaxLength(rows []game.Cells) int {
	longest := 0
	for _, row := range rows {
		if len(row) > longest {
			longest = len(row)
		}
	}
	return longest
}
