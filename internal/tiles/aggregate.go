package tiles

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/game"
)

// Entry is one distinct tile on a tile sheet.
type Entry struct {
	ID         string `json:"id"`
	Rotations  int    `json:"rotations"`
	Duplicates int    `json:"duplicates"`
}

// Bucket is one color and its tiles, in tile id order.
type Bucket struct {
	Color string  `json:"color"`
	Tiles []Entry `json:"tiles"`
}

// Aggregate is the resolved tile inventory of a game.
type Aggregate struct {
	Colors  []string       `json:"colors"`
	Counts  map[string]int `json:"counts"`
	Buckets []Bucket       `json:"buckets"`
	Skipped []string       `json:"skipped,omitempty"`

	// Unset lists resolved tiles with no quantity anywhere. They are written
	// with 0 duplicates, which reads as unlimited.
	Unset []string `json:"unset,omitempty"`
}

// Bucket returns the bucket for a color.
func (a Aggregate) Bucket(color string) (Bucket, bool) {
	for _, b := range a.Buckets {
		if b.Color == color {
			return b, true
		}
	}
	return Bucket{}, false
}

// Resolve looks up and merges one game tile. It reports false when the tile
// is neither cataloged nor given a color by its override.
func Resolve(id string, ref game.TileRef, cat catalog.Catalog) (game.TileDef, bool) {
	base, found := cat.Lookup(id)
	if !found && (ref.Override == nil || ref.Override.Color == "") {
		return game.TileDef{}, false
	}
	def := Merge(base, ref.Override)
	if def.Color == "" {
		def.Color = otherColor
	}
	return def, true
}

// Build resolves every tile of spec against cat.
// Tiles that cannot be resolved are recorded in Skipped and otherwise ignored.
func Build(spec *game.Spec, cat catalog.Catalog) Aggregate {
	agg := Aggregate{Counts: make(map[string]int)}
	index := make(map[string]int)

	for _, id := range SortIDs(spec.Tiles) {
		def, ok := Resolve(id, spec.Tiles[id], cat)
		if !ok {
			agg.Skipped = append(agg.Skipped, id)
			continue
		}

		i, seen := index[def.Color]
		if !seen {
			i = len(agg.Buckets)
			index[def.Color] = i
			agg.Buckets = append(agg.Buckets, Bucket{Color: def.Color})
		}
		agg.Buckets[i].Tiles = append(agg.Buckets[i].Tiles, Entry{
			ID:         id,
			Rotations:  RotationCount(def),
			Duplicates: DuplicateCount(def.Quantity),
		})
		agg.Counts[def.Color]++
		if !def.Quantity.IsSet() {
			agg.Unset = append(agg.Unset, id)
		}
	}

	sort.SliceStable(agg.Buckets, func(i, j int) bool {
		a, b := agg.Buckets[i].Color, agg.Buckets[j].Color
		if ai, bi := ColorIndex(a), ColorIndex(b); ai != bi {
			return ai < bi
		}
		return a < b
	})

	agg.Colors = make([]string, len(agg.Buckets))
	for i, b := range agg.Buckets {
		agg.Colors[i] = b.Color
	}
	return agg
}

// SortIDs orders tile ids by numeric base id, then numeric variant
// ("57" < "57|1" < "57|2" < "58"); non-numeric ids follow in string order.
func SortIDs(tiles map[string]game.TileRef) []string {
	ids := make([]string, 0, len(tiles))
	for id := range tiles {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		ab, av, aNum := splitID(ids[i])
		bb, bv, bNum := splitID(ids[j])
		if aNum != bNum {
			return aNum
		}
		if aNum {
			if ab != bb {
				return ab < bb
			}
			if av != bv {
				return av < bv
			}
		}
		return ids[i] < ids[j]
	})
	return ids
}

func splitID(id string) (base, variant int, numeric bool) {
	head, tail, _ := strings.Cut(id, "|")
	base, err := strconv.Atoi(head)
	if err != nil {
		return 0, 0, false
	}
	if tail != "" {
		variant, _ = strconv.Atoi(tail)
	}
	return base, variant, true
}
