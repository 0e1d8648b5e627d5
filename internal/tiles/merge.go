// Package tiles resolves the tiles and tokens a game uses into color buckets
// and tray entries: override merging, rotation and duplicate counts, and the
// canonical color ordering shared by the render sequence and the manifest.
package tiles

import "github.com/vovakirdan/b18print/internal/game"

// DefaultRotations is used when neither catalog nor game says otherwise.
const DefaultRotations = 6

// Merge applies a game override over a catalog entry.
// Precedence, per field: Color, Quantity and Rotations each come from the
// override when it sets them, otherwise from the catalog entry.
func Merge(base game.TileDef, override *game.TileDef) game.TileDef {
	if override == nil {
		return base
	}
	merged := base
	if override.Color != "" {
		merged.Color = override.Color
	}
	if override.Quantity.IsSet() {
		merged.Quantity = override.Quantity
	}
	if override.Rotations.IsSet() {
		merged.Rotations = override.Rotations
	}
	return merged
}

// RotationCount returns the number of distinct rotations of a tile: an
// explicit number wins, then the length of an explicit list, else 6.
func RotationCount(def game.TileDef) int {
	if n, ok := def.Rotations.Number(); ok {
		return n
	}
	if list, ok := def.Rotations.List(); ok {
		return len(list)
	}
	return DefaultRotations
}

// DuplicateCount maps a quantity to the manifest duplicate count.
// The infinite sentinel becomes 0, which downstream consumers read as
// "unlimited". A real quantity of 0 and an unset one are written the same way.
func DuplicateCount(q game.Quantity) int {
	if q.IsInfinite() {
		return 0
	}
	return q.N()
}
