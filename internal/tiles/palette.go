package tiles

import "strings"

// Palette is the canonical tile color order.
var Palette = []string{
	"yellow",
	"yellow/green",
	"green",
	"green/brown",
	"brown",
	"brown/gray",
	"gray",
	"offboard",
	"water",
	"mountain",
	"tunnel",
	"other",
	"none",
}

const otherColor = "other"

// ColorIndex returns a color's position in the palette; unknown colors sort
// as "other".
func ColorIndex(color string) int {
	for i, c := range Palette {
		if c == color {
			return i
		}
	}
	for i, c := range Palette {
		if c == otherColor {
			return i
		}
	}
	return len(Palette)
}

// FileName is the image base name for a color ("yellow/green" -> "Yellow_green").
func FileName(color string) string {
	return capitalize(strings.ReplaceAll(color, "/", "_"))
}

// TrayName is the manifest tray title for a color ("Yellow/green Tiles").
func TrayName(color string) string {
	return capitalize(color) + " Tiles"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
