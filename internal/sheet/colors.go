package sheet

import "strings"

const (
	fallbackFill = "#cccccc"
	outline      = "#333333"
	white        = "#ffffff"
)

var namedColors = map[string]string{
	"yellow":       "#fde900",
	"yellow/green": "#c6d86a",
	"green":        "#71bf44",
	"green/brown":  "#99835b",
	"brown":        "#cb7745",
	"brown/gray":   "#a88e7a",
	"gray":         "#bcbdc0",
	"offboard":     "#ec232a",
	"water":        "#2a8fd0",
	"mountain":     "#8b6f47",
	"tunnel":       "#6d6e71",
	"plain":        "#f5e8c8",
	"city":         "#f5e8c8",
	"red":          "#d7212a",
	"orange":       "#f58220",
	"blue":         "#0189d1",
	"navy":         "#1b3a6b",
	"purple":       "#7b3f98",
	"pink":         "#f19cbb",
	"black":        "#231f20",
	"white":        "#ffffff",
	"cyan":         "#00b2c9",
	"lime":         "#b5d334",
	"gold":         "#d4af37",
}

// Color resolves a color name or "#rrggbb" string to hex.
func Color(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(name, "#") {
		return name
	}
	if hex, ok := namedColors[name]; ok {
		return hex
	}
	return fallbackFill
}
