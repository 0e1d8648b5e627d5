package sheet

import (
	"errors"
	"testing"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
)

const sampleGame = `{
  "info": {"title": "Test", "orientation": "horizontal"},
  "tiles": {"57": true, "58": true, "14": true},
  "companies": [{"name": "Awa", "abbrev": "AR", "color": "red", "tokens": 2}],
  "tokens": [{"quantity": 0}, {"name": "port"}],
  "stock": {"type": "2D", "market": [[10, 20, 30], [40, "50A"]], "par": {"values": [[100]]}, "display": {"par": {"x": 1, "y": 1}}},
  "map": {"hexes": [{"color": "offboard", "hexes": ["A1", "B2"]}, {"hexes": ["C3"]}]},
  "revenue": {"max": 45, "perRow": 10}
}`

func source(t *testing.T) Source {
	t.Helper()
	spec, err := game.Parse([]byte(sampleGame))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return Source{Name: "test", Spec: spec, Catalog: catalog.Default(), Config: config.Default()}
}

func TestBuildPages(t *testing.T) {
	src := source(t)

	tests := []struct {
		page   string
		shapes int
	}{
		{PageMap, 3},
		{PageMarket, 6},
		{PageTokens, 4},
		{PageRevenue, 45},
		{PageTiles + "/yellow", 3*2 + 6*2},
		{PageTiles + "/green", 3 * 2},
		{PageTiles + "/brown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			s, err := Build(tt.page, src)
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if s.Game != "test" {
				t.Errorf("Game = %q, want test", s.Game)
			}
			if len(s.Shapes) != tt.shapes {
				t.Errorf("Expected %d shapes, got %d", tt.shapes, len(s.Shapes))
			}
			if s.Shapes == nil {
				t.Error("Expected non-nil shape list")
			}
		})
	}
}

func TestTileSheetWidth(t *testing.T) {
	s, err := Build(PageTiles+"/yellow", source(t))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if s.Width != 300 || s.Height != 900 {
		t.Errorf("Expected 300x900 sheet, got %vx%v", s.Width, s.Height)
	}
}

func TestMarketLabels(t *testing.T) {
	s, err := Build(PageMarket, source(t))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if s.Shapes[0].Label != "10" || s.Shapes[4].Label != "50A" {
		t.Errorf("Unexpected labels %q, %q", s.Shapes[0].Label, s.Shapes[4].Label)
	}
	if s.Scale != 0.96 || s.Margin != 25 {
		t.Errorf("Unexpected print transform scale=%v margin=%v", s.Scale, s.Margin)
	}
}

func TestUnknownPage(t *testing.T) {
	if _, err := Build("cover", source(t)); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("Expected ErrUnknownPage, got %v", err)
	}
}

func TestColor(t *testing.T) {
	tests := map[string]string{
		"yellow":  "#fde900",
		"Red":     "#d7212a",
		"#123456": "#123456",
		"nope":    fallbackFill,
	}
	for in, want := range tests {
		if got := Color(in); got != want {
			t.Errorf("Color(%q) = %q, want %q", in, got, want)
		}
	}
}
