package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleGame = `{
  "info": {"title": "1889", "orientation": "horizontal", "extraStationTokens": 1},
  "tiles": {"57": true, "58": {"quantity": "∞"}, "14": {"rotations": [0, 1, 2]}},
  "companies": [
    {"name": "Awa", "abbrev": "AR", "tokens": ["Home", 40]},
    {"name": "Iyo", "abbrev": "IR", "tokens": 3}
  ],
  "tokens": [{"quantity": 0}, {"quantity": "∞"}, {}],
  "stock": {
    "type": "2D",
    "title": false,
    "market": [[1, 2, 3], [1, 2, 3, 4, 5], [1, 2]],
    "par": {"values": [[100, 90], [80]]},
    "display": {"par": {"x": 1, "y": 2}}
  },
  "map": {"a1Valid": false, "hexes": [{"hexes": ["A1", "B2", "C11"]}]},
  "links": {"bgg": "https://example.com/bgg", "rules": "https://example.com/rules"}
}`

func TestParseSample(t *testing.T) {
	spec, err := Parse([]byte(sampleGame))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if !spec.Info.Horizontal() {
		t.Error("Expected horizontal orientation")
	}
	if spec.Tiles["57"].HasOverride() {
		t.Error("Expected tile 57 to have no override")
	}
	if o := spec.Tiles["58"].Override; o == nil || !o.Quantity.IsInfinite() {
		t.Errorf("Expected tile 58 infinite override, got %+v", o)
	}
	if o := spec.Tiles["14"].Override; o == nil {
		t.Error("Expected tile 14 override")
	} else if list, ok := o.Rotations.List(); !ok || len(list) != 3 {
		t.Errorf("Expected 3 rotations for tile 14, got %v", list)
	}

	if spec.Companies[0].Tokens != 2 || spec.Companies[1].Tokens != 3 {
		t.Errorf("Unexpected token counts: %d, %d", spec.Companies[0].Tokens, spec.Companies[1].Tokens)
	}

	if !spec.Tokens[0].Quantity.IsSet() || spec.Tokens[0].Quantity.N() != 0 {
		t.Errorf("Expected explicit zero quantity, got %s", spec.Tokens[0].Quantity)
	}
	if !spec.Tokens[1].Quantity.IsInfinite() {
		t.Errorf("Expected infinite quantity, got %s", spec.Tokens[1].Quantity)
	}
	if spec.Tokens[2].Quantity.IsSet() {
		t.Errorf("Expected unset quantity, got %s", spec.Tokens[2].Quantity)
	}

	if spec.Stock.HasTitle() {
		t.Error("Expected title disabled")
	}
	rows := spec.Stock.Market.Rows()
	if len(rows) != 3 || len(rows[1]) != 5 {
		t.Errorf("Unexpected market rows: %v", rows)
	}
	if spec.Map.A1Valid == nil || *spec.Map.A1Valid {
		t.Error("Expected a1Valid false")
	}
	if got := spec.Map.Coords(); len(got) != 3 {
		t.Errorf("Expected 3 coords, got %v", got)
	}
}

func TestParseRejectsUnknownStockType(t *testing.T) {
	if _, err := Parse([]byte(`{"stock": {"type": "3D"}}`)); err == nil {
		t.Error("Expected error for unknown stock type")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"tiles": `)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		coord    string
		row, col int
		wantErr  bool
	}{
		{"A1", 0, 0, false},
		{"B2", 1, 1, false},
		{"C11", 2, 10, false},
		{"AA3", 26, 2, false},
		{"a4", 0, 3, false},
		{"11", 0, 0, true},
		{"A", 0, 0, true},
		{"A0", 0, 0, true},
		{"A1x", 0, 0, true},
		{"ZZZ999", 18277, 998, false},
		{"AAAA1", 0, 0, true},
		{"A1000", 0, 0, true},
		{"A99999999999999999999", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.coord, func(t *testing.T) {
			row, col, err := ParseCoord(tc.coord)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.coord)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoord(%q) failed: %v", tc.coord, err)
			}
			if row != tc.row || col != tc.col {
				t.Errorf("ParseCoord(%q) = (%d, %d), want (%d, %d)", tc.coord, row, col, tc.row, tc.col)
			}
		})
	}
}

func TestParseRejectsOversizedCoordinate(t *testing.T) {
	data := `{"map": {"hexes": [{"hexes": ["A1", "B99999999999"]}]}}`
	if _, err := Parse([]byte(data)); err == nil {
		t.Error("Expected oversized coordinate to fail validation")
	}
}

func TestLoadAndList(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1889.json"), []byte(sampleGame), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	spec, err := LoadByName(dir, "1889")
	if err != nil {
		t.Fatalf("LoadByName() failed: %v", err)
	}
	if spec.Info.Title != "1889" {
		t.Errorf("Expected title 1889, got %q", spec.Info.Title)
	}

	if _, err := LoadByName(dir, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	games, err := List(dir)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(games) != 1 || games[0].Name != "1889" {
		t.Errorf("Expected only 1889 listed, got %+v", games)
	}
}
