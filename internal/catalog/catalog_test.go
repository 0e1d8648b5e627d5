package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	def, ok := cat.Lookup("57")
	if !ok {
		t.Fatal("Expected tile 57 in default catalog")
	}
	if def.Color != "yellow" {
		t.Errorf("Expected yellow, got %q", def.Color)
	}
	if n, ok := def.Rotations.Number(); !ok || n != 3 {
		t.Errorf("Expected 3 rotations, got %d (%v)", n, ok)
	}

	water, ok := cat.Lookup("water")
	if !ok || !water.Quantity.IsInfinite() {
		t.Errorf("Expected infinite water tile, got %+v", water)
	}

	tunnel, _ := cat.Lookup("tunnel")
	if list, ok := tunnel.Rotations.List(); !ok || len(list) != 3 {
		t.Errorf("Expected tunnel rotation list of 3, got %v", list)
	}
}

func TestLookupVariant(t *testing.T) {
	cat := Map{"57": {Color: "yellow"}}

	if _, ok := cat.Lookup("57|2"); !ok {
		t.Error("Expected variant id to resolve to base tile")
	}
	if _, ok := cat.Lookup("58"); ok {
		t.Error("Expected unknown tile to be missing")
	}
}

func TestOpenFormats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "tiles.json")
	yamlPath := filepath.Join(dir, "tiles.yml")
	badPath := filepath.Join(dir, "tiles.txt")

	if err := os.WriteFile(jsonPath, []byte(`{"7": {"color": "yellow", "quantity": "∞"}}`), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("\"8\": {color: green, quantity: 2}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(badPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	jc, err := Open(jsonPath)
	if err != nil {
		t.Fatalf("Open(json) failed: %v", err)
	}
	if def, ok := jc.Lookup("7"); !ok || !def.Quantity.IsInfinite() {
		t.Errorf("Unexpected JSON entry: %+v", def)
	}

	yc, err := Open(yamlPath)
	if err != nil {
		t.Fatalf("Open(yaml) failed: %v", err)
	}
	if def, ok := yc.Lookup("8"); !ok || def.Quantity.N() != 2 {
		t.Errorf("Unexpected YAML entry: %+v", def)
	}

	if _, err := Open(badPath); err == nil {
		t.Error("Expected error for unsupported extension")
	}

	if cat, err := Open(""); err != nil || len(cat) == 0 {
		t.Errorf("Open(\"\") should return embedded catalog, got %d entries, %v", len(cat), err)
	}
}
