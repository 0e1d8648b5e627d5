// Package catalog provides the game-independent tile registry: color,
// quantity and rotation definitions keyed by tile id.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/b18print/internal/game"
)

//go:embed tiles.yaml
var defaultTilesYAML []byte

// Catalog looks tiles up by id.
type Catalog interface {
	Lookup(id string) (game.TileDef, bool)
}

// Map is an in-memory catalog.
type Map map[string]game.TileDef

// Lookup tries the exact id first, then the base id of a variant ("57|2" -> "57").
func (m Map) Lookup(id string) (game.TileDef, bool) {
	if def, ok := m[id]; ok {
		return def, true
	}
	if base, _, found := strings.Cut(id, "|"); found {
		def, ok := m[base]
		return def, ok
	}
	return game.TileDef{}, false
}

// IDs returns the catalog ids in sorted order.
func (m Map) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var embedded = sync.OnceValue(func() Map {
	m, err := parseYAML(defaultTilesYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded tiles: %v", err))
	}
	return m
})

// Default returns the embedded catalog of standard tiles. The returned map is
// shared and must not be modified.
func Default() Map {
	return embedded()
}

// Open loads a catalog file (.yaml, .yml or .json). An empty path returns the
// embedded catalog.
func Open(path string) (Map, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var m Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &m)
	case ".yaml", ".yml":
		m, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("catalog: unsupported extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	return m, nil
}

func parseYAML(data []byte) (Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
