package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no game file exists for a name.
var ErrNotFound = errors.New("game: not found")

// Load reads and validates a game file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("game: reading %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("game: parsing %s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes and validates game JSON.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Path returns the game file path for bname inside dir.
func Path(dir, bname string) string {
	return filepath.Join(dir, bname+".json")
}

// LoadByName loads <dir>/<bname>.json.
func LoadByName(dir, bname string) (*Spec, error) {
	return Load(Path(dir, bname))
}

// Summary is a listing entry for a game file.
type Summary struct {
	Name  string
	Title string
	Path  string
}

// List returns every parseable game in dir, sorted by name.
// Unparseable files are skipped.
func List(dir string) ([]Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("game: listing %s: %w", dir, err)
	}

	var games []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		spec, err := Load(path)
		if err != nil {
			continue
		}
		games = append(games, Summary{
			Name:  strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Title: spec.Info.Title,
			Path:  path,
		})
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
	return games, nil
}
