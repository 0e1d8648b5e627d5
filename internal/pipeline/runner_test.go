package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/manifest"
	"github.com/vovakirdan/b18print/internal/render/raster"
	"github.com/vovakirdan/b18print/internal/storage"
)

const sampleGame = `{
  "info": {"title": "Test", "orientation": "horizontal", "extraStationTokens": 1},
  "tiles": {"57": true, "58": true, "14": true},
  "companies": [{"name": "Awa", "abbrev": "AR", "color": "red", "tokens": 2}],
  "tokens": [{"quantity": 0}, {"name": "port"}],
  "stock": {"type": "2D", "market": [[10, 20, 30], [40, "50A"]]},
  "map": {"hexes": [{"hexes": ["A1", "B2", "C3"]}]},
  "links": {"bgg": "https://boardgamegeek.com/boardgame/23540"}
}`

// bareGame has neither companies nor extra tokens.
const bareGame = `{
  "info": {"title": "Bare", "orientation": "vertical"},
  "tiles": {"57": true},
  "stock": {"type": "2D", "market": [[10, 20]]},
  "map": {"hexes": [{"hexes": ["A1", "B2"]}]}
}`

type historyCall struct {
	status  storage.Status
	assets  int
	archive string
	err     error
}

type fakeHistory struct {
	started  []string
	finished []historyCall
	startErr error
}

func (h *fakeHistory) StartRun(game, version, author string) (int64, error) {
	if h.startErr != nil {
		return 0, h.startErr
	}
	h.started = append(h.started, game+"-"+version+"-"+author)
	return int64(len(h.started)), nil
}

func (h *fakeHistory) FinishRun(id int64, status storage.Status, assets int, archive string, runErr error) error {
	h.finished = append(h.finished, historyCall{status, assets, archive, runErr})
	return nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return testConfigWith(t, sampleGame)
}

// testConfigWith writes data as the "test" game in a temp games dir.
func testConfigWith(t *testing.T, data string) config.Config {
	t.Helper()
	dir := t.TempDir()
	games := filepath.Join(dir, "games")
	if err := os.MkdirAll(games, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(games, "test.json"), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.GamesDir = games
	cfg.Render.OutputDir = filepath.Join(dir, "render")
	cfg.Render.Address = "127.0.0.1:0"
	cfg.Render.SiteDir = ""
	return cfg
}

func archiveEntries(t *testing.T, path string) map[string][]byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	defer zr.Close()

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s) failed: %v", f.Name, err)
		}
		entries[f.Name] = data
	}
	return entries
}

func TestRunnerWithFakeSurface(t *testing.T) {
	cfg := testConfig(t)
	surface := &fakeSurface{}
	history := &fakeHistory{}
	r := &Runner{
		Config:      cfg,
		History:     history,
		OpenSurface: opener(surface),
		Server:      func(string, *game.Spec) Server { return &fakeServer{} },
	}

	res, err := r.Run(context.Background(), Request{Name: "test", Version: "1", Author: "Tester"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// Map, Market, Tokens, Yellow, Green.
	if len(res.Assets) != 5 {
		t.Errorf("Expected 5 assets, got %v", res.Assets)
	}

	data, err := os.ReadFile(res.Layout.ManifestPath())
	if err != nil {
		t.Fatalf("ReadFile(manifest) failed: %v", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal(manifest) failed: %v", err)
	}
	if m.BName != "test" || m.Version != "1" || m.Author != "Tester" {
		t.Errorf("Unexpected manifest identity %q %q %q", m.BName, m.Version, m.Author)
	}
	// Two tile trays, btok and mtok.
	if len(m.Tray) != 4 {
		t.Errorf("Expected 4 trays, got %d", len(m.Tray))
	}

	entries := archiveEntries(t, res.Layout.ArchivePath())
	for _, name := range []string{
		"board18-test-1/test-1.json",
		"board18-test-1/test-1/Map.png",
		"board18-test-1/test-1/Market.png",
		"board18-test-1/test-1/Tokens.png",
		"board18-test-1/test-1/Yellow.png",
		"board18-test-1/test-1/Green.png",
	} {
		if _, ok := entries[name]; !ok {
			t.Errorf("Archive missing %s", name)
		}
	}
	if string(entries["board18-test-1/test-1.json"]) != string(data) {
		t.Error("Archived manifest differs from the written one")
	}

	if len(history.started) != 1 || history.started[0] != "test-1-Tester" {
		t.Errorf("Unexpected history start %v", history.started)
	}
	if len(history.finished) != 1 || history.finished[0].status != storage.StatusSucceeded || history.finished[0].assets != 5 {
		t.Errorf("Unexpected history finish %+v", history.finished)
	}
}

func TestRunnerFailureLeavesNoArchive(t *testing.T) {
	cfg := testConfig(t)
	boom := errors.New("page crashed")
	surface := &fakeSurface{failURL: "http://fake/games/test/b18/tokens?print=true", failErr: boom}
	history := &fakeHistory{}
	r := &Runner{
		Config:      cfg,
		History:     history,
		OpenSurface: opener(surface),
		Server:      func(string, *game.Spec) Server { return &fakeServer{} },
	}

	if _, err := r.Run(context.Background(), Request{Name: "test", Version: "1"}); !errors.Is(err, boom) {
		t.Fatalf("Expected page error, got %v", err)
	}

	l := NewLayout(cfg.Render.OutputDir, "test", "1")
	if _, err := os.Stat(l.ArchivePath()); !os.IsNotExist(err) {
		t.Error("Expected no archive after failure")
	}
	if _, err := os.Stat(l.ManifestPath()); !os.IsNotExist(err) {
		t.Error("Expected no manifest after failure")
	}
	if len(history.finished) != 1 || history.finished[0].status != storage.StatusFailed || !errors.Is(history.finished[0].err, boom) {
		t.Errorf("Unexpected history finish %+v", history.finished)
	}
}

func TestRunnerUnknownGame(t *testing.T) {
	r := &Runner{Config: testConfig(t)}

	if _, err := r.Run(context.Background(), Request{Name: "missing", Version: "1"}); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("Expected game.ErrNotFound, got %v", err)
	}
}

func TestRunnerHistoryFailureIsIgnored(t *testing.T) {
	r := &Runner{
		Config:      testConfig(t),
		History:     &fakeHistory{startErr: errors.New("database locked")},
		OpenSurface: opener(&fakeSurface{}),
		Server:      func(string, *game.Spec) Server { return &fakeServer{} },
	}

	if _, err := r.Run(context.Background(), Request{Name: "test", Version: "1"}); err != nil {
		t.Errorf("Expected history failure to be ignored, got %v", err)
	}
}

func TestRunnerRaster(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.Backend = raster.Name

	r := &Runner{Config: cfg}
	res, err := r.Run(context.Background(), Request{Name: "test", Version: "2"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for _, p := range res.Assets {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("Missing asset %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Empty asset %s", p)
		}
	}
	if _, err := os.Stat(res.Layout.ArchivePath()); err != nil {
		t.Errorf("Expected archive: %v", err)
	}
}

// checkEmptyTokenTrays asserts the manifest carries both token trays with
// empty entry lists.
func checkEmptyTokenTrays(t *testing.T, data []byte) {
	t.Helper()
	var raw struct {
		Tray []struct {
			Type  string            `json:"type"`
			Token []json.RawMessage `json:"token"`
		} `json:"tray"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal(manifest) failed: %v", err)
	}
	types := map[string]bool{}
	for _, tray := range raw.Tray {
		if tray.Type == manifest.TrayTile {
			continue
		}
		types[tray.Type] = true
		if tray.Token == nil || len(tray.Token) != 0 {
			t.Errorf("Expected empty token list for %s, got %v", tray.Type, tray.Token)
		}
	}
	if !types[manifest.TrayStationToken] || !types[manifest.TrayMarketToken] {
		t.Errorf("Expected btok and mtok trays, got %v", types)
	}
}

func TestRunnerWithoutCompaniesOrTokens(t *testing.T) {
	tests := []struct {
		name    string
		surface bool
	}{
		{"fake surface", true},
		{"raster", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfigWith(t, bareGame)
			cfg.Render.Backend = raster.Name

			r := &Runner{Config: cfg}
			if tc.surface {
				r.OpenSurface = opener(&fakeSurface{})
				r.Server = func(string, *game.Spec) Server { return &fakeServer{} }
			}

			res, err := r.Run(context.Background(), Request{Name: "test", Version: "1"})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			// Map, Market, Tokens, Yellow.
			if len(res.Assets) != 4 {
				t.Errorf("Expected 4 assets, got %v", res.Assets)
			}

			data, err := os.ReadFile(res.Layout.ManifestPath())
			if err != nil {
				t.Fatalf("ReadFile(manifest) failed: %v", err)
			}
			checkEmptyTokenTrays(t, data)

			entries := archiveEntries(t, res.Layout.ArchivePath())
			if _, ok := entries["board18-test-1/test-1/Tokens.png"]; !ok {
				t.Error("Archive missing the token sheet")
			}
			if string(entries["board18-test-1/test-1.json"]) != string(data) {
				t.Error("Archived manifest differs from the written one")
			}
		})
	}
}
