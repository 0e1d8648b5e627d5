package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/storage"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key  string
		want MenuAction
	}{
		{"up", MenuActionUp},
		{"k", MenuActionUp},
		{"down", MenuActionDown},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"esc", MenuActionBack},
		{"tab", MenuActionHistory},
		{"q", MenuActionQuit},
		{"x", MenuActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := km.MapKeyToMenuAction(keyMsg(tt.key)); got != tt.want {
				t.Errorf("MapKeyToMenuAction(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

var testGames = []game.Summary{
	{Name: "1830", Title: "Railways & Robber Barons"},
	{Name: "1889", Title: "History of Shikoku Railways"},
}

func TestMenuSelectsGameAndVersion(t *testing.T) {
	stats := map[string]*storage.GameStats{
		"1889": {Game: "1889", Runs: 1, LastRun: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)},
	}
	m := NewMenuModel(testGames, stats, 80, 24)

	if m.items[1].LastRun == "" {
		t.Error("Expected last run label for 1889")
	}

	final := send(m, "down", "enter", "2", "b", "enter").(MenuModel)
	if final.Selected() == nil {
		t.Fatal("Expected a selection")
	}
	if final.Selected().Name != "1889" {
		t.Errorf("Expected 1889, got %s", final.Selected().Name)
	}
	if final.Version() != "2b" {
		t.Errorf("Expected version 2b, got %q", final.Version())
	}
}

func TestMenuRequiresVersion(t *testing.T) {
	m := NewMenuModel(testGames, nil, 80, 24)

	final := send(m, "enter", "enter").(MenuModel)
	if final.Selected() != nil {
		t.Error("Expected no selection without a version")
	}

	final = send(final, "esc", "q").(MenuModel)
	if !final.IsQuitting() {
		t.Error("Expected quit after leaving the version prompt")
	}
}

func TestMenuHistory(t *testing.T) {
	final := send(NewMenuModel(testGames, nil, 80, 24), "tab").(MenuModel)
	if !final.WantsHistory() {
		t.Error("Expected history request")
	}
}

type fakeRuns struct {
	all     []storage.Run
	byGame  map[string][]storage.Run
	lastErr error
}

func (f fakeRuns) RecentRuns(int) ([]storage.Run, error) { return f.all, f.lastErr }

func (f fakeRuns) RunsForGame(name string, _ int) ([]storage.Run, error) {
	return f.byGame[name], f.lastErr
}

func TestHistoryCyclesGames(t *testing.T) {
	started := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	run := storage.Run{Game: "1889", Version: "1", Status: storage.StatusSucceeded, Assets: 7, StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond)}
	src := fakeRuns{
		all:    []storage.Run{run, {Game: "1830", Version: "3", Status: storage.StatusFailed, StartedAt: started}},
		byGame: map[string][]storage.Run{"1889": {run}},
	}

	m := NewHistoryModel(src, []string{"1830", "1889"}, 100, 30)
	if len(m.runs) != 2 {
		t.Fatalf("Expected all runs first, got %d", len(m.runs))
	}

	m = send(m, "tab", "tab").(HistoryModel)
	if m.games[m.gameCursor] != "1889" || len(m.runs) != 1 {
		t.Errorf("Expected 1 run for 1889, got %d for %s", len(m.runs), m.games[m.gameCursor])
	}

	m = send(m, "tab").(HistoryModel)
	if m.gameCursor != 0 {
		t.Errorf("Expected wrap to all games, got cursor %d", m.gameCursor)
	}

	if !send(m, "esc").(HistoryModel).IsGoingBack() {
		t.Error("Expected back on esc")
	}
}

func TestHistoryLoadError(t *testing.T) {
	m := NewHistoryModel(fakeRuns{lastErr: errors.New("disk I/O error")}, nil, 60, 20)
	if !strings.Contains(m.View(), "disk I/O error") {
		t.Error("Expected load error in view")
	}
}

func TestRunRows(t *testing.T) {
	started := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	rows := RunRows([]storage.Run{
		{Game: "1889", Version: "1", Status: storage.StatusSucceeded, Assets: 7, StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond)},
		{Game: "1830", Version: "2", Status: storage.StatusRunning, StartedAt: started},
	})

	if rows[0][3] != "7" || rows[0][5] != "1.5s" {
		t.Errorf("Unexpected first row %v", rows[0])
	}
	if rows[1][5] != "-" {
		t.Errorf("Expected - for an unfinished run, got %q", rows[1][5])
	}
}
