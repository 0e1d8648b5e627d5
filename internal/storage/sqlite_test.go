package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Reopening runs migrations against an existing schema.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	store.Close()
}

func TestStartAndFinishRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.StartRun("1889", "1", "Rich Price")
	if err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != StatusRunning {
		t.Errorf("Expected running status, got %s", runs[0].Status)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Error("Expected zero FinishedAt for running run")
	}

	if err := store.FinishRun(id, StatusSucceeded, 7, "render/1889/board18-1889-1.zip", nil); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	runs, err = store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	got := runs[0]
	if got.Game != "1889" || got.Version != "1" || got.Author != "Rich Price" {
		t.Errorf("Unexpected identity %q %q %q", got.Game, got.Version, got.Author)
	}
	if got.Status != StatusSucceeded {
		t.Errorf("Expected succeeded status, got %s", got.Status)
	}
	if got.Assets != 7 {
		t.Errorf("Expected 7 assets, got %d", got.Assets)
	}
	if got.Archive != "render/1889/board18-1889-1.zip" {
		t.Errorf("Unexpected archive %q", got.Archive)
	}
	if got.StartedAt.IsZero() || got.FinishedAt.IsZero() {
		t.Error("Expected both timestamps to be set")
	}
	if got.Duration() < 0 {
		t.Errorf("Expected non-negative duration, got %v", got.Duration())
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	store := openTestStore(t)

	id, err := store.StartRun("1830", "2", "")
	if err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if err := store.FinishRun(id, StatusFailed, 0, "", errors.New("navigation timeout")); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	runs, err := store.RunsForGame("1830", 0)
	if err != nil {
		t.Fatalf("RunsForGame() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].Error != "navigation timeout" {
		t.Errorf("Expected recorded error, got %q", runs[0].Error)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)

	if err := store.FinishRun(42, StatusSucceeded, 0, "", nil); err == nil {
		t.Error("Expected error for unknown run ID")
	}
}

func TestRunsOrderingAndFilter(t *testing.T) {
	store := openTestStore(t)

	for _, game := range []string{"1889", "1830", "1889"} {
		if _, err := store.StartRun(game, "1", ""); err != nil {
			t.Fatalf("StartRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID < runs[1].ID {
		t.Errorf("Expected newest first, got IDs %d, %d", runs[0].ID, runs[1].ID)
	}

	runs, err = store.RunsForGame("1889", 10)
	if err != nil {
		t.Fatalf("RunsForGame() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs for 1889, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Game != "1889" {
			t.Errorf("Unexpected game %q in filtered runs", r.Game)
		}
	}
}

func TestLastSuccess(t *testing.T) {
	store := openTestStore(t)

	last, err := store.LastSuccess("1889")
	if err != nil {
		t.Fatalf("LastSuccess() failed: %v", err)
	}
	if last != nil {
		t.Fatalf("Expected nil for game without runs, got %+v", last)
	}

	first, _ := store.StartRun("1889", "1", "")
	store.FinishRun(first, StatusSucceeded, 5, "a.zip", nil)
	second, _ := store.StartRun("1889", "2", "")
	store.FinishRun(second, StatusFailed, 0, "", errors.New("boom"))

	last, err = store.LastSuccess("1889")
	if err != nil {
		t.Fatalf("LastSuccess() failed: %v", err)
	}
	if last == nil {
		t.Fatal("Expected a successful run")
	}
	if last.ID != first || last.Version != "1" {
		t.Errorf("Expected run %d version 1, got %d version %s", first, last.ID, last.Version)
	}
}

func TestAllGameStats(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		game   string
		status Status
	}{
		{"1889", StatusSucceeded},
		{"1889", StatusFailed},
		{"1889", StatusSucceeded},
		{"1830", StatusFailed},
	}
	for _, tt := range tests {
		id, err := store.StartRun(tt.game, "1", "")
		if err != nil {
			t.Fatalf("StartRun() failed: %v", err)
		}
		if err := store.FinishRun(id, tt.status, 0, "", nil); err != nil {
			t.Fatalf("FinishRun() failed: %v", err)
		}
	}

	stats, err := store.AllGameStats()
	if err != nil {
		t.Fatalf("AllGameStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(stats))
	}

	st := stats["1889"]
	if st == nil {
		t.Fatal("Missing stats for 1889")
	}
	if st.Runs != 3 || st.Succeeded != 2 || st.Failed != 1 {
		t.Errorf("Unexpected 1889 stats %+v", st)
	}
	if st.LastRun.IsZero() {
		t.Error("Expected LastRun to be set")
	}
	if stats["1830"].Failed != 1 {
		t.Errorf("Expected 1 failure for 1830, got %d", stats["1830"].Failed)
	}
}
