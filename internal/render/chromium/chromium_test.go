package chromium

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mailru/easyjson/jwriter"

	"github.com/vovakirdan/b18print/internal/render"
)

func findChrome(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome binary on PATH")
	return ""
}

func TestTransparentParams(t *testing.T) {
	var w jwriter.Writer
	transparent{}.MarshalEasyJSON(&w)
	got, err := w.BuildBytes()
	if err != nil {
		t.Fatalf("BuildBytes() failed: %v", err)
	}
	if want := `{"color":{"r":0,"g":0,"b":0,"a":0}}`; string(got) != want {
		t.Errorf("params = %s, want %s", got, want)
	}
}

func TestRegistered(t *testing.T) {
	if !render.Exists(Name) {
		t.Error("Expected chromium backend to be registered")
	}
}

func TestCapture(t *testing.T) {
	chrome := findChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body style="margin:0"><div style="width:40px;height:40px;background:red"></div></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	surface, err := render.Open(ctx, Name, render.Options{ChromePath: chrome})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer surface.Close()

	page, err := surface.NewPage(ctx)
	if err != nil {
		t.Fatalf("NewPage() failed: %v", err)
	}
	defer page.Close()

	if err := page.Navigate(ctx, srv.URL+"/"); err != nil {
		t.Fatalf("Navigate() failed: %v", err)
	}
	if err := page.SetViewport(ctx, 60, 30); err != nil {
		t.Fatalf("SetViewport() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "Tokens.png")
	if err := page.Capture(ctx, path, render.CaptureOptions{OmitBackground: true}); err != nil {
		t.Fatalf("Capture() failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty capture, got %v", err)
	}

	navCtx, navCancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer navCancel()
	if err := page.Navigate(navCtx, srv.URL+"/slow"); !errors.Is(err, render.ErrNavigationTimeout) {
		t.Errorf("Expected ErrNavigationTimeout, got %v", err)
	}
}
