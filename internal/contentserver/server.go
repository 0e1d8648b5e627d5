// Package contentserver serves the print pages on a local address: the built
// single-page site when one exists, and the built-in JSON sheets otherwise.
package contentserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/b18print/internal/catalog"
	"github.com/vovakirdan/b18print/internal/config"
	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/sheet"
)

// Games resolves a game name to its spec.
type Games interface {
	Game(name string) (*game.Spec, error)
}

// Dir loads games from <dir>/<name>.json on every request.
type Dir string

// Game implements Games.
func (d Dir) Game(name string) (*game.Spec, error) {
	return game.LoadByName(string(d), name)
}

// Fixed serves one preloaded spec under one name.
type Fixed struct {
	Name string
	Spec *game.Spec
}

// Game implements Games.
func (f Fixed) Game(name string) (*game.Spec, error) {
	if name != f.Name {
		return nil, fmt.Errorf("%w: %s", game.ErrNotFound, name)
	}
	return f.Spec, nil
}

// Options configures a Server.
type Options struct {
	// Address is the host:port to listen on. Port 0 picks a free port.
	Address string

	// SiteDir holds the built site; index.html is the fallback for every
	// route that is not a file.
	SiteDir string

	Games   Games
	Catalog catalog.Catalog
	Config  config.Config
	Logger  *log.Logger
}

// Server is the local content server used during a render.
type Server struct {
	opts    Options
	logger  *log.Logger
	handler http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// New creates a server. It does not listen until Start.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "b18print-server",
		})
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}

	s := &Server{opts: opts, logger: logger}
	s.handler = s.loggingMiddleware(s.routes())
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listener and serves in the background. The listener is
// bound before Start returns, so URLs are reachable immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("contentserver: already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("contentserver: listen %s: %w", s.opts.Address, err)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.done = make(chan struct{})

	srv, done := s.server, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("content server failed", "error", err)
		}
	}()

	s.logger.Info("content server listening", "address", "http://"+ln.Addr().String())
	return nil
}

// Stop gracefully shuts the server down. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.server, s.done
	s.server, s.listener, s.done = nil, nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Debug("shutting down content server")
	err := srv.Shutdown(ctx)
	<-done
	if err != nil {
		return fmt.Errorf("contentserver: shutdown: %w", err)
	}
	return nil
}

// ListenAndServe starts the server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Address
}

// URL returns an absolute URL for a path on this server.
func (s *Server) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + s.Addr() + path
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /sheets/{bname}/{page...}", func(w http.ResponseWriter, r *http.Request) {
		s.serveSheet(w, r, r.PathValue("bname"), r.PathValue("page"))
	})

	// Print routes of the site. They answer with the sheet when the caller
	// asks for JSON or when there is no built site to hand the route to.
	printRoute := func(page func(r *http.Request) string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if wantsJSON(r) || !s.hasIndex() {
				s.serveSheet(w, r, r.PathValue("bname"), page(r))
				return
			}
			s.serveIndex(w, r)
		}
	}
	fixed := func(name string) func(*http.Request) string {
		return func(*http.Request) string { return name }
	}
	mux.HandleFunc("GET /games/{bname}/b18/map", printRoute(fixed(sheet.PageMap)))
	mux.HandleFunc("GET /games/{bname}/market", printRoute(fixed(sheet.PageMarket)))
	mux.HandleFunc("GET /games/{bname}/b18/tokens", printRoute(fixed(sheet.PageTokens)))
	mux.HandleFunc("GET /games/{bname}/b18/revenue", printRoute(fixed(sheet.PageRevenue)))
	mux.HandleFunc("GET /games/{bname}/b18/tiles/{color...}", printRoute(func(r *http.Request) string {
		return sheet.PageTiles + "/" + r.PathValue("color")
	}))

	mux.HandleFunc("GET /", s.serveSite)
	return mux
}

func (s *Server) serveSheet(w http.ResponseWriter, r *http.Request, bname, page string) {
	spec, err := s.opts.Games.Game(bname)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, game.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.logger.Warn("sheet request failed", "game", bname, "page", page, "error", err)
		http.Error(w, err.Error(), status)
		return
	}

	sh, err := sheet.Build(page, sheet.Source{
		Name:    bname,
		Spec:    spec,
		Catalog: s.opts.Catalog,
		Config:  s.opts.Config,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sheet.ErrUnknownPage) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sh); err != nil {
		s.logger.Warn("writing sheet", "error", err)
	}
}

// serveSite serves files from the site dir and falls back to index.html.
func (s *Server) serveSite(w http.ResponseWriter, r *http.Request) {
	if s.opts.SiteDir == "" {
		http.NotFound(w, r)
		return
	}
	name := filepath.Join(s.opts.SiteDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	s.serveIndex(w, r)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if !s.hasIndex() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.opts.SiteDir, "index.html"))
}

func (s *Server) hasIndex() bool {
	if s.opts.SiteDir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(s.opts.SiteDir, "index.html"))
	return err == nil && !info.IsDir()
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
