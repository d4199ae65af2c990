package dev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/indulgent-dev/indulgent/internal/config"
	"github.com/indulgent-dev/indulgent/pkg/prerender"
)

// Server is the development server: render, serve, watch, reload.
type Server struct {
	cfg      *config.Config
	renderer *prerender.Renderer
	reload   *ReloadServer
	log      *slog.Logger
}

// NewServer creates a development server for the given project
// configuration.
func NewServer(cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		renderer: prerender.NewRenderer(prerender.WithLogger(log)),
		reload:   NewReloadServer(log),
		log:      log,
	}
}

// Run renders once, then serves and watches until the context is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.renderAll(ctx); err != nil {
		// A broken page at startup is not fatal in dev; the error
		// overlay shows it on first connect.
		s.log.Error("initial render failed", "err", err)
		s.reload.NotifyError(err.Error())
	}

	watcher, err := NewWatcher(append([]string{s.cfg.Pages}, s.cfg.Dev.Watch...), 100*time.Millisecond, s.log)
	if err != nil {
		return err
	}
	defer watcher.Close()
	watcher.OnChange(func(paths []string) {
		s.log.Info("sources changed", "count", len(paths))
		if err := s.renderAll(ctx); err != nil {
			s.log.Error("render failed", "err", err)
			s.reload.NotifyError(err.Error())
			return
		}
		s.reload.ClearError()
		s.reload.NotifyReload(paths[0])
	})

	addr := fmt.Sprintf("%s:%d", s.cfg.Dev.Host, s.cfg.Dev.Port)
	srv := &http.Server{Addr: addr, Handler: s.router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	go watcher.Run(ctx)

	s.log.Info("dev server listening", "addr", "http://"+addr)

	select {
	case <-ctx.Done():
		s.reload.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) renderAll(ctx context.Context) error {
	return s.renderer.RenderDir(ctx, s.cfg.Pages, s.cfg.Output)
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/_indulgent/reload", s.reload.HandleWebSocket)
	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.NotFound(s.servePage)
	return r
}

// servePage serves files from the output directory, injecting the
// reload script into HTML responses.
func (s *Server) servePage(w http.ResponseWriter, req *http.Request) {
	rel := strings.TrimPrefix(filepath.Clean("/"+req.URL.Path), "/")
	if rel == "" {
		rel = "index.html"
	}
	path := filepath.Join(s.cfg.Output, filepath.FromSlash(rel))

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "index.html")
	}
	if !strings.HasSuffix(path, ".html") {
		http.ServeFile(w, req, path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	html := injectReloadScript(string(data))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// injectReloadScript places the live-reload client before </body>, or
// appends it when no body close tag exists.
func injectReloadScript(html string) string {
	if idx := strings.LastIndex(html, "</body>"); idx >= 0 {
		return html[:idx] + ReloadScript + html[idx:]
	}
	return html + ReloadScript
}
