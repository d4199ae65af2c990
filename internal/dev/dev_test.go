package dev

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indulgent-dev/indulgent/internal/config"
)

func TestInjectReloadScript(t *testing.T) {
	html := "<html><body><p>hi</p></body></html>"
	out := injectReloadScript(html)
	if !strings.Contains(out, "/_indulgent/reload") {
		t.Error("script not injected")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</body></html>") {
		t.Errorf("script injected after body close: %q", out[len(out)-40:])
	}

	// No body tag: appended.
	out = injectReloadScript("<p>bare</p>")
	if !strings.Contains(out, "<script>") {
		t.Error("script not appended for bare fragment")
	}
}

func TestServePageInjectsScript(t *testing.T) {
	outDir := t.TempDir()
	page := "<html><body><h1>ok</h1></body></html>"
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.New()
	cfg.Output = outDir
	s := NewServer(cfg, nil)

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1>ok</h1>") {
		t.Error("page body missing")
	}
	if !strings.Contains(body, "/_indulgent/reload") {
		t.Error("reload script missing")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}

func TestServePageMissing(t *testing.T) {
	cfg := config.New()
	cfg.Output = t.TempDir()
	s := NewServer(cfg, nil)

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.html", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMetricsRouteGatedByConfig(t *testing.T) {
	cfg := config.New()
	cfg.Output = t.TempDir()
	s := NewServer(cfg, nil)

	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code == http.StatusOK {
		t.Error("metrics served while disabled")
	}

	cfg.Metrics.Enabled = true
	rec = httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestReloadServerClientCount(t *testing.T) {
	r := NewReloadServer(nil)
	if r.ClientCount() != 0 {
		t.Error("fresh server has clients")
	}
	// Broadcasting with no clients must not panic.
	r.NotifyReload("x")
	r.NotifyError("boom")
	r.ClearError()
	r.Close()
}
