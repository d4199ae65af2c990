// Package prerender runs binding-annotated pages through the binder on
// the server and writes out the settled HTML. The output is what a
// browser would show after the first flush: bindings applied, lists
// expanded, templates hidden in place.
package prerender

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ierrors "github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/bind"
	"github.com/indulgent-dev/indulgent/pkg/dom"
	"github.com/indulgent-dev/indulgent/pkg/metrics"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

const defaultTracerName = "indulgent/prerender"

// Renderer pre-renders pages. The zero value is not usable; construct
// with NewRenderer.
type Renderer struct {
	log    *slog.Logger
	tracer trace.Tracer
	debug  bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes render and binder logging to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithTracerName overrides the tracer the renderer resolves from the
// global provider.
func WithTracerName(name string) Option {
	return func(r *Renderer) { r.tracer = otel.Tracer(name) }
}

// WithDebug enables per-binding trace logging during renders.
func WithDebug(debug bool) Option {
	return func(r *Renderer) { r.debug = debug }
}

// NewRenderer creates a renderer using the global tracer provider.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		log:    slog.Default(),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render reads one page, runs its setup program and a settle flush,
// and writes the resulting HTML. A page without a setup meta tag
// passes through the parser and serializer untouched by bindings.
func (r *Renderer) Render(ctx context.Context, w io.Writer, src io.Reader) error {
	_, span := r.tracer.Start(ctx, "prerender.render")
	defer span.End()

	start := time.Now()
	err := r.render(w, src)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordPage(status, time.Since(start).Seconds())
	return err
}

func (r *Renderer) render(w io.Writer, src io.Reader) error {
	sched := reactive.NewScheduler()
	doc, err := dom.ParseOn(src, sched)
	if err != nil {
		return err
	}

	if name, ok := setupName(doc); ok {
		fn := lookupSetup(name)
		if fn == nil {
			return ierrors.New(ierrors.CodePrerenderSetup).WithPath(name).
				WithSuggestion("call prerender.RegisterSetup before rendering")
		}
		bctx, err := fn(doc)
		if err != nil {
			return ierrors.New(ierrors.CodePrerenderSetup).WithPath(name).Wrap(err)
		}
		binder := bind.Init(doc, bctx,
			bind.WithLogger(r.log), bind.WithDebug(r.debug))
		if binder != nil {
			// Close only after serialization; closing tears rendered
			// rows out of the tree.
			defer binder.Close()
			sched.Flush()
		}
	}

	stripMarkers(doc.Root)

	if _, err := io.WriteString(w, doc.HTML()); err != nil {
		return ierrors.New(ierrors.CodePrerenderWrite).Wrap(err)
	}
	return nil
}

// RenderFile renders srcPath into dstPath, creating parent directories
// as needed.
func (r *Renderer) RenderFile(ctx context.Context, srcPath, dstPath string) error {
	ctx, span := r.tracer.Start(ctx, "prerender.page",
		trace.WithAttributes(
			attribute.String("indulgent.src", srcPath),
			attribute.String("indulgent.dst", dstPath),
		))
	defer span.End()

	err := r.renderFile(ctx, srcPath, dstPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *Renderer) renderFile(ctx context.Context, srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return ierrors.New(ierrors.CodePrerenderRead).WithPath(srcPath).Wrap(err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return ierrors.New(ierrors.CodePrerenderWrite).WithPath(dstPath).Wrap(err)
	}
	dst, err := os.Create(dstPath)
	if err != nil {
		return ierrors.New(ierrors.CodePrerenderWrite).WithPath(dstPath).Wrap(err)
	}

	if err := r.Render(ctx, dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return ierrors.New(ierrors.CodePrerenderWrite).WithPath(dstPath).Wrap(err)
	}
	return nil
}

// RenderDir renders every .html file under srcDir into dstDir,
// preserving the directory layout. Non-HTML files are skipped. The
// first failing page aborts the walk.
func (r *Renderer) RenderDir(ctx context.Context, srcDir, dstDir string) error {
	ctx, span := r.tracer.Start(ctx, "prerender.dir",
		trace.WithAttributes(attribute.String("indulgent.src_dir", srcDir)))
	defer span.End()

	pages := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ierrors.New(ierrors.CodePrerenderRead).WithPath(path).Wrap(err)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return ierrors.New(ierrors.CodePrerenderRead).WithPath(path).Wrap(relErr)
		}
		if err := r.RenderFile(ctx, path, filepath.Join(dstDir, rel)); err != nil {
			return err
		}
		pages++
		r.log.Info("page rendered", "src", path, "rel", rel)
		return nil
	})

	span.SetAttributes(attribute.Int("indulgent.pages", pages))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// stripMarkers removes the binder's bookkeeping attributes so the
// served markup is clean and the client binder treats every element as
// fresh.
func stripMarkers(root *dom.Node) {
	root.Walk(func(n *dom.Node) bool {
		if n.Kind == dom.KindElement {
			n.RemoveAttribute("data-ind-bound")
			n.RemoveAttribute("data-ind-init")
		}
		return true
	})
}
