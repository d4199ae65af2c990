package bind

import (
	"log/slog"
	"sync"

	"github.com/indulgent-dev/indulgent/pkg/dom"
)

// initMarker flags a root that already has a live binder attached.
const initMarker = "data-ind-init"

// binders tracks the live binder per root, so a second Init on the
// same root merges into it instead of double-binding.
var (
	bindersMu sync.Mutex
	binders   = map[*dom.Node]*Binder{}
)

// Option configures Init.
type Option func(*Binder)

// WithRoot restricts binding to a subtree instead of the document body.
func WithRoot(root *dom.Node) Option {
	return func(b *Binder) { b.root = root }
}

// WithLogger routes binder warnings to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Binder) { b.log = log }
}

// WithDebug enables per-binding trace logging.
func WithDebug(debug bool) Option {
	return func(b *Binder) { b.debug = debug }
}

// Init scans the root for binding attributes, wires everything it
// finds, and keeps watching the subtree so elements added later are
// bound automatically. Calling Init again on the same root installs no
// second observer and re-binds nothing already marked; it merges the
// new context entries into the live binder, re-scans the root for
// elements the earlier pass could not bind, and returns that binder.
func Init(doc *dom.Document, ctx Context, opts ...Option) *Binder {
	b := &Binder{
		doc:     doc,
		ctx:     ctx,
		log:     slog.Default(),
		paths:   make(map[string]*pathComputed),
		regions: make(map[*dom.Node]*forRegion),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.ctx == nil {
		b.ctx = NewContext()
	}
	if b.root == nil {
		b.root = doc.Body()
	}
	if b.root == nil {
		return nil
	}

	bindersMu.Lock()
	existing, live := binders[b.root]
	if !live {
		binders[b.root] = b
	}
	bindersMu.Unlock()
	if live {
		return existing.rejoin(ctx)
	}

	b.root.SetAttribute(initMarker, "")
	b.teardown = b.bindTree(b.root)
	b.observer = doc.Observe(b.root, dom.ObserveOptions{ChildList: true, Subtree: true}, b.onMutations)
	return b
}

// rejoin merges additional context entries into the live binder, later
// entries winning on name collisions, and re-scans the root. Elements
// bound earlier are skipped through their marker.
func (b *Binder) rejoin(ctx Context) *Binder {
	for name, src := range ctx {
		b.ctx[name] = src
	}
	b.teardown = append(b.teardown, b.bindTree(b.root)...)
	return b
}

// onMutations binds elements added after the initial scan. Templates
// are handled before plain binding attributes, the same order as the
// initial scan, and already-bound elements are skipped through their
// marker.
func (b *Binder) onMutations(records []dom.MutationRecord) {
	for _, rec := range records {
		for _, added := range rec.Added {
			if added.Kind != dom.KindElement || !b.root.Contains(added) {
				continue
			}
			b.teardown = append(b.teardown, b.bindTree(added)...)
		}
	}
}

// Flush drains the scheduler the binder delivers on. Equivalent to
// reactive.Flush when the document uses the default scheduler.
func (b *Binder) Flush() {
	b.doc.Scheduler().Flush()
}

// Close detaches the binder: the mutation observer disconnects, every
// binding and list region is torn down, and the root can be
// initialized again.
func (b *Binder) Close() {
	bindersMu.Lock()
	delete(binders, b.root)
	bindersMu.Unlock()

	if b.observer != nil {
		b.observer.Disconnect()
		b.observer = nil
	}
	for _, td := range b.teardown {
		td()
	}
	b.teardown = nil
	for expr, entry := range b.paths {
		entry.computed.Dispose()
		delete(b.paths, expr)
	}
	b.root.RemoveAttribute(initMarker)
}
