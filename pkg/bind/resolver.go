package bind

import (
	"log/slog"
	"reflect"
	"strings"

	ierrors "github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/dom"
	"github.com/indulgent-dev/indulgent/pkg/metrics"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// boundMarker flags an element whose binding attributes have already
// been processed, so re-scans triggered by mutations are no-ops.
const boundMarker = "data-ind-bound"

const (
	prefixOut   = "obind"
	prefixIn    = "ibind"
	prefixInOut = "iobind"
)

// Property aliases the snake_case conversion alone would not produce.
var propAliases = map[string]string{
	"class":      "className",
	"html":       "innerHTML",
	"inner_html": "innerHTML",
	"text":       "innerText",
}

// Input-capable properties and the events that carry their updates.
var inputEvents = map[string]string{
	"value":   "input",
	"checked": "change",
}

// Binder holds the binding state for one document root: the name
// context, the cached path computeds, and the active list regions.
type Binder struct {
	doc   *dom.Document
	root  *dom.Node
	ctx   Context
	log   *slog.Logger
	debug bool

	paths    map[string]*pathComputed
	regions  map[*dom.Node]*forRegion
	teardown []func()
	observer *dom.MutationObserver
}

type pathComputed struct {
	computed *reactive.Computed[any]
	refs     int
}

func (b *Binder) warn(err *ierrors.Error, el *dom.Node) {
	metrics.RecordBindingError(err.Code)
	attrs := []any{"code", err.Code, "category", string(err.Category)}
	if el != nil {
		attrs = append(attrs, "tag", el.Tag)
	}
	if err.Path != "" {
		attrs = append(attrs, "path", err.Path)
	}
	b.log.Warn(err.Message, attrs...)
}

func (b *Binder) trace(msg string, attrs ...any) {
	if b.debug {
		b.log.Debug(msg, attrs...)
	}
}

// bindTree processes bind:for templates under root first, then binding
// attributes on every remaining element. Returns the teardown for
// everything it wired.
func (b *Binder) bindTree(root *dom.Node) []func() {
	var teardown []func()

	root.Walk(func(n *dom.Node) bool {
		if n.Kind != dom.KindElement {
			return true
		}
		if _, ok := n.GetAttribute(forAttr); ok {
			teardown = append(teardown, b.bindFor(n)...)
			// The region manages its own subtree.
			return false
		}
		teardown = append(teardown, b.bindElement(n)...)
		return true
	})
	return teardown
}

// bindElement wires the binding attributes of a single element.
func (b *Binder) bindElement(el *dom.Node) []func() {
	if el.HasAttribute(boundMarker) {
		return nil
	}

	var teardown []func()
	applied := false
	// Attribute order determines binding order.
	attrs := make([]dom.Attr, len(el.Attrs))
	copy(attrs, el.Attrs)
	for _, a := range attrs {
		prefix, token, ok := splitBindingKey(a.Key)
		if !ok {
			continue
		}
		prop := propertyName(token)

		src, writable, err := b.resolve(a.Value)
		if err != nil {
			b.warn(err, el)
			continue
		}
		if expr := strings.TrimSpace(a.Value); strings.Contains(expr, ".") {
			teardown = append(teardown, func() { b.releasePath(expr) })
		}

		if prefix == prefixOut || prefix == prefixInOut {
			teardown = append(teardown, b.bindOut(el, prop, src))
			applied = true
		}
		if prefix == prefixIn || prefix == prefixInOut {
			if td, err := b.bindIn(el, prop, a.Value, src, writable); err != nil {
				b.warn(err, el)
			} else {
				teardown = append(teardown, td)
				applied = true
			}
		}
	}

	// Only an applied binding marks the element. An element whose
	// bindings all failed stays eligible for a later re-scan.
	if applied {
		el.SetAttribute(boundMarker, "")
	}
	return teardown
}

// bindOut applies the source's current value to the property and keeps
// it applied on every change.
func (b *Binder) bindOut(el *dom.Node, prop string, src reactive.Source) func() {
	el.SetProperty(prop, src.Load())
	dep := reactive.DependentFunc(func(v any) {
		el.SetProperty(prop, v)
	})
	src.RegisterDependent(dep)
	metrics.RecordBinding("out")
	b.trace("bound output", "tag", el.Tag, "prop", prop)
	return func() { src.UnregisterDependent(dep) }
}

// bindIn routes user input events on the element back into the source.
func (b *Binder) bindIn(el *dom.Node, prop, path string, src reactive.Source, writable reactive.Sink) (func(), *ierrors.Error) {
	if writable == nil {
		return nil, ierrors.New(ierrors.CodeNotWritable).WithPath(path)
	}
	event, ok := inputEvents[prop]
	if !ok {
		return nil, ierrors.New(ierrors.CodeUnsupportedProp).WithPath(prop)
	}
	listener := el.AddEventListener(event, func(ev *dom.Event) {
		if err := writable.Store(ev.Target.GetProperty(prop)); err != nil {
			b.warn(ierrors.FromError(err, ierrors.CodeNotWritable), el)
		}
	})
	metrics.RecordBinding("in")
	b.trace("bound input", "tag", el.Tag, "prop", prop, "event", event)
	return func() { el.RemoveEventListener(listener) }, nil
}

// resolve turns a binding expression into a source. Plain names resolve
// through the context; dotted paths resolve to a cached read-only
// computed that projects the named field out of the head source.
func (b *Binder) resolve(expr string) (reactive.Source, reactive.Sink, *ierrors.Error) {
	expr = strings.TrimSpace(expr)
	head, rest, dotted := strings.Cut(expr, ".")

	src, ok := b.ctx.Lookup(head)
	if !ok {
		return nil, nil, ierrors.New(ierrors.CodeUnknownSignal).WithPath(head)
	}
	if !dotted {
		sink, _ := src.(reactive.Sink)
		return src, sink, nil
	}

	// Dotted paths are read-only projections.
	if entry, ok := b.paths[expr]; ok {
		entry.refs++
		return entry.computed, nil, nil
	}
	segments := strings.Split(rest, ".")
	computed := reactive.NewComputedOn(b.doc.Scheduler(), func() any {
		return projectPath(src.Load(), segments)
	})
	b.paths[expr] = &pathComputed{computed: computed, refs: 1}
	return computed, nil, nil
}

// releasePath drops one reference to a cached path computed, disposing
// it when nothing uses it anymore.
func (b *Binder) releasePath(expr string) {
	entry, ok := b.paths[expr]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		entry.computed.Dispose()
		delete(b.paths, expr)
	}
}

// projectPath walks maps and exported struct fields by segment name.
// Any miss along the way yields nil.
func projectPath(value any, segments []string) any {
	for _, seg := range segments {
		if value == nil {
			return nil
		}
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Map:
			mv := rv.MapIndex(reflect.ValueOf(seg))
			if !mv.IsValid() {
				return nil
			}
			value = mv.Interface()
		case reflect.Struct:
			fv := rv.FieldByNameFunc(func(name string) bool {
				return strings.EqualFold(name, seg)
			})
			if !fv.IsValid() || !fv.CanInterface() {
				return nil
			}
			value = fv.Interface()
		default:
			return nil
		}
	}
	return value
}

// splitBindingKey recognizes obind:, ibind:, and iobind: attribute keys.
func splitBindingKey(key string) (prefix, token string, ok bool) {
	prefix, token, found := strings.Cut(key, ":")
	if !found || token == "" {
		return "", "", false
	}
	switch prefix {
	case prefixOut, prefixIn, prefixInOut:
		return prefix, token, true
	}
	return "", "", false
}

// propertyName converts a snake_case attribute token to the camelCase
// property it addresses.
func propertyName(token string) string {
	if alias, ok := propAliases[token]; ok {
		return alias
	}
	parts := strings.Split(token, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if alias, ok := propAliases[b.String()]; ok {
		return alias
	}
	return b.String()
}
