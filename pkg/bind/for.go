package bind

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	ierrors "github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/dom"
	"github.com/indulgent-dev/indulgent/pkg/metrics"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// forAttr marks a template element that renders once per array item.
const forAttr = "bind:for"

// indexedPrefix names the per-index signals a list region exposes to
// its clones. The array name and index make the name unique per row.
const indexedPrefix = "__indulgent_for_"

// "item of items" with an optional "by id" identity key.
var forExpr = regexp.MustCompile(`^\s*(\w+)\s+of\s+(\w+)(?:\s+by\s+([\w.]+))?\s*$`)

// forRegion keeps one bind:for template in step with its array source.
// The template stays in the tree, hidden, as the trailing insertion
// marker; clones are inserted before it in array order.
type forRegion struct {
	binder   *Binder
	template *dom.Node
	parent   *dom.Node
	alias    string
	array    string
	keyPath  []string

	source reactive.Source
	dep    reactive.Dependent
	rows   []*forRow
}

type forRow struct {
	node     *dom.Node
	signal   *reactive.Signal[any]
	name     string
	key      any
	teardown []func()
}

// bindFor turns a template element carrying bind:for into a live list
// region. The returned teardown detaches the region from its source
// and removes every rendered row.
func (b *Binder) bindFor(template *dom.Node) []func() {
	if template.HasAttribute(boundMarker) {
		return nil
	}
	expr, _ := template.GetAttribute(forAttr)
	m := forExpr.FindStringSubmatch(expr)
	if m == nil {
		b.warn(ierrors.New(ierrors.CodeBadForSyntax).WithDetail(expr), template)
		return nil
	}
	alias, array := m[1], m[2]

	src, ok := b.ctx.Lookup(array)
	if !ok {
		b.warn(ierrors.New(ierrors.CodeUnknownSignal).WithPath(array), template)
		return nil
	}

	r := &forRegion{
		binder:   b,
		template: template,
		parent:   template.Parent,
		alias:    alias,
		array:    array,
		source:   src,
	}
	if m[3] != "" {
		r.keyPath = strings.Split(m[3], ".")
	}

	template.SetAttribute("hidden", "")
	template.SetAttribute(boundMarker, "")
	b.regions[template] = r

	r.render(src.Load())
	r.dep = reactive.DependentFunc(r.render)
	src.RegisterDependent(r.dep)

	b.trace("bound list", "alias", alias, "array", array)
	return []func(){r.dispose}
}

// render reconciles the rendered rows against the array value. A row
// whose identity key still matches is reused in place, its signal
// refreshed so its bindings update. An identity change discards the
// row's signal and rebuilds the row at the same position.
func (r *forRegion) render(value any) {
	items := asSlice(value)

	for i, item := range items {
		if i < len(r.rows) {
			row := r.rows[i]
			if reflect.DeepEqual(row.key, r.identity(item, i)) {
				row.signal.Set(item)
				continue
			}
			ref := row.node.NextSibling()
			if ref == nil {
				ref = r.template
			}
			r.removeRow(row)
			r.rows[i] = r.insertRow(i, item, ref)
			continue
		}
		r.rows = append(r.rows, r.insertRow(i, item, r.template))
	}

	for len(r.rows) > len(items) {
		last := len(r.rows) - 1
		r.removeRow(r.rows[last])
		r.rows = r.rows[:last]
	}
}

// insertRow clones the template for one item, binds the clone against
// a fresh per-index signal, and inserts it before ref.
func (r *forRegion) insertRow(index int, item any, ref *dom.Node) *forRow {
	name := fmt.Sprintf("%s%s_%d", indexedPrefix, r.array, index)
	sig := reactive.NewSignalOn(r.binder.doc.Scheduler(), item)

	row := &forRow{
		signal: sig,
		name:   name,
		key:    r.identity(item, index),
	}
	// Last write wins when a name is somehow already taken.
	r.binder.ctx[name] = sig

	clone := r.template.Clone()
	clone.RemoveAttribute(forAttr)
	clone.RemoveAttribute("hidden")
	clone.RemoveAttribute(boundMarker)
	rewriteAliasRefs(clone, r.alias, name)

	// Rows stay in array order: new rows go before the trailing
	// template, replacements where the discarded row stood.
	r.parent.InsertBefore(clone, ref)
	metrics.RecordRows(1)
	row.node = clone
	row.teardown = r.binder.bindTree(clone)
	return row
}

func (r *forRegion) removeRow(row *forRow) {
	for _, td := range row.teardown {
		td()
	}
	row.signal.UnregisterAllDependents()
	delete(r.binder.ctx, row.name)
	row.node.Remove()
}

func (r *forRegion) dispose() {
	r.source.UnregisterDependent(r.dep)
	for _, row := range r.rows {
		r.removeRow(row)
	}
	r.rows = nil
	delete(r.binder.regions, r.template)
	r.template.RemoveAttribute("hidden")
	r.template.RemoveAttribute(boundMarker)
}

// identity computes a row's identity key. Without a "by" clause the
// position is the identity.
func (r *forRegion) identity(item any, index int) any {
	if len(r.keyPath) == 0 {
		return index
	}
	return projectPath(item, r.keyPath)
}

// rewriteAliasRefs replaces the loop alias at the head of binding
// expressions in the clone's subtree with the row's signal name, so
// "user.name" becomes "__indulgent_for_users_0.name".
func rewriteAliasRefs(root *dom.Node, alias, name string) {
	root.Walk(func(n *dom.Node) bool {
		if n.Kind != dom.KindElement {
			return true
		}
		for i, a := range n.Attrs {
			if _, _, ok := splitBindingKey(a.Key); !ok {
				continue
			}
			expr := strings.TrimSpace(a.Value)
			head, rest, dotted := strings.Cut(expr, ".")
			if head != alias {
				continue
			}
			if dotted {
				n.Attrs[i].Value = name + "." + rest
			} else {
				n.Attrs[i].Value = name
			}
		}
		return true
	})
}

// asSlice flattens the array source's value into []any. Non-slice
// values render as an empty list.
func asSlice(value any) []any {
	if value == nil {
		return nil
	}
	if items, ok := value.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
