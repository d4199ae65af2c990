package bind

import (
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// Context maps the names binding attributes may reference to their
// backing sources.
type Context map[string]reactive.Source

// NewContext returns an empty binding context.
func NewContext() Context {
	return make(Context)
}

// Merge returns a new context holding the entries of c overlaid with
// the entries of others. Later contexts win on name collisions.
func (c Context) Merge(others ...Context) Context {
	out := make(Context, len(c))
	for name, src := range c {
		out[name] = src
	}
	for _, other := range others {
		for name, src := range other {
			out[name] = src
		}
	}
	return out
}

// Lookup resolves a name, reporting whether it is bound.
func (c Context) Lookup(name string) (reactive.Source, bool) {
	src, ok := c[name]
	return src, ok
}
