package prerender

import (
	"sync"

	"github.com/indulgent-dev/indulgent/pkg/bind"
	"github.com/indulgent-dev/indulgent/pkg/dom"
)

// SetupFunc builds the binding context for one page. It receives the
// parsed document before binding, typically to seed signals on the
// document's scheduler and occasionally to inspect the markup.
type SetupFunc func(doc *dom.Document) (bind.Context, error)

// SetupMeta is the meta tag naming a page's setup program:
//
//	<meta name="indulgent-setup" content="homepage">
//
// Pages without the tag are rendered as-is, with no binding pass.
const SetupMeta = "indulgent-setup"

var (
	setupsMu sync.RWMutex
	setups   = make(map[string]SetupFunc)
)

// RegisterSetup makes a setup program available to pages under the
// given name. Registering a name twice replaces the earlier program.
func RegisterSetup(name string, fn SetupFunc) {
	setupsMu.Lock()
	setups[name] = fn
	setupsMu.Unlock()
}

// lookupSetup returns the registered program, or nil.
func lookupSetup(name string) SetupFunc {
	setupsMu.RLock()
	defer setupsMu.RUnlock()
	return setups[name]
}

// setupName extracts the setup program named by the document, if any.
func setupName(doc *dom.Document) (string, bool) {
	meta := doc.Root.Find(func(n *dom.Node) bool {
		if n.Kind != dom.KindElement || n.Tag != "meta" {
			return false
		}
		v, _ := n.GetAttribute("name")
		return v == SetupMeta
	})
	if meta == nil {
		return "", false
	}
	content, _ := meta.GetAttribute("content")
	return content, content != ""
}
