package bind

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/indulgent-dev/indulgent/pkg/dom"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

type user struct {
	ID   int
	Name string
}

func listMarkup() string {
	return `<html><body><ul>
		<li bind:for="user of users by id" obind:inner_text="user.name"></li>
	</ul></body></html>`
}

func renderedRows(doc *dom.Document) []*dom.Node {
	return doc.Root.FindAll(func(n *dom.Node) bool {
		return n.Kind == dom.KindElement && n.Tag == "li" && !n.HasAttribute(forAttr)
	})
}

func rowTexts(rows []*dom.Node) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.InnerText()
	}
	return out
}

func TestForRendersInitialItems(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "Alice"}, {2, "Bob"}})
	Init(doc, Context{"users": users})
	sched.Flush()

	rows := renderedRows(doc)
	if got := rowTexts(rows); len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Fatalf("rows = %v", got)
	}

	// The template stays in the tree, hidden, after the rows.
	tpl := doc.Root.Find(func(n *dom.Node) bool { return n.HasAttribute(forAttr) })
	if tpl == nil {
		t.Fatal("template removed from tree")
	}
	if !tpl.HasAttribute("hidden") {
		t.Error("template not hidden")
	}
	if tpl.NextSibling() != nil && tpl.NextSibling().Kind == dom.KindElement {
		t.Error("rows rendered after the template")
	}
}

func TestForReusesRowsByIdentity(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "Alice"}, {2, "Bob"}})
	Init(doc, Context{"users": users})
	sched.Flush()

	before := renderedRows(doc)
	if len(before) != 2 {
		t.Fatalf("initial rows = %d", len(before))
	}

	// Rename keeps identity, append adds one row.
	users.Set([]user{{1, "Alice"}, {2, "Robert"}, {3, "Charlie"}})
	sched.Flush()

	after := renderedRows(doc)
	if got := rowTexts(after); len(got) != 3 || got[1] != "Robert" || got[2] != "Charlie" {
		t.Fatalf("rows after update = %v", got)
	}
	if after[0] != before[0] || after[1] != before[1] {
		t.Error("existing rows were rebuilt instead of reused")
	}
}

func TestForRecreatesRowOnIdentityChange(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "Alice"}, {2, "Bob"}})
	b := Init(doc, Context{"users": users})
	sched.Flush()

	before := renderedRows(doc)
	oldSig := b.ctx[indexedPrefix+"users_1"].(*reactive.Signal[any])

	// Index 1 changes identity: 2 is replaced by 3.
	users.Set([]user{{1, "Alice"}, {3, "Carol"}})
	sched.Flush()

	after := renderedRows(doc)
	if got := rowTexts(after); len(got) != 2 || got[0] != "Alice" || got[1] != "Carol" {
		t.Fatalf("rows = %v", got)
	}
	if after[0] != before[0] {
		t.Error("row keeping its identity was rebuilt")
	}
	if after[1] == before[1] {
		t.Error("row with a new identity was reused")
	}
	if got := oldSig.Dependents(); got != 0 {
		t.Errorf("discarded row signal still has %d dependents", got)
	}
	if b.ctx[indexedPrefix+"users_1"] == reactive.Source(oldSig) {
		t.Error("context still holds the discarded row signal")
	}
}

func TestForDuplicateKeysLastWriteWins(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "a"}, {2, "b"}})
	Init(doc, Context{"users": users})
	sched.Flush()

	before := renderedRows(doc)

	// Both rows now carry key 1. Each keeps its own per-index signal
	// and the later item's value stands in the later row.
	users.Set([]user{{1, "a"}, {1, "dup"}})
	sched.Flush()

	after := renderedRows(doc)
	if got := rowTexts(after); len(got) != 2 || got[0] != "a" || got[1] != "dup" {
		t.Fatalf("rows = %v", got)
	}
	if after[0] != before[0] {
		t.Error("row keeping its key was rebuilt")
	}
	if after[1] == before[1] {
		t.Error("row moving onto a duplicate key was reused")
	}
}

func TestForShrinksList(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "a"}, {2, "b"}, {3, "c"}})
	b := Init(doc, Context{"users": users})
	sched.Flush()

	users.Set([]user{{1, "a"}})
	sched.Flush()

	if got := rowTexts(renderedRows(doc)); len(got) != 1 || got[0] != "a" {
		t.Errorf("rows after shrink = %v", got)
	}
	// The per-row signals of removed rows are gone from the context.
	for name := range b.ctx {
		if strings.HasPrefix(name, indexedPrefix) && name != indexedPrefix+"users_0" {
			t.Errorf("stale row signal %q left in context", name)
		}
	}
}

func TestForEmptiesAndRefills(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "a"}})
	Init(doc, Context{"users": users})
	sched.Flush()

	users.Set(nil)
	sched.Flush()
	if got := renderedRows(doc); len(got) != 0 {
		t.Fatalf("rows after clear = %d", len(got))
	}

	users.Set([]user{{4, "d"}, {5, "e"}})
	sched.Flush()
	if got := rowTexts(renderedRows(doc)); len(got) != 2 || got[0] != "d" {
		t.Errorf("rows after refill = %v", got)
	}
}

func TestForWithoutKeyUsesPosition(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, `<html><body><ul>
		<li bind:for="item of items" obind:inner_text="item"></li>
	</ul></body></html>`)

	items := reactive.NewSignalOn(sched, []string{"one", "two"})
	Init(doc, Context{"items": items})
	sched.Flush()

	if got := rowTexts(renderedRows(doc)); got[0] != "one" || got[1] != "two" {
		t.Fatalf("rows = %v", got)
	}

	items.Set([]string{"two", "one"})
	sched.Flush()
	if got := rowTexts(renderedRows(doc)); got[0] != "two" || got[1] != "one" {
		t.Errorf("rows after swap = %v", got)
	}
}

func TestForBadSyntaxWarns(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, `<html><body><li bind:for="users"></li></body></html>`)

	var buf bytes.Buffer
	Init(doc, NewContext(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	if !strings.Contains(buf.String(), "E104") {
		t.Errorf("expected E104 warning, log: %s", buf.String())
	}
	if got := renderedRows(doc); len(got) != 0 {
		t.Errorf("unexpected rows: %d", len(got))
	}
}

func TestForUnknownArrayWarns(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	var buf bytes.Buffer
	Init(doc, NewContext(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	if !strings.Contains(buf.String(), "E101") {
		t.Errorf("expected E101 warning, log: %s", buf.String())
	}
}

func TestForInputBindingPerRow(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, `<html><body><div>
		<input bind:for="item of items" iobind:value="item">
	</div></body></html>`)

	items := reactive.NewSignalOn(sched, []any{"first", "second"})
	Init(doc, Context{"items": items})
	sched.Flush()

	inputs := doc.Root.FindAll(func(n *dom.Node) bool {
		return n.Tag == "input" && !n.HasAttribute(forAttr)
	})
	if len(inputs) != 2 {
		t.Fatalf("inputs = %d", len(inputs))
	}
	if got := inputs[1].GetProperty("value"); got != "second" {
		t.Fatalf("second input value = %v", got)
	}

	// Typing into a row updates that row's signal only.
	inputs[0].DispatchInput("edited")
	sched.Flush()
	if got := inputs[0].GetProperty("value"); got != "edited" {
		t.Errorf("first input value = %v", got)
	}
	if got := inputs[1].GetProperty("value"); got != "second" {
		t.Errorf("second input value changed: %v", got)
	}
}

func TestForTeardownOnClose(t *testing.T) {
	sched := reactive.NewScheduler()
	doc := parseDoc(t, sched, listMarkup())

	users := reactive.NewSignalOn(sched, []user{{1, "a"}, {2, "b"}})
	b := Init(doc, Context{"users": users})
	sched.Flush()

	b.Close()
	if got := renderedRows(doc); len(got) != 0 {
		t.Errorf("rows survived Close: %d", len(got))
	}
	if users.Dependents() != 0 {
		t.Errorf("array source still has %d dependents", users.Dependents())
	}

	users.Set([]user{{3, "c"}})
	sched.Flush()
	if got := renderedRows(doc); len(got) != 0 {
		t.Errorf("closed region rendered rows: %d", len(got))
	}
}
