package bindtest

import (
	"strings"
	"testing"

	"github.com/indulgent-dev/indulgent/pkg/bind"
	"github.com/indulgent-dev/indulgent/pkg/dom"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// SessionBuilder allows fluent construction of binding test sessions.
type SessionBuilder struct {
	tb     testing.TB
	markup string
	sched  *reactive.Scheduler
	ctx    bind.Context
	opts   []bind.Option
}

// New starts a session builder for the given markup. The markup is a
// full document or a body fragment; fragments are wrapped in a body.
// Each builder carries its own scheduler so sessions are isolated.
//
// Example:
//
//	b := bindtest.New(t, `<input iobind:value="name">`)
//	name := bindtest.Signal(b.Scheduler(), "Ada")
//	s := b.WithSignal("name", name).Start()
func New(tb testing.TB, markup string) *SessionBuilder {
	tb.Helper()
	return &SessionBuilder{
		tb:     tb,
		markup: markup,
		sched:  reactive.NewScheduler(),
		ctx:    bind.NewContext(),
	}
}

// Scheduler returns the scheduler the session will run on. Signals
// meant for this session must be created on it.
func (b *SessionBuilder) Scheduler() *reactive.Scheduler {
	return b.sched
}

// WithSignal registers a source under the given binding name.
func (b *SessionBuilder) WithSignal(name string, src reactive.Source) *SessionBuilder {
	b.ctx[name] = src
	return b
}

// WithOptions appends binder options applied at Start.
func (b *SessionBuilder) WithOptions(opts ...bind.Option) *SessionBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Start parses the markup on an isolated scheduler, initializes the
// binder, and flushes once so the initial render is settled.
func (b *SessionBuilder) Start() *Session {
	b.tb.Helper()

	markup := b.markup
	if !strings.Contains(markup, "<body") {
		markup = "<html><body>" + markup + "</body></html>"
	}
	doc, err := dom.ParseOn(strings.NewReader(markup), b.sched)
	if err != nil {
		b.tb.Fatalf("parse markup: %v", err)
	}
	binder := bind.Init(doc, b.ctx, b.opts...)
	if binder == nil {
		b.tb.Fatal("binder init failed")
	}
	b.sched.Flush()
	return &Session{tb: b.tb, Doc: doc, Binder: binder, sched: b.sched}
}

// Session is a live bound document under test.
type Session struct {
	tb     testing.TB
	Doc    *dom.Document
	Binder *bind.Binder
	sched  *reactive.Scheduler
}

// Scheduler returns the session's isolated scheduler, for wiring
// signals created after Start.
func (s *Session) Scheduler() *reactive.Scheduler {
	return s.sched
}

// Signal creates a signal on the given scheduler. Shorthand for tests
// that build their context inline.
func Signal[T any](sched *reactive.Scheduler, initial T) *reactive.Signal[T] {
	return reactive.NewSignalOn(sched, initial)
}

// Flush drains pending propagation, settling the document.
func (s *Session) Flush() *Session {
	s.sched.Flush()
	return s
}

// Type simulates the user typing into the first element matched by the
// selector, then settles the document.
//
// Example:
//
//	s.Type("input", "User Input")
func (s *Session) Type(selector, value string) *Session {
	s.tb.Helper()
	s.find(selector).DispatchInput(value)
	return s.Flush()
}

// Toggle simulates the user toggling a checkbox, then settles the
// document.
func (s *Session) Toggle(selector string, checked bool) *Session {
	s.tb.Helper()
	s.find(selector).DispatchChange(checked)
	return s.Flush()
}

// Element returns the first element matched by the selector. Supported
// selectors are a tag name or #id.
func (s *Session) Element(selector string) *dom.Node {
	s.tb.Helper()
	return s.find(selector)
}

// Elements returns every element with the given tag, excluding
// bind:for templates.
func (s *Session) Elements(tag string) []*dom.Node {
	return s.Doc.Root.FindAll(func(n *dom.Node) bool {
		return n.Kind == dom.KindElement && n.Tag == tag && !n.HasAttribute("bind:for")
	})
}

// HTML serializes the current document.
func (s *Session) HTML() string {
	return s.Doc.HTML()
}

// ExpectText asserts the matched element's text content.
//
// Example:
//
//	s.ExpectText("p", "Updated Value")
func (s *Session) ExpectText(selector, want string) *Session {
	s.tb.Helper()
	if got := s.find(selector).InnerText(); got != want {
		s.tb.Errorf("text of %q = %q, want %q", selector, got, want)
	}
	return s
}

// ExpectValue asserts the matched element's value property.
func (s *Session) ExpectValue(selector string, want any) *Session {
	s.tb.Helper()
	if got := s.find(selector).GetProperty("value"); got != want {
		s.tb.Errorf("value of %q = %v, want %v", selector, got, want)
	}
	return s
}

// ExpectChecked asserts the matched element's checked property.
func (s *Session) ExpectChecked(selector string, want bool) *Session {
	s.tb.Helper()
	if got := s.find(selector).GetProperty("checked"); got != want {
		s.tb.Errorf("checked of %q = %v, want %v", selector, got, want)
	}
	return s
}

// ExpectRowTexts asserts the text of every rendered row with the given
// tag, in document order.
func (s *Session) ExpectRowTexts(tag string, want ...string) *Session {
	s.tb.Helper()
	rows := s.Elements(tag)
	if len(rows) != len(want) {
		s.tb.Errorf("row count for %q = %d, want %d", tag, len(rows), len(want))
		return s
	}
	for i, row := range rows {
		if got := row.InnerText(); got != want[i] {
			s.tb.Errorf("row %d text = %q, want %q", i, got, want[i])
		}
	}
	return s
}

// ExpectContains asserts the serialized document contains a substring.
func (s *Session) ExpectContains(substr string) *Session {
	s.tb.Helper()
	if html := s.HTML(); !strings.Contains(html, substr) {
		s.tb.Errorf("document does not contain %q:\n%s", substr, truncate(html, 500))
	}
	return s
}

// Close tears the binder down.
func (s *Session) Close() {
	s.Binder.Close()
}

func (s *Session) find(selector string) *dom.Node {
	s.tb.Helper()
	var n *dom.Node
	if strings.HasPrefix(selector, "#") {
		n = s.Doc.Root.ByID(selector[1:])
	} else {
		n = s.Doc.Root.ByTag(selector)
	}
	if n == nil {
		s.tb.Fatalf("no element matches %q", selector)
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
