package bindtest

import (
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	b := New(t, `<input iobind:value="name"><p obind:inner_text="name"></p>`)
	name := Signal(b.Scheduler(), "Initial Value")
	s := b.WithSignal("name", name).Start()
	defer s.Close()

	s.ExpectValue("input", "Initial Value").
		ExpectText("p", "Initial Value")

	name.Set("Updated Value")
	s.Flush().ExpectText("p", "Updated Value")

	s.Type("input", "User Input").
		ExpectText("p", "User Input")
	if got := name.Peek(); got != "User Input" {
		t.Errorf("signal = %q", got)
	}
}

func TestSessionToggle(t *testing.T) {
	b := New(t, `<input type="checkbox" iobind:checked="done">`)
	done := Signal(b.Scheduler(), false)
	s := b.WithSignal("done", done).Start()
	defer s.Close()

	s.Toggle("input", true).ExpectChecked("input", true)
	if !done.Peek() {
		t.Error("signal not updated by toggle")
	}
}

func TestSessionRows(t *testing.T) {
	b := New(t, `<ul><li bind:for="item of items" obind:inner_text="item"></li></ul>`)
	items := Signal(b.Scheduler(), []string{"one", "two"})
	s := b.WithSignal("items", items).Start()
	defer s.Close()

	s.ExpectRowTexts("li", "one", "two")

	items.Set([]string{"one", "two", "three"})
	s.Flush().ExpectRowTexts("li", "one", "two", "three")
}

func TestSessionSelectors(t *testing.T) {
	b := New(t, `<p id="greeting" obind:inner_text="msg"></p>`)
	msg := Signal(b.Scheduler(), "hello")
	s := b.WithSignal("msg", msg).Start()
	defer s.Close()

	s.ExpectText("#greeting", "hello").
		ExpectContains(`id="greeting"`)
	if s.Element("#greeting") != s.Element("p") {
		t.Error("selectors resolved different elements")
	}
}
