package dom

import "testing"

func TestSetPropertyInnerText(t *testing.T) {
	n := NewElement("p")
	n.SetProperty("innerText", "hello")
	if got := n.GetProperty("innerText"); got != "hello" {
		t.Errorf("innerText = %v", got)
	}
	n.SetProperty("textContent", 42)
	if got := n.GetProperty("textContent"); got != "42" {
		t.Errorf("textContent = %v", got)
	}
}

func TestSetPropertyInnerHTML(t *testing.T) {
	n := NewElement("div")
	n.SetProperty("innerHTML", "<span>x</span>y")
	if len(n.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(n.Children))
	}
	if got := n.GetProperty("innerHTML"); got != "<span>x</span>y" {
		t.Errorf("innerHTML = %v", got)
	}
}

func TestCheckedMirrorsAttribute(t *testing.T) {
	n := NewElement("input")
	n.SetProperty("checked", true)
	if !n.HasAttribute("checked") {
		t.Error("checked attribute missing after set")
	}
	if got := n.GetProperty("checked"); got != true {
		t.Errorf("checked = %v", got)
	}

	n.SetProperty("checked", false)
	if n.HasAttribute("checked") {
		t.Error("checked attribute survived unset")
	}
	if got := n.GetProperty("checked"); got != false {
		t.Errorf("checked = %v", got)
	}
}

func TestCheckedFallsBackToAttribute(t *testing.T) {
	n := NewElement("input")
	n.SetAttribute("checked", "")
	if got := n.GetProperty("checked"); got != true {
		t.Errorf("checked = %v, want attribute fallback true", got)
	}
}

func TestValueMirrorsAttribute(t *testing.T) {
	n := NewElement("input")
	n.SetProperty("value", "typed")
	if v, _ := n.GetAttribute("value"); v != "typed" {
		t.Errorf("value attribute = %q", v)
	}
	if got := n.GetProperty("value"); got != "typed" {
		t.Errorf("value property = %v", got)
	}
}

func TestClassNameMapsToClassAttribute(t *testing.T) {
	n := NewElement("div")
	n.SetProperty("className", "active")
	if v, _ := n.GetAttribute("class"); v != "active" {
		t.Errorf("class attribute = %q", v)
	}
}

func TestMissingPropertyIsNil(t *testing.T) {
	n := NewElement("div")
	if got := n.GetProperty("title"); got != nil {
		t.Errorf("missing property = %v, want nil", got)
	}
	n.SetAttribute("title", "hi")
	if got := n.GetProperty("title"); got != "hi" {
		t.Errorf("attribute fallback = %v", got)
	}
}
