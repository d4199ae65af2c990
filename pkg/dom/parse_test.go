package dom

import (
	"strings"
	"testing"
)

func TestParsePreservesDoctype(t *testing.T) {
	doc, err := ParseString("<!DOCTYPE html><html><head></head><body><p>hi</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Root.Children) == 0 || doc.Root.Children[0].Kind != KindDoctype {
		t.Fatal("doctype not preserved as first child")
	}
	if !strings.HasPrefix(doc.HTML(), "<!DOCTYPE html>") {
		t.Errorf("serialized output missing doctype: %q", doc.HTML())
	}
}

func TestParseAttributesAndText(t *testing.T) {
	doc, err := ParseString(`<html><body><input type="text" ibind:value="name"></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	input := doc.Root.ByTag("input")
	if input == nil {
		t.Fatal("input not found")
	}
	if v, _ := input.GetAttribute("ibind:value"); v != "name" {
		t.Errorf("ibind:value = %q", v)
	}
	if input.Attrs[0].Key != "type" {
		t.Errorf("attribute order lost: %+v", input.Attrs)
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := ParseFragment("<li>a</li><li>b</li>")
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Tag != "li" || nodes[0].InnerText() != "a" {
		t.Errorf("unexpected first node: %+v", nodes[0])
	}
}

func TestSerializeEscapes(t *testing.T) {
	n := NewElement("p")
	n.SetAttribute("title", `a"b`)
	n.AppendChild(NewText("1 < 2 & 3"))

	got := SerializeString(n)
	want := `<p title="a&quot;b">1 &lt; 2 &amp; 3</p>`
	if got != want {
		t.Errorf("serialized = %q, want %q", got, want)
	}
}

func TestSerializeVoidAndBareAttributes(t *testing.T) {
	n := NewElement("input")
	n.SetAttribute("hidden", "")
	n.SetAttribute("value", "x")

	got := SerializeString(n)
	want := `<input hidden value="x">`
	if got != want {
		t.Errorf("serialized = %q, want %q", got, want)
	}
}

func TestSerializeRawText(t *testing.T) {
	n := NewElement("script")
	n.AppendChild(NewText("if (a < b) {}"))
	got := SerializeString(n)
	if got != "<script>if (a < b) {}</script>" {
		t.Errorf("serialized = %q", got)
	}
}

func TestParseSerializeRoundTrip(t *testing.T) {
	src := `<!DOCTYPE html><html><head><title>t</title></head><body><ul><li class="row">x</li></ul></body></html>`
	doc, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.HTML(); got != src {
		t.Errorf("round trip changed markup:\n got %q\nwant %q", got, src)
	}
}
