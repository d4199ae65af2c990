package dom

import (
	"io"
	"strings"
)

// Elements that never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Raw-text elements whose content is emitted without entity escaping.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Serialize writes the subtree rooted at n as HTML.
func Serialize(w io.Writer, n *Node) error {
	var b strings.Builder
	serializeNode(&b, n)
	_, err := io.WriteString(w, b.String())
	return err
}

// SerializeString renders the subtree rooted at n as an HTML string.
func SerializeString(n *Node) string {
	var b strings.Builder
	serializeNode(&b, n)
	return b.String()
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	return SerializeString(d.Root)
}

func serializeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindDocument:
		for _, c := range n.Children {
			serializeNode(b, c)
		}
	case KindDoctype:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Text)
		b.WriteString(">")
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->")
	case KindText:
		if n.Parent != nil && rawTextElements[n.Parent.Tag] {
			b.WriteString(n.Text)
		} else {
			b.WriteString(escapeText(n.Text))
		}
	case KindElement:
		b.WriteString("<")
		b.WriteString(n.Tag)
		for _, a := range n.Attrs {
			b.WriteString(" ")
			b.WriteString(a.Key)
			if a.Value != "" {
				b.WriteString(`="`)
				b.WriteString(escapeAttr(a.Value))
				b.WriteString(`"`)
			}
		}
		b.WriteString(">")
		if voidElements[n.Tag] {
			return
		}
		for _, c := range n.Children {
			serializeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteString(">")
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
