package dom

import (
	"fmt"
	"strings"
)

// Properties addressed by the binding layer, named in the camelCase
// form the attribute grammar produces. Scalar form-state properties
// (value, checked) are mirrored to attributes so serialized output
// reflects bound state; structural properties (innerText, textContent,
// innerHTML) rewrite the child list.

// SetProperty sets a named property on an element.
func (n *Node) SetProperty(name string, value any) {
	switch name {
	case "innerText", "textContent":
		n.SetInnerText(propString(value))
	case "innerHTML":
		n.setInnerHTML(propString(value))
	case "checked":
		b, _ := value.(bool)
		n.setProp("checked", b)
		if b {
			n.SetAttribute("checked", "")
		} else {
			n.RemoveAttribute("checked")
		}
	default:
		n.setProp(name, value)
		n.SetAttribute(attributeName(name), propString(value))
	}
}

// GetProperty returns a named property. Missing properties yield nil,
// except form-state properties that fall back to their attribute.
func (n *Node) GetProperty(name string) any {
	switch name {
	case "innerText", "textContent":
		return n.InnerText()
	case "innerHTML":
		return n.innerHTML()
	case "checked":
		if v, ok := n.getProp("checked"); ok {
			return v
		}
		return n.HasAttribute("checked")
	default:
		if v, ok := n.getProp(name); ok {
			return v
		}
		if v, ok := n.GetAttribute(attributeName(name)); ok {
			return v
		}
		return nil
	}
}

func (n *Node) setProp(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

func (n *Node) getProp(name string) (any, bool) {
	if n.props == nil {
		return nil, false
	}
	v, ok := n.props[name]
	return v, ok
}

func (n *Node) setInnerHTML(markup string) {
	n.removeAllChildren()
	children, err := ParseFragment(markup)
	if err != nil {
		return
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}

func (n *Node) innerHTML() string {
	var b strings.Builder
	for _, c := range n.Children {
		serializeNode(&b, c)
	}
	return b.String()
}

// attributeName maps a camelCase property name to its attribute form.
// Properties and attributes share names for everything the binder
// supports except class.
func attributeName(prop string) string {
	if prop == "className" {
		return "class"
	}
	return strings.ToLower(prop)
}

func propString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
