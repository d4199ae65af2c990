package dom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindDocument Kind = iota // tree root
	KindDoctype              // <!DOCTYPE html>
	KindElement              // <div>, <input>, etc.
	KindText                 // plain text
	KindComment              // <!-- ... -->
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindDoctype:
		return "Doctype"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attr is a single attribute. Attribute order is preserved because the
// binding layer processes bindings in attribute order.
type Attr struct {
	Key   string
	Value string
}

// Node is a node in the document tree.
type Node struct {
	Kind     Kind
	Tag      string // element tag name, lowercase
	Attrs    []Attr // ordered
	Text     string // for KindText, KindComment, KindDoctype
	Parent   *Node
	Children []*Node

	doc       *Document
	props     map[string]any
	listeners map[string][]*EventListener
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: tag}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Document returns the owning document, or nil while detached.
func (n *Node) Document() *Document {
	return n.doc
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute sets an attribute, updating in place when present so
// attribute order is stable.
func (n *Node) SetAttribute(key, value string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// RemoveAttribute removes an attribute, reporting whether it existed.
func (n *Node) RemoveAttribute(key string) bool {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first. Emits a childList mutation.
func (n *Node) AppendChild(child *Node) {
	n.insertAt(child, len(n.Children))
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
// Emits a childList mutation.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		n.AppendChild(child)
		return
	}
	n.insertAt(child, idx)
}

// RemoveChild detaches child from n, reporting whether it was a child.
// Emits a childList mutation.
func (n *Node) RemoveChild(child *Node) bool {
	idx := n.indexOf(child)
	if idx < 0 {
		return false
	}
	n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	child.Parent = nil
	child.setDocument(nil)
	if n.doc != nil {
		n.doc.recordMutation(n, nil, []*Node{child})
	}
	return true
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// NextSibling returns the node immediately after n under the same
// parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	idx := n.Parent.indexOf(n)
	if idx < 0 || idx+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[idx+1]
}

// Clone returns a deep copy of n: kind, tag, attributes, text, and
// children. Event listeners and properties are not cloned, matching
// cloneNode semantics. The copy is detached.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind: n.Kind,
		Tag:  n.Tag,
		Text: n.Text,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// Walk visits n and every descendant depth-first. Returning false from
// fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// Copy: fn may mutate the child list (the list reconciler does).
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		c.Walk(fn)
	}
}

// Find returns the first node (depth-first, including n) matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found == nil && pred(node) {
			found = node
			return false
		}
		return found == nil
	})
	return found
}

// FindAll returns every node (depth-first, including n) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// ByTag returns the first descendant element with the given tag.
func (n *Node) ByTag(tag string) *Node {
	return n.Find(func(node *Node) bool {
		return node.Kind == KindElement && node.Tag == tag
	})
}

// ByID returns the first descendant element whose id attribute equals id.
func (n *Node) ByID(id string) *Node {
	return n.Find(func(node *Node) bool {
		if node.Kind != KindElement {
			return false
		}
		v, ok := node.GetAttribute("id")
		return ok && v == id
	})
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// InnerText returns the concatenated text of all descendant text nodes.
func (n *Node) InnerText() string {
	var out string
	n.Walk(func(node *Node) bool {
		if node.Kind == KindText {
			out += node.Text
		}
		return true
	})
	return out
}

// SetInnerText replaces n's children with a single text node.
func (n *Node) SetInnerText(text string) {
	n.removeAllChildren()
	n.AppendChild(NewText(text))
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) insertAt(child *Node, idx int) {
	if child.Parent != nil {
		// Moving within the same parent shifts indices.
		if child.Parent == n && child.Parent.indexOf(child) < idx {
			idx--
		}
		child.Remove()
	}
	if idx < 0 || idx > len(n.Children) {
		idx = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
	child.Parent = n
	child.setDocument(n.doc)
	if n.doc != nil {
		n.doc.recordMutation(n, []*Node{child}, nil)
	}
}

func (n *Node) removeAllChildren() {
	for len(n.Children) > 0 {
		n.RemoveChild(n.Children[len(n.Children)-1])
	}
}

func (n *Node) setDocument(doc *Document) {
	n.doc = doc
	for _, c := range n.Children {
		c.setDocument(doc)
	}
}
