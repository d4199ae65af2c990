package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ierrors "github.com/indulgent-dev/indulgent/internal/errors"
	"github.com/indulgent-dev/indulgent/pkg/reactive"
)

// Parse reads an HTML document into a tree on the default scheduler.
func Parse(r io.Reader) (*Document, error) {
	return ParseOn(r, nil)
}

// ParseOn is Parse with an explicit scheduler.
func ParseOn(r io.Reader, sched *reactive.Scheduler) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, ierrors.New(ierrors.CodePrerenderParse).Wrap(err)
	}
	if sched == nil {
		sched = reactive.Default()
	}
	d := &Document{
		Root:  &Node{Kind: KindDocument},
		sched: sched,
	}
	d.Root.doc = d
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c); n != nil {
			d.Root.AppendChild(n)
		}
	}
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFragment parses markup as body content and returns the detached
// top-level nodes.
func ParseFragment(markup string) ([]*Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, ierrors.New(ierrors.CodePrerenderParse).Wrap(err)
	}
	var out []*Node
	for _, p := range parsed {
		if n := convert(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func convert(src *html.Node) *Node {
	switch src.Type {
	case html.DoctypeNode:
		return &Node{Kind: KindDoctype, Text: src.Data}
	case html.CommentNode:
		return &Node{Kind: KindComment, Text: src.Data}
	case html.TextNode:
		return &Node{Kind: KindText, Text: src.Data}
	case html.ElementNode:
		n := NewElement(src.Data)
		for _, a := range src.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: a.Key, Value: a.Val})
		}
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if cc := convert(c); cc != nil {
				cc.Parent = n
				n.Children = append(n.Children, cc)
			}
		}
		return n
	default:
		return nil
	}
}
