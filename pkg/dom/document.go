// Package dom implements the DOM port on top of parsed HTML trees.
//
// Containers handed to the engine are *html.Node subtrees. The package
// owns the attribute schema: which data attributes mark the wrapper, the
// container, and the page namespace.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/ports"
)

// Document implements ports.DOM.
type Document struct {
	schema Schema
}

// Option configures the Document.
type Option func(*Document)

// WithSchema overrides the attribute schema.
func WithSchema(s Schema) Option {
	return func(d *Document) {
		d.schema = s
	}
}

// New creates a Document with the default schema.
func New(opts ...Option) *Document {
	d := &Document{schema: DefaultSchema()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schema returns the active attribute schema.
func (d *Document) Schema() Schema {
	return d.schema
}

// Parse extracts the container, namespace, title and wrapper from markup.
// Wrapper and container come from the same parsed tree, so a boot-time
// container stays attached to its wrapper and Swap accepts the pair as-is.
func (d *Document) Parse(markup string) (*ports.ParsedPage, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	container := findByAttr(root, d.schema.Prefix, d.schema.Container)
	if container == nil {
		return nil, fmt.Errorf("attribute %s=%q: %w", d.schema.Prefix, d.schema.Container, domain.ErrMissingContainer)
	}

	page := &ports.ParsedPage{
		Container: container,
		Namespace: attrValue(container, d.schema.Namespace),
		Title:     titleText(root),
	}
	if wrapper := findByAttr(root, d.schema.Prefix, d.schema.Wrapper); wrapper != nil {
		page.Wrapper = wrapper
	}
	return page, nil
}

// Swap detaches current from wrapper and attaches next in its place.
func (d *Document) Swap(wrapper, current, next domain.Container) error {
	w, err := asNode(wrapper, "wrapper")
	if err != nil {
		return err
	}
	cur, err := asNode(current, "current container")
	if err != nil {
		return err
	}
	nxt, err := asNode(next, "next container")
	if err != nil {
		return err
	}

	if cur.Parent != w {
		return fmt.Errorf("current container is not attached to the wrapper")
	}
	if nxt.Parent != nil {
		// The next container still hangs off its fetched document tree.
		nxt.Parent.RemoveChild(nxt)
	}
	w.InsertBefore(nxt, cur)
	w.RemoveChild(cur)
	return nil
}

func asNode(c domain.Container, what string) (*html.Node, error) {
	n, ok := c.(*html.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%s is not an html node (got %T)", what, c)
	}
	return n, nil
}

// findByAttr returns the first element (depth-first) whose attribute key
// has the given value.
func findByAttr(n *html.Node, key, value string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == key && a.Val == value {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByAttr(c, key, value); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func titleText(root *html.Node) string {
	title := findElement(root, "title")
	if title == nil {
		return ""
	}
	var sb strings.Builder
	for c := title.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
