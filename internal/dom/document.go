// Package dom is a small document model over golang.org/x/net/html that
// views render into. The page layout, templates and mount points live in
// the parsed HTML; this package only finds, clones and edits nodes.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrElementNotFound indicates an expected element is missing.
	ErrElementNotFound = errors.New("element not found")
	// ErrElementKind indicates an element has an unexpected tag.
	ErrElementKind = errors.New("unexpected element kind")
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && Attr(n, "id") == id
	})
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the whole document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// RenderInner renders the children of the element with the given id.
func (d *Document) RenderInner(id string) (string, error) {
	n := d.GetElementByID(id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render #%s: %w", id, err)
		}
	}
	return buf.String(), nil
}

// QuerySelector returns the first descendant of n with the given tag, or nil.
func QuerySelector(n *html.Node, tag atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, func(m *html.Node) bool {
			return m.Type == html.ElementNode && m.DataAtom == tag
		}); found != nil {
			return found
		}
	}
	return nil
}

// MustQuery is QuerySelector for elements the markup guarantees. A miss is
// a programming error and panics.
func MustQuery(n *html.Node, tag atom.Atom) *html.Node {
	found := QuerySelector(n, tag)
	if found == nil {
		panic(fmt.Errorf("%w: <%s> under <%s id=%q>", ErrElementNotFound, tag, n.Data, Attr(n, "id")))
	}
	return found
}

// QueryAttr returns the first descendant of n whose attribute key is val.
func QueryAttr(n *html.Node, key, val string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, func(m *html.Node) bool {
			return m.Type == html.ElementNode && Attr(m, key) == val
		}); found != nil {
			return found
		}
	}
	return nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or replaces attribute key.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n once.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.TrimSpace(Attr(n, "class")+" "+class))
}

// RemoveClass removes class from n.
func RemoveClass(n *html.Node, class string) {
	classes := Classes(n)
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// Clear removes every child of n.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	Clear(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// TextContent concatenates the text beneath n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// ChildElements returns the element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// CloneDeep copies n and its subtree. The copy has no parent or siblings.
func CloneDeep(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(CloneDeep(c))
	}
	return clone
}

// ImportTemplate clones the first element inside a <template>.
func ImportTemplate(tmpl *html.Node) (*html.Node, error) {
	if tmpl.Type != html.ElementNode || tmpl.DataAtom != atom.Template {
		return nil, fmt.Errorf("%w: want <template>, got <%s>", ErrElementKind, tmpl.Data)
	}
	children := ChildElements(tmpl)
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: empty template #%s", ErrElementNotFound, Attr(tmpl, "id"))
	}
	return CloneDeep(children[0]), nil
}
