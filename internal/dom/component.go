package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Component is a piece of UI stamped from a <template> and mounted into a
// host element. H is the host kind and E the kind of the template's root.
type Component[H Kind, E Kind] struct {
	doc     *Document
	host    H
	element E
}

// NewComponent clones template templateID, checks the kinds of the host and
// the template root, and mounts the clone into hostID at the start or the
// end. newElementID, when set, becomes the id of the mounted element.
func NewComponent[H Kind, E Kind](doc *Document, templateID, hostID string, insertAtStart bool, newElementID string) (*Component[H, E], error) {
	tmpl := doc.GetElementByID(templateID)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template #%s", ErrElementNotFound, templateID)
	}
	if tmpl.DataAtom != atom.Template {
		return nil, fmt.Errorf("%w: #%s is <%s>, want <template>", ErrElementKind, templateID, tmpl.Data)
	}

	host, err := As[H](doc.GetElementByID(hostID))
	if err != nil {
		return nil, fmt.Errorf("host #%s: %w", hostID, err)
	}

	content, err := ImportTemplate(tmpl)
	if err != nil {
		return nil, err
	}
	element, err := As[E](content)
	if err != nil {
		return nil, fmt.Errorf("template #%s: %w", templateID, err)
	}
	if newElementID != "" {
		SetAttr(content, "id", newElementID)
	}

	c := &Component[H, E]{doc: doc, host: host, element: element}
	c.attach(insertAtStart)
	return c, nil
}

func (c *Component[H, E]) attach(atStart bool) {
	host := Node(c.host)
	el := Node(c.element)
	if atStart && host.FirstChild != nil {
		host.InsertBefore(el, host.FirstChild)
		return
	}
	host.AppendChild(el)
}

// Document returns the document the component lives in.
func (c *Component[H, E]) Document() *Document {
	return c.doc
}

// Host returns the element the component is mounted in.
func (c *Component[H, E]) Host() H {
	return c.host
}

// Element returns the component's own element.
func (c *Component[H, E]) Element() E {
	return c.element
}

// Node returns the component's own element node.
func (c *Component[H, E]) Node() *html.Node {
	return Node(c.element)
}

// Detach removes the component's element from its host.
func (c *Component[H, E]) Detach() {
	el := Node(c.element)
	if el.Parent != nil {
		el.Parent.RemoveChild(el)
	}
}
