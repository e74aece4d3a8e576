package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is an untyped element handle.
type Element struct {
	node *html.Node
}

// Kind is satisfied by the typed element handles below. It lets components
// state statically which element kinds they manage.
type Kind interface {
	~struct{ node *html.Node }
	Tag() atom.Atom
}

type (
	DivElement     Element
	SectionElement Element
	FormElement    Element
	UListElement   Element
	LIElement      Element
	InputElement   Element
)

func (DivElement) Tag() atom.Atom     { return atom.Div }
func (SectionElement) Tag() atom.Atom { return atom.Section }
func (FormElement) Tag() atom.Atom    { return atom.Form }
func (UListElement) Tag() atom.Atom   { return atom.Ul }
func (LIElement) Tag() atom.Atom      { return atom.Li }
func (InputElement) Tag() atom.Atom   { return atom.Input }

// As wraps n as kind E, checking its tag.
func As[E Kind](n *html.Node) (E, error) {
	var zero E
	if n == nil {
		return zero, fmt.Errorf("%w: <%s>", ErrElementNotFound, zero.Tag())
	}
	if n.Type != html.ElementNode || n.DataAtom != zero.Tag() {
		return zero, fmt.Errorf("%w: want <%s>, got <%s>", ErrElementKind, zero.Tag(), n.Data)
	}
	return E(Element{node: n}), nil
}

// Node unwraps a typed element handle.
func Node[E Kind](e E) *html.Node {
	return Element(e).node
}
