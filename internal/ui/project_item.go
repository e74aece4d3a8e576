package ui

import (
	"github.com/ganot/projectboard/internal/dom"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/dragdrop"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ProjectItem is one draggable row in a project list.
type ProjectItem struct {
	dragdrop.EventTarget

	comp    *dom.Component[dom.UListElement, dom.LIElement]
	project project.Project
}

// NewProjectItem renders p into the list with id hostID.
func NewProjectItem(doc *dom.Document, hostID string, p project.Project) (*ProjectItem, error) {
	comp, err := dom.NewComponent[dom.UListElement, dom.LIElement](doc, "single-project", hostID, false, p.ID)
	if err != nil {
		return nil, err
	}
	item := &ProjectItem{comp: comp, project: p}
	item.configure()
	item.renderContent()
	return item, nil
}

func (i *ProjectItem) configure() {
	dom.SetAttr(i.comp.Node(), "draggable", "true")
	dragdrop.ListenDraggable(&i.EventTarget, i)
}

func (i *ProjectItem) renderContent() {
	el := i.comp.Node()
	dom.SetTextContent(dom.MustQuery(el, atom.H2), i.project.Title)
	dom.SetTextContent(dom.MustQuery(el, atom.H3), i.project.PeopleLabel())
	dom.SetTextContent(dom.MustQuery(el, atom.P), i.project.Description)
}

// OnDragStart puts the project id in the plain text slot.
func (i *ProjectItem) OnDragStart(ev *dragdrop.DragEvent) {
	if ev.DataTransfer == nil {
		ev.DataTransfer = &dragdrop.DataTransfer{}
	}
	ev.DataTransfer.SetData(dragdrop.MIMEPlainText, i.project.ID)
	ev.DataTransfer.EffectAllowed = "move"
}

// OnDragEnd has nothing to clean up; the drop target re-renders.
func (i *ProjectItem) OnDragEnd(*dragdrop.DragEvent) {}

// Project returns the rendered project.
func (i *ProjectItem) Project() project.Project {
	return i.project
}

// Node returns the row element.
func (i *ProjectItem) Node() *html.Node {
	return i.comp.Node()
}
