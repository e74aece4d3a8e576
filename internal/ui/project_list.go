package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ganot/projectboard/internal/dom"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/dragdrop"
	"github.com/ganot/projectboard/internal/state"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const droppableClass = "droppable"

// ProjectListView renders the projects of one status and accepts drops that
// move projects into that status.
type ProjectListView struct {
	dragdrop.EventTarget

	comp     *dom.Component[dom.DivElement, dom.SectionElement]
	store    *state.ProjectState
	kind     project.Status
	assigned []project.Project
	items    []*ProjectItem
}

var _ dragdrop.DragTarget = (*ProjectListView)(nil)

// NewProjectListView mounts a list for kind into the app element and
// subscribes it to store.
func NewProjectListView(doc *dom.Document, store *state.ProjectState, kind project.Status) (*ProjectListView, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: list type %q", project.ErrInvalidInput, kind)
	}
	comp, err := dom.NewComponent[dom.DivElement, dom.SectionElement](doc, "project-list", "app", false, string(kind)+"-projects")
	if err != nil {
		return nil, fmt.Errorf("mount %s list: %w", kind, err)
	}
	v := &ProjectListView{comp: comp, store: store, kind: kind}
	v.configure()
	v.renderContent()
	return v, nil
}

func (v *ProjectListView) configure() {
	dragdrop.ListenTarget(&v.EventTarget, v)
	v.store.AddListener(v.onProjects)
}

func (v *ProjectListView) renderContent() {
	el := v.comp.Node()
	dom.SetAttr(dom.MustQuery(el, atom.Ul), "id", v.ListID())
	dom.SetTextContent(dom.MustQuery(el, atom.H2), strings.ToUpper(string(v.kind))+" PROJECTS")
}

func (v *ProjectListView) onProjects(projects []project.Project) {
	v.assigned = project.FilterByStatus(projects, v.kind)
	v.renderProjects()
}

func (v *ProjectListView) renderProjects() {
	doc := v.comp.Document()
	list := doc.GetElementByID(v.ListID())
	if list == nil {
		panic(fmt.Errorf("%w: #%s", dom.ErrElementNotFound, v.ListID()))
	}
	dom.Clear(list)

	v.items = v.items[:0]
	for _, p := range v.assigned {
		item, err := NewProjectItem(doc, v.ListID(), p)
		if err != nil {
			panic(err)
		}
		v.items = append(v.items, item)
	}
}

// OnDragOver accepts plain text payloads and marks the list droppable.
func (v *ProjectListView) OnDragOver(ev *dragdrop.DragEvent) {
	if !ev.AcceptsPlainText() {
		return
	}
	ev.PreventDefault()
	dom.AddClass(v.listNode(), droppableClass)
}

// OnDrop moves the dragged project into this list's status.
func (v *ProjectListView) OnDrop(ev *dragdrop.DragEvent) {
	dom.RemoveClass(v.listNode(), droppableClass)
	if ev == nil {
		return
	}
	v.store.MoveProject(ev.DataTransfer.GetData(dragdrop.MIMEPlainText), v.kind)
}

// OnDragLeave removes the droppable marker.
func (v *ProjectListView) OnDragLeave(*dragdrop.DragEvent) {
	dom.RemoveClass(v.listNode(), droppableClass)
}

func (v *ProjectListView) listNode() *html.Node {
	return dom.MustQuery(v.comp.Node(), atom.Ul)
}

// Type returns the status this list shows.
func (v *ProjectListView) Type() project.Status {
	return v.kind
}

// ListID returns the id of the list element.
func (v *ProjectListView) ListID() string {
	return string(v.kind) + "-projects-list"
}

// Assigned returns the projects from the latest notification.
func (v *ProjectListView) Assigned() []project.Project {
	return slices.Clone(v.assigned)
}

// Items returns the rendered rows.
func (v *ProjectListView) Items() []*ProjectItem {
	return slices.Clone(v.items)
}

// Droppable reports whether the drop affordance is showing.
func (v *ProjectListView) Droppable() bool {
	return dom.HasClass(v.listNode(), droppableClass)
}

// Node returns the list's section element.
func (v *ProjectListView) Node() *html.Node {
	return v.comp.Node()
}
