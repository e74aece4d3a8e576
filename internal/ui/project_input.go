package ui

import (
	"fmt"
	"strings"

	"github.com/ganot/projectboard/internal/dom"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/state"
	"golang.org/x/net/html"
)

// ProjectInput is the project creation form.
type ProjectInput struct {
	comp     *dom.Component[dom.DivElement, dom.FormElement]
	store    *state.ProjectState
	registry *project.Registry
}

// NewProjectInput mounts the form at the top of the app element.
func NewProjectInput(doc *dom.Document, store *state.ProjectState, registry *project.Registry) (*ProjectInput, error) {
	comp, err := dom.NewComponent[dom.DivElement, dom.FormElement](doc, "project-input", "app", true, "user-input")
	if err != nil {
		return nil, fmt.Errorf("mount project input: %w", err)
	}
	for _, name := range []string{project.FieldTitle, project.FieldDescription, project.FieldPeople} {
		if dom.QueryAttr(comp.Node(), "name", name) == nil {
			return nil, fmt.Errorf("%w: form field %q", dom.ErrElementNotFound, name)
		}
	}
	return &ProjectInput{comp: comp, store: store, registry: registry}, nil
}

// Submit validates in and adds the project. On success the form is cleared;
// on failure nothing changes and the error joins one *project.FieldError per
// failed rule.
func (f *ProjectInput) Submit(in project.Input) (project.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := f.registry.Validate(in.Values()); err != nil {
		f.fill(in)
		return project.Project{}, err
	}
	proj := f.store.AddProject(in.Title, in.Description, in.People)
	f.clear()
	return proj, nil
}

// fill keeps what the user typed so a rejected form can be corrected.
func (f *ProjectInput) fill(in project.Input) {
	dom.SetAttr(f.field(project.FieldTitle), "value", in.Title)
	dom.SetTextContent(f.field(project.FieldDescription), in.Description)
	dom.SetAttr(f.field(project.FieldPeople), "value", fmt.Sprint(in.People))
}

func (f *ProjectInput) clear() {
	dom.SetAttr(f.field(project.FieldTitle), "value", "")
	dom.Clear(f.field(project.FieldDescription))
	dom.SetAttr(f.field(project.FieldPeople), "value", "")
}

func (f *ProjectInput) field(name string) *html.Node {
	n := dom.QueryAttr(f.comp.Node(), "name", name)
	if n == nil {
		panic(fmt.Errorf("%w: form field %q", dom.ErrElementNotFound, name))
	}
	return n
}

// Value returns the current value of a form field.
func (f *ProjectInput) Value(name string) string {
	n := f.field(name)
	if n.Data == "textarea" {
		return dom.TextContent(n)
	}
	return dom.Attr(n, "value")
}

// Node returns the form element.
func (f *ProjectInput) Node() *html.Node {
	return f.comp.Node()
}
