// Package ui holds the board's views: the creation form and one list per
// project status, all rendered into a single document.
package ui

import (
	"fmt"

	"github.com/ganot/projectboard/internal/dom"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/dragdrop"
	"github.com/ganot/projectboard/internal/state"
)

// Board assembles the form and both lists on one document.
type Board struct {
	doc      *dom.Document
	store    *state.ProjectState
	input    *ProjectInput
	active   *ProjectListView
	finished *ProjectListView
}

// Option configures a Board.
type Option func(*boardOptions)

type boardOptions struct {
	page string
}

// WithPage replaces the embedded page markup.
func WithPage(markup string) Option {
	return func(o *boardOptions) {
		o.page = markup
	}
}

// NewBoard parses the page and mounts the form and the active and finished
// lists, in that order.
func NewBoard(store *state.ProjectState, registry *project.Registry, opts ...Option) (*Board, error) {
	o := boardOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.page == "" {
		o.page = Page()
	}

	doc, err := dom.ParseString(o.page)
	if err != nil {
		return nil, err
	}

	input, err := NewProjectInput(doc, store, registry)
	if err != nil {
		return nil, err
	}
	active, err := NewProjectListView(doc, store, project.StatusActive)
	if err != nil {
		return nil, err
	}
	finished, err := NewProjectListView(doc, store, project.StatusFinished)
	if err != nil {
		return nil, err
	}

	return &Board{
		doc:      doc,
		store:    store,
		input:    input,
		active:   active,
		finished: finished,
	}, nil
}

// List returns the view for status.
func (b *Board) List(status project.Status) (*ProjectListView, error) {
	switch status {
	case project.StatusActive:
		return b.active, nil
	case project.StatusFinished:
		return b.finished, nil
	}
	return nil, fmt.Errorf("%w: list type %q", project.ErrInvalidInput, status)
}

// Input returns the creation form.
func (b *Board) Input() *ProjectInput {
	return b.input
}

// Store returns the store the board renders.
func (b *Board) Store() *state.ProjectState {
	return b.store
}

// Document returns the rendered document.
func (b *Board) Document() *dom.Document {
	return b.doc
}

// DispatchToList delivers a drag event to the list for status.
func (b *Board) DispatchToList(status project.Status, typ dragdrop.EventType, ev *dragdrop.DragEvent) (*ProjectListView, error) {
	list, err := b.List(status)
	if err != nil {
		return nil, err
	}
	if !list.DispatchEvent(typ, ev) {
		return nil, fmt.Errorf("%w: lists do not handle %s", project.ErrInvalidInput, typ)
	}
	return list, nil
}

// DispatchToItem delivers a drag event to the row showing project id.
func (b *Board) DispatchToItem(id string, typ dragdrop.EventType, ev *dragdrop.DragEvent) error {
	for _, list := range []*ProjectListView{b.active, b.finished} {
		for _, item := range list.items {
			if item.project.ID != id {
				continue
			}
			if !item.DispatchEvent(typ, ev) {
				return fmt.Errorf("%w: items do not handle %s", project.ErrInvalidInput, typ)
			}
			return nil
		}
	}
	return project.ErrProjectNotFound
}

// Render returns the whole page.
func (b *Board) Render() string {
	return b.doc.String()
}

// Fragment returns the markup inside the app element.
func (b *Board) Fragment() (string, error) {
	return b.doc.RenderInner("app")
}
