// Package state holds the board's single source of truth: the ordered
// project list and the listeners told about every change to it.
package state

import (
	"slices"
	"sync"

	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/google/uuid"
)

// Listener receives a private copy of the full project list after each
// mutation.
type Listener func(projects []project.Project)

// ProjectState is an observable, in-memory project store.
//
// It is not safe for concurrent use. In the server every call is made from
// the event loop goroutine.
type ProjectState struct {
	projects  []project.Project
	listeners Listeners[[]project.Project]
	newID     func() string
}

// Option configures a ProjectState.
type Option func(*ProjectState)

// WithIDGenerator overrides how project ids are generated. Generated ids must
// be unique for the lifetime of the store.
func WithIDGenerator(fn func() string) Option {
	return func(s *ProjectState) {
		s.newID = fn
	}
}

// New creates an empty store.
func New(opts ...Option) *ProjectState {
	s := &ProjectState{newID: newProjectID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultState = sync.OnceValue(func() *ProjectState { return New() })

// Default returns the process-wide store.
func Default() *ProjectState {
	return defaultState()
}

// AddListener registers fn for every later mutation.
func (s *ProjectState) AddListener(fn Listener) {
	s.listeners.Add(fn)
}

// AddProject appends a new active project and notifies listeners. Input is
// not validated here.
func (s *ProjectState) AddProject(title, description string, people int) project.Project {
	proj := project.Project{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		People:      people,
		Status:      project.StatusActive,
	}
	s.projects = append(s.projects, proj)
	s.notify()
	return proj
}

// MoveProject sets the status of the project with the given id and notifies
// listeners. An unknown id or an unchanged status is a no-op and reports
// false.
func (s *ProjectState) MoveProject(id string, status project.Status) bool {
	i := slices.IndexFunc(s.projects, func(p project.Project) bool { return p.ID == id })
	if i < 0 || s.projects[i].Status == status {
		return false
	}
	s.projects[i].Status = status
	s.notify()
	return true
}

// Projects returns a copy of the current project list.
func (s *ProjectState) Projects() []project.Project {
	return slices.Clone(s.projects)
}

// Get returns the project with the given id.
func (s *ProjectState) Get(id string) (project.Project, error) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return project.Project{}, project.ErrProjectNotFound
}

// Len returns the number of projects.
func (s *ProjectState) Len() int {
	return len(s.projects)
}

func (s *ProjectState) notify() {
	s.listeners.NotifyEach(s.Projects)
}

func newProjectID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
