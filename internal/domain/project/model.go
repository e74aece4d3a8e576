package project

import "fmt"

// Status is the lifecycle state of a project on the board.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusFinished
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, v)
	}
	return s, nil
}

// Project is one task on the board. Only Status changes after creation.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
	Status      Status `json:"status"`
}

// PeopleLabel renders the assignment count the way list rows show it.
func (p Project) PeopleLabel() string {
	if p.People == 1 {
		return "1 person assigned"
	}
	return fmt.Sprintf("%d persons assigned", p.People)
}

// FilterByStatus returns the projects with the given status, keeping order.
func FilterByStatus(projects []Project, status Status) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
