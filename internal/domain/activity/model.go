package activity

import (
	"time"

	"github.com/ganot/projectboard/internal/domain/project"
)

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectAdded ActivityType = "project_added"
	TypeProjectMoved ActivityType = "project_moved"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	return t == TypeProjectAdded || t == TypeProjectMoved
}

// ActivityEntry represents one change to the board
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
	Seq          int64        `json:"seq"`
}

// AddedDetails is the Details payload of a project_added entry.
type AddedDetails struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	People      int            `json:"people"`
	Status      project.Status `json:"status"`
}

// MovedDetails is the Details payload of a project_moved entry.
type MovedDetails struct {
	From project.Status `json:"from"`
	To   project.Status `json:"to"`
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID    string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
