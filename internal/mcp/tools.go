package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 200
)

type AddProjectInput struct {
	Title       string `json:"title" jsonschema:"project title"`
	Description string `json:"description" jsonschema:"what the project is about, at least 5 characters"`
	People      int    `json:"people" jsonschema:"number of people assigned, 1 to 5"`
}

type AddProjectResult struct {
	Project project.Project `json:"project" jsonschema:"the created project, always active"`
}

type MoveProjectInput struct {
	ID     string `json:"id" jsonschema:"project id"`
	Status string `json:"status" jsonschema:"target status: active or finished"`
}

type MoveProjectResult struct {
	Moved bool `json:"moved" jsonschema:"false when the id is unknown or the project already had that status"`
}

type ListProjectsInput struct {
	Status string `json:"status,omitempty" jsonschema:"optional status filter: active or finished"`
}

type ListProjectsResult struct {
	Projects []project.Project `json:"projects" jsonschema:"projects in board order"`
}

type RecentActivityInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return (default 20, max 200)"`
}

// ActivityItem is an activity entry with its timestamp rendered as RFC 3339.
type ActivityItem struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	Type      string `json:"type" jsonschema:"project_added or project_moved"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty" jsonschema:"JSON encoded details"`
	CreatedAt string `json:"created_at"`
	Seq       int64  `json:"seq" jsonschema:"board change counter"`
}

type RecentActivityResult struct {
	Entries []ActivityItem `json:"entries" jsonschema:"activity entries, newest first"`
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "add_project",
		Description: "Add a new active project to the board",
	}, s.addProject)
	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "move_project",
		Description: "Move a project to the active or finished list",
	}, s.moveProject)
	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, optionally only one status",
	}, s.listProjects)
	sdkmcp.AddTool(s.mcpServer, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent board changes, newest first",
	}, s.recentActivity)
}

func (s *Server) addProject(ctx context.Context, _ *sdkmcp.CallToolRequest, input AddProjectInput) (*sdkmcp.CallToolResult, AddProjectResult, error) {
	in := project.Input{Title: input.Title, Description: input.Description, People: input.People}
	if err := s.registry.Validate(in.Values()); err != nil {
		return nil, AddProjectResult{}, toolError(err)
	}

	title, description := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	var proj project.Project
	err := s.loop.Do(ctx, func() {
		proj = s.store.AddProject(title, description, in.People)
	})
	if err != nil {
		return nil, AddProjectResult{}, toolError(err)
	}
	s.logger.Info("project added", "project_id", proj.ID, "via", "mcp")
	return nil, AddProjectResult{Project: proj}, nil
}

func (s *Server) moveProject(ctx context.Context, _ *sdkmcp.CallToolRequest, input MoveProjectInput) (*sdkmcp.CallToolResult, MoveProjectResult, error) {
	status, err := project.ParseStatus(input.Status)
	if err != nil {
		return nil, MoveProjectResult{}, toolError(err)
	}

	var moved bool
	if err := s.loop.Do(ctx, func() { moved = s.store.MoveProject(input.ID, status) }); err != nil {
		return nil, MoveProjectResult{}, toolError(err)
	}
	return nil, MoveProjectResult{Moved: moved}, nil
}

func (s *Server) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, input ListProjectsInput) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	var status project.Status
	if input.Status != "" {
		parsed, err := project.ParseStatus(input.Status)
		if err != nil {
			return nil, ListProjectsResult{}, toolError(err)
		}
		status = parsed
	}

	projects, err := s.snapshot(ctx, status)
	if err != nil {
		return nil, ListProjectsResult{}, toolError(err)
	}
	return nil, ListProjectsResult{Projects: projects}, nil
}

func (s *Server) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, input RecentActivityInput) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
	if s.activity == nil {
		return nil, RecentActivityResult{Entries: []ActivityItem{}}, nil
	}

	limit := input.Limit
	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}

	entries, err := s.activity.Recent(ctx, activity.ListActivityOptions{Limit: limit})
	if err != nil {
		return nil, RecentActivityResult{}, toolError(err)
	}
	items := make([]ActivityItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ActivityItem{
			ID:        e.ID,
			ProjectID: e.ProjectID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
			Seq:       e.Seq,
		})
	}
	return nil, RecentActivityResult{Entries: items}, nil
}
