package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganot/projectboard/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const listURIPrefix = "board://projects/"

func listURI(status project.Status) string {
	return listURIPrefix + string(status)
}

func statusForURI(uri string) (project.Status, bool) {
	for _, status := range []project.Status{project.StatusActive, project.StatusFinished} {
		if uri == listURI(status) {
			return status, true
		}
	}
	return "", false
}

// ProjectListPayload is the body of a list resource.
type ProjectListPayload struct {
	Status   project.Status    `json:"status"`
	Projects []project.Project `json:"projects"`
}

func (s *Server) registerListResources() {
	for _, status := range []project.Status{project.StatusActive, project.StatusFinished} {
		status := status
		s.mcpServer.AddResource(&sdkmcp.Resource{
			URI:         listURI(status),
			Name:        string(status) + "_projects",
			Title:       string(status) + " projects",
			Description: fmt.Sprintf("Projects with status %s, in board order.", status),
			MIMEType:    "application/json",
		}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			projects, err := s.snapshot(ctx, status)
			if err != nil {
				return nil, toolError(err)
			}
			data, err := json.Marshal(ProjectListPayload{Status: status, Projects: projects})
			if err != nil {
				return nil, fmt.Errorf("encode %s projects: %w", status, err)
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      listURI(status),
					MIMEType: "application/json",
					Text:     string(data),
				}},
			}, nil
		})
	}
}

// snapshot reads the store on the loop. An empty status returns everything.
func (s *Server) snapshot(ctx context.Context, status project.Status) ([]project.Project, error) {
	var projects []project.Project
	if err := s.loop.Do(ctx, func() { projects = s.store.Projects() }); err != nil {
		return nil, err
	}
	if status != "" {
		projects = project.FilterByStatus(projects, status)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}
