package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `projectboard keeps a board of projects split into two lists: active and finished.

- A project has a title, a description and a head count of 1 to 5 people.
- New projects always start active. Moving a project only changes its status; its place in the board order stays.
- Moving a project to the status it already has, or moving an unknown id, changes nothing.

Tools: add_project, move_project, list_projects, recent_activity.
Resources: board://projects/active and board://projects/finished (subscribe to be told when they change), board://docs/usage.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "board://docs/usage",
		Name:        "docs_usage",
		Title:       "projectboard usage",
		Description: "How to add, move and watch projects on the board.",
		Content: `# projectboard

## Adding projects

Call ` + "`add_project`" + ` with a title, a description of at least 5 characters and
a head count between 1 and 5. Every failed rule is reported at once, for example:

    title: required failed
    people: max=5 failed

## Moving projects

` + "`move_project`" + ` takes a project id and a target status (` + "`active`" + ` or
` + "`finished`" + `). The result's ` + "`moved`" + ` flag is false when nothing changed:
the id is unknown or the project already has that status.

## Watching the board

Subscribe to ` + "`board://projects/active`" + ` and ` + "`board://projects/finished`" + `.
Both are reported as updated after every change to the board; read them again
to get the new lists. ` + "`recent_activity`" + ` lists what changed, newest first.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
