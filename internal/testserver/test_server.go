// Package testserver starts the complete board stack behind an httptest
// server for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/eventloop"
	"github.com/ganot/projectboard/internal/mcp"
	"github.com/ganot/projectboard/internal/sqlite"
	"github.com/ganot/projectboard/internal/state"
	"github.com/ganot/projectboard/internal/transport"
	"github.com/ganot/projectboard/internal/ui"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Store   *state.ProjectState
	Board   *ui.Board
	Journal *activity.Service
	Loop    *eventloop.Loop
	Token   string
}

// New wires store, board, journal, MCP and HTTP the way the server command
// does. Project ids are p1, p2, ... in creation order.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)

	n := 0
	store := state.New(state.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}))
	registry := project.DefaultRegistry()

	board, err := ui.NewBoard(store, registry)
	require.NoError(t, err)
	journal := activity.NewService(sqlite.NewActivityRepository(db), nil)
	store.AddListener(journal.Observe)

	loop := eventloop.New(16, nil)
	mcpServer := mcp.NewServer(mcp.Config{
		Loop:     loop,
		Store:    store,
		Registry: registry,
		Activity: journal,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Loop:      loop,
		Board:     board,
		Journal:   journal,
		Assets:    ui.Assets(),
		MCP:       mcpServer.HTTPHandler(),
		AuthToken: token,
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-loop.Stopped()
		_ = db.Close()
	})

	return &TestServer{
		Server:  server,
		DB:      db,
		Store:   store,
		Board:   board,
		Journal: journal,
		Loop:    loop,
		Token:   token,
	}
}

// Client returns an HTTP client that sends the bearer token.
func (ts *TestServer) Client() *http.Client {
	return &http.Client{Transport: &bearerTransport{token: ts.Token, base: http.DefaultTransport}}
}

// Projects reads the store on the loop.
func (ts *TestServer) Projects(t *testing.T) []project.Project {
	t.Helper()
	var projects []project.Project
	require.NoError(t, ts.Loop.Do(context.Background(), func() { projects = ts.Store.Projects() }))
	return projects
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token == "" {
		return b.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
