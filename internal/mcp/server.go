package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/eventloop"
	"github.com/ganot/projectboard/internal/state"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "projectboard"
	serverVersion = "0.1.0"

	notifyTimeout = 5 * time.Second
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Config contains server configuration.
type Config struct {
	Loop     *eventloop.Loop
	Store    *state.ProjectState
	Registry *project.Registry
	// Activity is optional; recent_activity reports an empty list without it.
	Activity ActivityService
	Logger   *slog.Logger
}

// Server exposes the board over MCP.
type Server struct {
	mcpServer *sdkmcp.Server
	loop      *eventloop.Loop
	store     *state.ProjectState
	registry  *project.Registry
	activity  ActivityService
	logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// resources, and subscribes it to store changes. Call it before the loop
// starts running, or from a loop task.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := cfg.Registry
	if registry == nil {
		registry = project.DefaultRegistry()
	}

	mcpServer := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &sdkmcp.ServerOptions{
		Instructions:       serverInstructions,
		Logger:             logger,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	s := &Server{
		mcpServer: mcpServer,
		loop:      cfg.Loop,
		store:     cfg.Store,
		registry:  registry,
		activity:  cfg.Activity,
		logger:    logger,
	}

	registerDocResources(mcpServer)
	s.registerListResources()
	s.registerTools()

	mcpServer.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	mcpServer.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	s.store.AddListener(s.onProjects)

	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *sdkmcp.Server {
	return s.mcpServer
}

// HTTPHandler serves the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcpServer
	}, nil)
}

// ServeStdio serves a single client over stdin/stdout until ctx ends or the
// client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, &sdkmcp.StdioTransport{})
}

// Serve runs the server over transport.
func (s *Server) Serve(ctx context.Context, transport sdkmcp.Transport) error {
	if err := s.mcpServer.Run(ctx, transport); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}

// onProjects runs on the event loop. Notifications go out on their own
// goroutine so the loop never waits on a client.
func (s *Server) onProjects([]project.Project) {
	go s.notifyListsChanged()
}

func (s *Server) notifyListsChanged() {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	for _, status := range []project.Status{project.StatusActive, project.StatusFinished} {
		uri := listURI(status)
		if err := s.mcpServer.ResourceUpdated(ctx, &sdkmcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			s.logger.Warn("mcp resource updated notify failed", "uri", uri, "error", err)
		}
	}
}

func resourceSubscribeHandler(_ context.Context, req *sdkmcp.SubscribeRequest) error {
	if req == nil || req.Params == nil {
		return fmt.Errorf("resource uri is required")
	}
	return checkSubscribable(req.Params.URI)
}

func resourceUnsubscribeHandler(_ context.Context, req *sdkmcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil {
		return fmt.Errorf("resource uri is required")
	}
	return checkSubscribable(req.Params.URI)
}

func checkSubscribable(uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return fmt.Errorf("resource uri is required")
	}
	if _, ok := statusForURI(uri); !ok {
		return fmt.Errorf("%w: %s is not subscribable", project.ErrInvalidInput, uri)
	}
	return nil
}
