package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/dragdrop"
	"github.com/ganot/projectboard/internal/eventloop"
	"github.com/ganot/projectboard/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
	maxBodyBytes         = 64 << 10
)

// Options configures the HTTP server.
type Options struct {
	Loop    *eventloop.Loop
	Board   *ui.Board
	Journal *activity.Service
	Assets  fs.FS
	// MCP, when set, is mounted at /mcp behind the same auth guard.
	MCP       http.Handler
	AuthToken string
	Logger    *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	loop    *eventloop.Loop
	board   *ui.Board
	journal *activity.Service
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		loop:    opts.Loop,
		board:   opts.Board,
		journal: opts.Journal,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.AuthToken))

		r.Get("/", srv.handlePage)
		r.Get("/board", srv.handleFragment)
		r.Post("/projects", srv.handleAddProject)
		r.Post("/lists/{status}/{event}", srv.handleListEvent)
		r.Get("/api/projects", srv.handleListProjects)
		r.Get("/api/activity", srv.handleActivity)

		if opts.Assets != nil {
			r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(opts.Assets))))
		}
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

// RequestLogger logs one line per request at debug level.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// do runs fn on the event loop and reports loop failures on w.
func (s *Server) do(ctx context.Context, w http.ResponseWriter, fn func()) bool {
	err := s.loop.Do(ctx, fn)
	if err == nil {
		return true
	}

	var panicErr *eventloop.PanicError
	switch {
	case errors.As(err, &panicErr):
		WriteError(w, http.StatusInternalServerError, CodeInternal, "board handler failed", nil)
	case errors.Is(err, eventloop.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
	}
	return false
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var page string
	if !s.do(r.Context(), w, func() { page = s.board.Render() }) {
		return
	}
	writeHTML(w, page)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	var (
		frag string
		err  error
	)
	if !s.do(r.Context(), w, func() { frag, err = s.board.Fragment() }) {
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
		return
	}
	writeHTML(w, frag)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "invalid form body", nil)
		return
	}

	in := project.Input{
		Title:       r.PostForm.Get(project.FieldTitle),
		Description: r.PostForm.Get(project.FieldDescription),
	}
	// A non-numeric count fails the registry's required rule.
	if people, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(project.FieldPeople))); err == nil {
		in.People = people
	}

	var (
		proj project.Project
		err  error
	)
	if !s.do(r.Context(), w, func() { proj, err = s.board.Input().Submit(in) }) {
		return
	}
	if err != nil {
		if errors.Is(err, project.ErrInvalidInput) {
			WriteError(w, http.StatusUnprocessableEntity, CodeInvalidInput, "invalid project input", project.FieldErrors(err))
			return
		}
		WriteError(w, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusCreated, proj)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type dragResponse struct {
	Accepted  bool `json:"accepted"`
	Droppable bool `json:"droppable"`
}

func (s *Server) handleListEvent(w http.ResponseWriter, r *http.Request) {
	status, err := project.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		WriteError(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)
		return
	}
	typ, err := dragdrop.ParseEventType(chi.URLParam(r, "event"))
	if err != nil || typ == dragdrop.EventDragStart || typ == dragdrop.EventDragEnd {
		WriteError(w, http.StatusNotFound, CodeNotFound, "lists handle dragover, drop and dragleave", nil)
		return
	}

	var dt dragdrop.DataTransfer
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&dt); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidInput, "invalid drag payload", nil)
		return
	}
	ev := dragdrop.NewDragEvent(&dt)

	var (
		resp     dragResponse
		frag     string
		fragErr  error
		dispatch error
	)
	ok := s.do(r.Context(), w, func() {
		list, err := s.board.DispatchToList(status, typ, ev)
		if err != nil {
			dispatch = err
			return
		}
		resp = dragResponse{Accepted: ev.DefaultPrevented(), Droppable: list.Droppable()}
		if typ == dragdrop.EventDrop {
			frag, fragErr = s.board.Fragment()
		}
	})
	if !ok {
		return
	}
	switch {
	case dispatch != nil:
		WriteError(w, http.StatusNotFound, CodeNotFound, dispatch.Error(), nil)
	case fragErr != nil:
		WriteError(w, http.StatusInternalServerError, CodeInternal, fragErr.Error(), nil)
	case typ == dragdrop.EventDrop:
		writeHTML(w, frag)
	default:
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var filter project.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := project.ParseStatus(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, CodeInvalidInput, err.Error(), nil)
			return
		}
		filter = status
	}

	var projects []project.Project
	if !s.do(r.Context(), w, func() { projects = s.board.Store().Projects() }) {
		return
	}
	if filter != "" {
		projects = project.FilterByStatus(projects, filter)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	WriteJSON(w, http.StatusOK, projects)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		WriteError(w, http.StatusNotFound, CodeNotFound, "activity journal disabled", nil)
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxActivityLimit {
			WriteError(w, http.StatusBadRequest, CodeInvalidInput, "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}

	entries, err := s.journal.Recent(r.Context(), activity.ListActivityOptions{Limit: limit})
	if err != nil {
		s.logger.Error("list activity", "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "list activity failed", nil)
		return
	}

	events := make([]cloudevents.Event, 0, len(entries))
	for _, entry := range entries {
		event, err := entry.CloudEvent()
		if err != nil {
			s.logger.Warn("skip activity entry", "entry_id", entry.ID, "error", err)
			continue
		}
		events = append(events, event)
	}
	WriteJSON(w, http.StatusOK, events)
}
