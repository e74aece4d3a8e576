package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/projectboard/internal/domain/project"
)

// Service records board changes and serves them back.
type Service struct {
	repo      Repository
	logger    *slog.Logger
	observers []Observer
	now       func() time.Time

	// Diff state, touched only from store notifications.
	previous map[string]project.Status
	seq      int64
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger, observers ...Observer) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:      repo,
		logger:    logger,
		observers: observers,
		now:       time.Now,
		previous:  make(map[string]project.Status),
	}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ProjectID == "" || !entry.ActivityType.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.publish(ctx, entry)
	return nil
}

func (s *Service) publish(ctx context.Context, entry *ActivityEntry) {
	if len(s.observers) == 0 {
		return
	}
	event, err := entry.CloudEvent()
	if err != nil {
		s.logger.Warn("activity event conversion failed", "entry_id", entry.ID, "error", err)
		return
	}
	for _, o := range s.observers {
		if err := o.OnEvent(ctx, event); err != nil {
			s.logger.Warn("activity observer failed", "observer", o.ObserverID(), "error", err)
		}
	}
}

// Recent lists entries newest first.
func (s *Service) Recent(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, opts)
}

// Observe is a store listener. It diffs projects against the previous
// notification and logs one entry per added or moved project. Failures are
// logged and never reach the store.
func (s *Service) Observe(projects []project.Project) {
	s.seq++
	ctx := context.Background()
	for _, p := range projects {
		entry, ok := s.diff(p)
		if !ok {
			continue
		}
		if err := s.LogActivity(ctx, entry); err != nil {
			s.logger.Error("record activity", "project_id", p.ID, "type", entry.ActivityType, "error", err)
		}
	}
}

func (s *Service) diff(p project.Project) (*ActivityEntry, bool) {
	prev, seen := s.previous[p.ID]
	s.previous[p.ID] = p.Status

	var (
		typ     ActivityType
		summary string
		details any
	)
	switch {
	case !seen:
		typ = TypeProjectAdded
		summary = fmt.Sprintf("Added %q (%s)", p.Title, p.PeopleLabel())
		details = AddedDetails{Title: p.Title, Description: p.Description, People: p.People, Status: p.Status}
	case prev != p.Status:
		typ = TypeProjectMoved
		summary = fmt.Sprintf("Moved %q from %s to %s", p.Title, prev, p.Status)
		details = MovedDetails{From: prev, To: p.Status}
	default:
		return nil, false
	}

	raw, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("encode activity details", "project_id", p.ID, "error", err)
		raw = nil
	}
	return &ActivityEntry{
		ProjectID:    p.ID,
		ActivityType: typ,
		Summary:      summary,
		Details:      string(raw),
		Seq:          s.seq,
	}, true
}
