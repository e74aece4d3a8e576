package repository

import (
	"context"

	"github.com/ganot/projectboard/internal/domain/activity"
)

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

var _ activity.Repository = ActivityRepository(nil)
