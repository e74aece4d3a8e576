package activity_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    "proj1",
		ActivityType: activity.TypeProjectAdded,
		Summary:      "added",
		Seq:          1,
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{ProjectID: "proj1"}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.Recent(ctx, activity.ListActivityOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)

	require.ErrorIs(t, svc.LogActivity(ctx, nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(ctx, &activity.ActivityEntry{ActivityType: activity.TypeProjectAdded}), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(ctx, &activity.ActivityEntry{ProjectID: "p1", ActivityType: "deleted"}), activity.ErrInvalidInput)

	_, err := svc.Recent(ctx, activity.ListActivityOptions{Limit: -1})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
	bogus := activity.ActivityType("deleted")
	_, err = svc.Recent(ctx, activity.ListActivityOptions{ActivityType: &bogus})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_ObserveDiffsSnapshots(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	var logged []activity.ActivityEntry
	repo.On("Log", mock.Anything, mock.AnythingOfType("*activity.ActivityEntry")).
		Run(func(args mock.Arguments) {
			logged = append(logged, *args.Get(1).(*activity.ActivityEntry))
		}).
		Return(nil)

	svc := activity.NewService(repo, nil)

	a := project.Project{ID: "p1", Title: "Title A", Description: "Desc", People: 3, Status: project.StatusActive}
	b := project.Project{ID: "p2", Title: "Title B", Description: "Desc", People: 1, Status: project.StatusActive}

	svc.Observe([]project.Project{a})
	svc.Observe([]project.Project{a, b})
	a.Status = project.StatusFinished
	svc.Observe([]project.Project{a, b})

	require.Len(t, logged, 3)
	require.Equal(t, activity.TypeProjectAdded, logged[0].ActivityType)
	require.Equal(t, "p1", logged[0].ProjectID)
	require.Equal(t, int64(1), logged[0].Seq)

	require.Equal(t, activity.TypeProjectAdded, logged[1].ActivityType)
	require.Equal(t, "p2", logged[1].ProjectID)
	require.Equal(t, `Added "Title B" (1 person assigned)`, logged[1].Summary)

	moved := logged[2]
	require.Equal(t, activity.TypeProjectMoved, moved.ActivityType)
	require.Equal(t, int64(3), moved.Seq)
	require.Equal(t, `Moved "Title A" from active to finished`, moved.Summary)

	var details activity.MovedDetails
	require.NoError(t, json.Unmarshal([]byte(moved.Details), &details))
	require.Equal(t, activity.MovedDetails{From: project.StatusActive, To: project.StatusFinished}, details)
}

func TestActivityService_ObserveSurvivesRepositoryErrors(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	require.NotPanics(t, func() {
		svc.Observe([]project.Project{{ID: "p1", Title: "A", People: 1, Status: project.StatusActive}})
	})
	repo.AssertNumberOfCalls(t, "Log", 1)
}

func TestActivityService_PublishesCloudEvents(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.Anything).Return(nil)

	var got []cloudevents.Event
	observer := &mocks.Observer{}
	observer.On("ObserverID").Return("test-observer").Maybe()
	observer.On("OnEvent", mock.Anything, mock.AnythingOfType("event.Event")).
		Run(func(args mock.Arguments) {
			got = append(got, args.Get(1).(cloudevents.Event))
		}).
		Return(nil)

	svc := activity.NewService(repo, nil, observer)
	svc.Observe([]project.Project{{ID: "p1", Title: "A", People: 2, Status: project.StatusActive}})

	require.Len(t, got, 1)
	require.Equal(t, activity.EventProjectAdded, got[0].Type())
	require.Equal(t, activity.EventSource, got[0].Source())
	require.Equal(t, "p1", got[0].Subject())
}

func TestActivityEntry_CloudEvent(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := activity.ActivityEntry{
		ID:           7,
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectMoved,
		Summary:      "moved",
		Details:      `{"from":"active","to":"finished"}`,
		CreatedAt:    created,
		Seq:          4,
	}

	event, err := entry.CloudEvent()
	require.NoError(t, err)
	require.NoError(t, event.Validate())
	require.Equal(t, activity.EventProjectMoved, event.Type())
	require.Equal(t, activity.EventSource, event.Source())
	require.Equal(t, created, event.Time())
	require.Equal(t, cloudevents.ApplicationJSON, event.DataContentType())
	require.Equal(t, "4", event.Extensions()["seq"])

	var data struct {
		Summary string            `json:"summary"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, event.DataAs(&data))
	require.Equal(t, "moved", data.Summary)
	require.Equal(t, "finished", data.Details["to"])

	again, err := entry.CloudEvent()
	require.NoError(t, err)
	require.Equal(t, event.ID(), again.ID())
	require.Equal(t, activity.EventID(7), event.ID())

	entry.ID = 8
	other, err := entry.CloudEvent()
	require.NoError(t, err)
	require.NotEqual(t, event.ID(), other.ID())

	entry.Seq = 1 << 40
	large, err := entry.CloudEvent()
	require.NoError(t, err)
	require.Equal(t, "1099511627776", large.Extensions()["seq"])

	entry.Details = "{not json"
	_, err = entry.CloudEvent()
	require.Error(t, err)
}
