package mocks

import (
	"context"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Observer is a mock for activity.Observer.
type Observer struct {
	mock.Mock
}

func (m *Observer) OnEvent(ctx context.Context, event cloudevents.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Observer) ObserverID() string {
	args := m.Called()
	return args.String(0)
}
