package activity

import (
	"encoding/json"
	"fmt"
	"strconv"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

const (
	EventSource       = "/projectboard/board"
	EventProjectAdded = "com.projectboard.project.added"
	EventProjectMoved = "com.projectboard.project.moved"
)

// eventNamespace scopes the name-based event ids to this event source.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:projectboard"+EventSource))

// EventID returns the CloudEvent id of the journal row with the given id.
// The same row always yields the same id.
func EventID(entryID int64) string {
	return uuid.NewSHA1(eventNamespace, []byte(strconv.FormatInt(entryID, 10))).String()
}

// EventType maps an activity type to its CloudEvent type.
func EventType(t ActivityType) string {
	switch t {
	case TypeProjectAdded:
		return EventProjectAdded
	case TypeProjectMoved:
		return EventProjectMoved
	}
	return "com.projectboard." + string(t)
}

// CloudEvent converts the entry into a CloudEvent. The project id is the
// subject and the entry details, when present, are the data.
func (e ActivityEntry) CloudEvent() (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(EventID(e.ID))
	event.SetSource(EventSource)
	event.SetType(EventType(e.ActivityType))
	event.SetSubject(e.ProjectID)
	event.SetTime(e.CreatedAt)
	// Extension integers are 32-bit; the counter is int64.
	event.SetExtension("seq", strconv.FormatInt(e.Seq, 10))

	data := map[string]any{"summary": e.Summary}
	if e.Details != "" {
		var details map[string]any
		if err := json.Unmarshal([]byte(e.Details), &details); err != nil {
			return cloudevents.Event{}, fmt.Errorf("decode details for entry %d: %w", e.ID, err)
		}
		data["details"] = details
	}
	if err := event.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return cloudevents.Event{}, fmt.Errorf("set event data: %w", err)
	}
	return event, nil
}
