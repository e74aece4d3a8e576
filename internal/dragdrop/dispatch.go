package dragdrop

import "fmt"

// EventType names a drag event as browsers do.
type EventType string

const (
	EventDragStart EventType = "dragstart"
	EventDragEnd   EventType = "dragend"
	EventDragOver  EventType = "dragover"
	EventDrop      EventType = "drop"
	EventDragLeave EventType = "dragleave"
)

// ParseEventType converts a wire value into an EventType.
func ParseEventType(v string) (EventType, error) {
	switch t := EventType(v); t {
	case EventDragStart, EventDragEnd, EventDragOver, EventDrop, EventDragLeave:
		return t, nil
	}
	return "", fmt.Errorf("unknown drag event %q", v)
}

// Handler handles one drag event.
type Handler func(ev *DragEvent)

// EventTarget keeps handlers per event type, like a DOM node does.
type EventTarget struct {
	handlers map[EventType][]Handler
}

// AddEventListener registers h for typ. Handlers run in registration order.
func (t *EventTarget) AddEventListener(typ EventType, h Handler) {
	if t.handlers == nil {
		t.handlers = make(map[EventType][]Handler)
	}
	t.handlers[typ] = append(t.handlers[typ], h)
}

// DispatchEvent runs the handlers for typ and reports whether any ran.
func (t *EventTarget) DispatchEvent(typ EventType, ev *DragEvent) bool {
	hs := t.handlers[typ]
	for _, h := range hs {
		h(ev)
	}
	return len(hs) > 0
}

// ListenTarget wires the three DragTarget methods onto t.
func ListenTarget(t *EventTarget, target DragTarget) {
	t.AddEventListener(EventDragOver, target.OnDragOver)
	t.AddEventListener(EventDrop, target.OnDrop)
	t.AddEventListener(EventDragLeave, target.OnDragLeave)
}

// ListenDraggable wires the Draggable methods onto t.
func ListenDraggable(t *EventTarget, item Draggable) {
	t.AddEventListener(EventDragStart, item.OnDragStart)
	t.AddEventListener(EventDragEnd, item.OnDragEnd)
}
