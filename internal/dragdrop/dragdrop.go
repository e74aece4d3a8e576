// Package dragdrop models HTML5 drag-and-drop events and the capabilities
// regions implement to take part in them.
package dragdrop

// MIMEPlainText is the only payload type drop targets accept.
const MIMEPlainText = "text/plain"

// DataTransfer carries the dragged payload.
type DataTransfer struct {
	// Types lists the declared payload types in the order they were set.
	Types         []string          `json:"types"`
	Data          map[string]string `json:"data,omitempty"`
	EffectAllowed string            `json:"effect_allowed,omitempty"`
	DropEffect    string            `json:"drop_effect,omitempty"`
}

// SetData stores value under format and declares the type.
func (d *DataTransfer) SetData(format, value string) {
	if d.Data == nil {
		d.Data = make(map[string]string)
	}
	if _, ok := d.Data[format]; !ok {
		d.Types = append(d.Types, format)
	}
	d.Data[format] = value
}

// GetData returns the value stored under format, or "".
func (d *DataTransfer) GetData(format string) string {
	if d == nil {
		return ""
	}
	return d.Data[format]
}

// DragEvent is one drag-related event delivered to a region.
type DragEvent struct {
	DataTransfer     *DataTransfer
	defaultPrevented bool
}

// NewDragEvent wraps a data transfer in an event.
func NewDragEvent(dt *DataTransfer) *DragEvent {
	return &DragEvent{DataTransfer: dt}
}

// PreventDefault marks the event as handled by the region. For dragover this
// is how a region signals it accepts the drop.
func (e *DragEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *DragEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// AcceptsPlainText reports whether the first declared payload type is plain
// text. Later slots are ignored.
func (e *DragEvent) AcceptsPlainText() bool {
	if e == nil || e.DataTransfer == nil || len(e.DataTransfer.Types) == 0 {
		return false
	}
	return e.DataTransfer.Types[0] == MIMEPlainText
}

// DragTarget is implemented by regions that accept drops.
type DragTarget interface {
	OnDragOver(ev *DragEvent)
	OnDrop(ev *DragEvent)
	OnDragLeave(ev *DragEvent)
}

// Draggable is implemented by items that can be dragged.
type Draggable interface {
	OnDragStart(ev *DragEvent)
	OnDragEnd(ev *DragEvent)
}
