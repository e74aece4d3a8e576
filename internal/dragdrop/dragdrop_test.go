package dragdrop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataTransfer_SetData(t *testing.T) {
	dt := &DataTransfer{}
	dt.SetData(MIMEPlainText, "p1")
	dt.SetData("text/uri-list", "https://example.com")
	dt.SetData(MIMEPlainText, "p2")

	require.Equal(t, []string{MIMEPlainText, "text/uri-list"}, dt.Types)
	require.Equal(t, "p2", dt.GetData(MIMEPlainText))
	require.Empty(t, dt.GetData("application/json"))
}

func TestDragEvent_AcceptsPlainText(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  bool
	}{
		{name: "plain text first", types: []string{MIMEPlainText}, want: true},
		{name: "plain text second", types: []string{"text/html", MIMEPlainText}, want: false},
		{name: "no types", types: nil, want: false},
		{name: "files", types: []string{"Files"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewDragEvent(&DataTransfer{Types: tt.types})
			require.Equal(t, tt.want, ev.AcceptsPlainText())
		})
	}

	require.False(t, NewDragEvent(nil).AcceptsPlainText())
}

type recordingTarget struct {
	calls []EventType
}

func (r *recordingTarget) OnDragOver(*DragEvent)  { r.calls = append(r.calls, EventDragOver) }
func (r *recordingTarget) OnDrop(*DragEvent)      { r.calls = append(r.calls, EventDrop) }
func (r *recordingTarget) OnDragLeave(*DragEvent) { r.calls = append(r.calls, EventDragLeave) }

func TestEventTarget_ListenTarget(t *testing.T) {
	target := &recordingTarget{}
	var et EventTarget
	ListenTarget(&et, target)
	ev := NewDragEvent(&DataTransfer{})

	require.True(t, et.DispatchEvent(EventDragOver, ev))
	require.True(t, et.DispatchEvent(EventDrop, ev))
	require.True(t, et.DispatchEvent(EventDragLeave, ev))
	require.False(t, et.DispatchEvent(EventDragStart, ev))

	require.Equal(t, []EventType{EventDragOver, EventDrop, EventDragLeave}, target.calls)
}

func TestEventTarget_HandlerOrder(t *testing.T) {
	var et EventTarget
	var order []int
	et.AddEventListener(EventDrop, func(*DragEvent) { order = append(order, 1) })
	et.AddEventListener(EventDrop, func(*DragEvent) { order = append(order, 2) })

	require.True(t, et.DispatchEvent(EventDrop, NewDragEvent(nil)))
	require.Equal(t, []int{1, 2}, order)
}

func TestParseEventType(t *testing.T) {
	typ, err := ParseEventType("drop")
	require.NoError(t, err)
	require.Equal(t, EventDrop, typ)

	_, err = ParseEventType("click")
	require.Error(t, err)
}
