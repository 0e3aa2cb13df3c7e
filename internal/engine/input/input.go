// Package input defines toolkit-neutral pointer events consumed by the
// viewer. A windowing layer translates its native events into these and
// queues them for the interactive loop.
package input

import "github.com/go-gl/mathgl/mgl64"

// EventType identifies the kind of pointer event.
type EventType int

const (
	EventNone EventType = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventWheel
	EventResize
)

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Mod is a keyboard modifier bitmask held during a pointer event.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
)

// Has reports whether every bit of m2 is set in m.
func (m Mod) Has(m2 Mod) bool {
	return m&m2 == m2 && m2 != 0
}

// Additive reports whether the modifiers request additive selection.
func (m Mod) Additive() bool {
	return m.Has(ModShift) || m.Has(ModCtrl)
}

// Event represents a processed input event. Pos is in viewport pixels with
// the origin at the top-left corner.
type Event struct {
	Type   EventType
	Pos    mgl64.Vec2
	Button Button
	Mods   Mod
	Delta  int // Wheel ticks, positive away from the user
	Width  int
	Height int
}

// Queue buffers events between frames of the interactive loop.
type Queue struct {
	events []Event
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the queued events and empties the queue. The returned slice
// is only valid until the next Push.
func (q *Queue) Drain() []Event {
	events := q.events
	q.events = q.events[:0]
	return events
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Click returns the down/up pair for a stationary click at pos.
func Click(pos mgl64.Vec2, button Button, mods Mod) []Event {
	return []Event{
		{Type: EventPointerDown, Pos: pos, Button: button, Mods: mods},
		{Type: EventPointerUp, Pos: pos, Button: button, Mods: mods},
	}
}
