package game

import "github.com/phanxgames/quadfold/quadtree"

// EventType identifies what happened in a session.
type EventType uint8

const (
	EventStarted EventType = iota
	EventShapeSpawned
	EventRoundWon
	EventRoundLost
	EventPaused
	EventResumed
)

var eventNames = [...]string{
	EventStarted:      "started",
	EventShapeSpawned: "shape_spawned",
	EventRoundWon:     "round_won",
	EventRoundLost:    "round_lost",
	EventPaused:       "paused",
	EventResumed:      "resumed",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event describes a session transition. Fields that do not apply to the
// event type are zero.
type Event struct {
	Type       EventType
	Tick       uint64
	Seed       uint64
	Difficulty int
	Score      int

	// Shape is the key of the spawned, won or lost target.
	Shape quadtree.Key
	// Points is the value of a won round.
	Points int
	// Flip and Unflip count the target tiles the player got wrong in a lost
	// round, by the flip bit the target wanted.
	Flip   int
	Unflip int
}

// Misses returns the number of mismatched tiles of a lost round.
func (e Event) Misses() int {
	return e.Flip + e.Unflip
}

// EventSink receives session events synchronously from the tick that raised
// them.
type EventSink interface {
	Emit(e Event)
}

// EventFunc adapts a function to EventSink.
type EventFunc func(e Event)

// Emit calls f(e).
func (f EventFunc) Emit(e Event) { f(e) }

// EventLog is an EventSink that records every event.
type EventLog struct {
	Events []Event
}

// Emit appends e.
func (l *EventLog) Emit(e Event) {
	l.Events = append(l.Events, e)
}

// Types returns the recorded event types in order.
func (l *EventLog) Types() []EventType {
	out := make([]EventType, len(l.Events))
	for i, e := range l.Events {
		out[i] = e.Type
	}
	return out
}
