// Package game implements the learning games that turn recognized gestures
// into progress: the debounced target driver and the bridge builder puzzle.
package game

import (
	"context"
	"time"
)

// EventKind identifies what happened in a game.
type EventKind string

const (
	EventGestureDetected EventKind = "gesture_detected"
	EventTargetAchieved  EventKind = "target_achieved"
	EventTargetPresented EventKind = "target_presented"
	EventModuleComplete  EventKind = "module_complete"
	EventLevelFailed     EventKind = "level_failed"
	EventLevelAdvanced   EventKind = "level_advanced"
	EventBlockPlaced     EventKind = "block_placed"
)

// Module names used in events and the progress log.
const (
	ModuleCounting      = "counting"
	ModuleSocial        = "social_skills"
	ModuleShapes        = "shapes"
	ModuleBridgeBuilder = "bridge_builder"
)

// Event is a game notification for the UI and plugins. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind      EventKind `json:"kind"`
	Module    string    `json:"module"`
	Label     string    `json:"label,omitempty"`
	Target    string    `json:"target,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	Level     int       `json:"level,omitempty"`
	TargetGap int       `json:"targetGap,omitempty"`
	Remaining int       `json:"remaining,omitempty"`
	At        time.Time `json:"at"`
}

// Sink receives game events. Implementations must not call back into the
// game that emitted the event.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Sinks fans an event out to several sinks in order.
type Sinks []Sink

// Emit delivers e to every non-nil sink.
func (s Sinks) Emit(e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Emit(e)
		}
	}
}

// Progress is one entry of the append-only learning progress log.
type Progress struct {
	Module   string `json:"module"`
	Activity string `json:"activity"`
	Success  bool   `json:"success"`
	Attempts int    `json:"attempts"`
}

// ProgressLogger persists progress entries.
type ProgressLogger interface {
	LogProgress(ctx context.Context, p Progress) error
}

// ProgressFunc adapts a function to a ProgressLogger.
type ProgressFunc func(ctx context.Context, p Progress) error

// LogProgress calls f(ctx, p).
func (f ProgressFunc) LogProgress(ctx context.Context, p Progress) error { return f(ctx, p) }
