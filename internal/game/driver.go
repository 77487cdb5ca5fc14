package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handplay/internal/clock"
)

// SuccessCooldown is how long a driver ignores input after a target is hit.
const SuccessCooldown = 2000 * time.Millisecond

// ProgressTimeout bounds one progress write so a slow database cannot stall
// frame handling.
const ProgressTimeout = 2 * time.Second

// Options carries the collaborators shared by every game.
type Options struct {
	Clock    clock.Clock
	Sink     Sink
	Progress ProgressLogger
	// Cooldown overrides SuccessCooldown when positive.
	Cooldown time.Duration
	// ProgressTimeout overrides ProgressTimeout when positive.
	ProgressTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Cooldown <= 0 {
		o.Cooldown = SuccessCooldown
	}
	if o.ProgressTimeout <= 0 {
		o.ProgressTimeout = ProgressTimeout
	}
	return o
}

// DriverState is a snapshot of a driver's progress.
type DriverState[T comparable] struct {
	Module    string `json:"module"`
	Target    T      `json:"target"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Completed []T    `json:"completed"`
	Attempts  int    `json:"attempts"`
	Cooling   bool   `json:"cooling"`
	Done      bool   `json:"done"`
}

// Driver debounces a stream of per-frame detections against an ordered list
// of targets. The zero value of T means nothing was detected.
//
// A matching detection completes the current target and starts a cooldown
// during which all input is ignored. When the cooldown ends the next target
// is presented, or the module completes after the last one.
type Driver[T comparable] struct {
	module   string
	targets  []T
	activity func(T) string
	opts     Options

	mu        sync.Mutex
	index     int
	completed []T
	attempts  int
	cooling   bool
	done      bool
	closed    bool
	last      T
	timer     clock.Timer
}

// NewDriver creates a driver over targets. activity names a target in the
// progress log.
func NewDriver[T comparable](module string, targets []T, activity func(T) string, opts Options) *Driver[T] {
	if activity == nil {
		activity = func(t T) string { return fmt.Sprint(t) }
	}
	return &Driver[T]{
		module:   module,
		targets:  append([]T(nil), targets...),
		activity: activity,
		opts:     opts.withDefaults(),
		done:     len(targets) == 0,
	}
}

// Module returns the module name used in events and progress entries.
func (d *Driver[T]) Module() string {
	return d.module
}

// Present announces the current target. Callers use it once at module start.
func (d *Driver[T]) Present() {
	d.mu.Lock()
	if d.closed || d.done {
		d.mu.Unlock()
		return
	}
	ev := d.event(EventTargetPresented)
	ev.Target = fmt.Sprint(d.targets[d.index])
	d.mu.Unlock()

	d.emit(ev)
}

// Observe feeds one frame's detection into the driver.
func (d *Driver[T]) Observe(detected T) {
	var zero T

	d.mu.Lock()
	if d.closed || d.done {
		d.mu.Unlock()
		return
	}

	var events []Event
	if detected != d.last {
		d.last = detected
		ev := d.event(EventGestureDetected)
		ev.Label = fmt.Sprint(detected)
		events = append(events, ev)
	}

	var progress *Progress
	if !d.cooling && detected != zero {
		target := d.targets[d.index]
		if detected == target {
			attempts := d.attempts + 1
			d.completed = append(d.completed, target)
			d.cooling = true
			d.timer = d.opts.Clock.AfterFunc(d.opts.Cooldown, d.advance)

			ev := d.event(EventTargetAchieved)
			ev.Target = fmt.Sprint(target)
			ev.Attempts = attempts
			events = append(events, ev)

			progress = &Progress{
				Module:   d.module,
				Activity: d.activity(target),
				Success:  true,
				Attempts: attempts,
			}
		} else {
			d.attempts++
		}
	}
	d.mu.Unlock()

	for _, ev := range events {
		d.emit(ev)
	}
	if progress != nil {
		d.logProgress(*progress)
	}
}

// advance runs when the success cooldown ends.
func (d *Driver[T]) advance() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	d.cooling = false
	d.timer = nil
	d.attempts = 0
	d.index++

	var ev Event
	if d.index >= len(d.targets) {
		d.index = len(d.targets)
		d.done = true
		ev = d.event(EventModuleComplete)
	} else {
		ev = d.event(EventTargetPresented)
		ev.Target = fmt.Sprint(d.targets[d.index])
	}
	d.mu.Unlock()

	d.emit(ev)
}

// State returns a snapshot of the driver.
func (d *Driver[T]) State() DriverState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := DriverState[T]{
		Module:    d.module,
		Index:     d.index,
		Total:     len(d.targets),
		Completed: append([]T(nil), d.completed...),
		Attempts:  d.attempts,
		Cooling:   d.cooling,
		Done:      d.done,
	}
	if !d.done {
		s.Target = d.targets[d.index]
	}
	return s
}

// Close cancels any pending cooldown. Later input and timer callbacks are ignored.
func (d *Driver[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// event builds an event stamped with the driver's clock. Caller holds mu.
func (d *Driver[T]) event(kind EventKind) Event {
	return Event{Kind: kind, Module: d.module, At: d.opts.Clock.Now()}
}

func (d *Driver[T]) emit(ev Event) {
	if d.opts.Sink != nil {
		d.opts.Sink.Emit(ev)
	}
}

func (d *Driver[T]) logProgress(p Progress) {
	logProgress(d.opts.Progress, d.opts.ProgressTimeout, p)
}

// logProgress writes p within timeout. Failures are logged, never returned.
func logProgress(logger ProgressLogger, timeout time.Duration, p Progress) {
	if logger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := logger.LogProgress(ctx, p); err != nil {
		log.Printf("Failed to log progress for %s/%s: %v", p.Module, p.Activity, err)
	}
}
