package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ayusman/handplay/internal/clock"
)

// Bridge builder parameters.
const (
	MaxLevel          = 5
	MinBlock          = 1
	MaxBlock          = 4
	BreakResetDelay   = 1000 * time.Millisecond
	LevelAdvanceDelay = 2000 * time.Millisecond
)

// ErrInvalidBlock is returned when a block value is outside MinBlock..MaxBlock.
var ErrInvalidBlock = errors.New("block value must be between 1 and 4")

// GapFunc picks the gap length for a level.
type GapFunc func(level int) int

// RandomGap returns 2 + level plus 0 or 1 at random.
func RandomGap(level int) int {
	return 2 + level + rand.IntN(2)
}

// BridgeState is a snapshot of the puzzle.
type BridgeState struct {
	Level     int   `json:"level"`
	TargetGap int   `json:"targetGap"`
	Placed    []int `json:"placed"`
	Remaining int   `json:"remaining"`
	Breaks    int   `json:"breaks"`
	Solved    bool  `json:"solved"`
	Broken    bool  `json:"broken"`
	Complete  bool  `json:"complete"`
}

// Bridge is the bridge builder puzzle: fill a gap exactly with blocks of
// length 1 to 4. Overshooting breaks the bridge, which resets itself after
// BreakResetDelay. An exact fit advances to the next level after
// LevelAdvanceDelay, up to MaxLevel.
type Bridge struct {
	gap  GapFunc
	opts Options

	mu       sync.Mutex
	level    int
	target   int
	placed   []int
	breaks   int
	solved   bool
	broken   bool
	complete bool
	closed   bool
	timer    clock.Timer
}

// NewBridge starts a puzzle at level 1. A nil gap uses RandomGap.
func NewBridge(opts Options, gap GapFunc) *Bridge {
	if gap == nil {
		gap = RandomGap
	}
	b := &Bridge{gap: gap, opts: opts.withDefaults(), level: 1}
	b.target = gap(1)
	return b
}

// Place adds a block. Placements while the bridge is broken, solved or
// finished are ignored and return the unchanged state.
func (b *Bridge) Place(value int) (BridgeState, error) {
	if value < MinBlock || value > MaxBlock {
		return b.State(), fmt.Errorf("place %d: %w", value, ErrInvalidBlock)
	}

	b.mu.Lock()
	if b.closed || b.broken || b.solved || b.complete {
		s := b.stateLocked()
		b.mu.Unlock()
		return s, nil
	}

	var events []Event
	var progress []Progress

	sum := b.sum()
	switch {
	case sum+value > b.target:
		b.broken = true
		b.breaks++
		b.timer = b.opts.Clock.AfterFunc(BreakResetDelay, b.clearAfterBreak)

		ev := b.event(EventLevelFailed)
		ev.Level = b.level
		ev.TargetGap = b.target
		events = append(events, ev)

	default:
		b.placed = append(b.placed, value)

		ev := b.event(EventBlockPlaced)
		ev.Level = b.level
		ev.TargetGap = b.target
		ev.Remaining = b.target - sum - value
		events = append(events, ev)
		progress = append(progress, Progress{
			Module:   ModuleBridgeBuilder,
			Activity: "place_block",
			Success:  true,
			Attempts: 1,
		})

		if sum+value == b.target {
			b.solved = true
			b.timer = b.opts.Clock.AfterFunc(LevelAdvanceDelay, b.advance)
			progress = append(progress, Progress{
				Module:   ModuleBridgeBuilder,
				Activity: fmt.Sprintf("level_%d", b.level),
				Success:  true,
				Attempts: b.breaks + 1,
			})
		}
	}
	s := b.stateLocked()
	b.mu.Unlock()

	b.emit(events)
	for _, p := range progress {
		logProgress(b.opts.Progress, b.opts.ProgressTimeout, p)
	}
	return s, nil
}

// Reset clears the placed blocks. A solved level cannot be reset.
func (b *Bridge) Reset() BridgeState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || b.solved || b.complete {
		return b.stateLocked()
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.placed = nil
	b.broken = false
	return b.stateLocked()
}

// State returns a snapshot of the puzzle.
func (b *Bridge) State() BridgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Close cancels any pending reset or level change.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Bridge) clearAfterBreak() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || !b.broken {
		return
	}
	b.timer = nil
	b.placed = nil
	b.broken = false
}

func (b *Bridge) advance() {
	b.mu.Lock()
	if b.closed || !b.solved {
		b.mu.Unlock()
		return
	}

	b.timer = nil
	var ev Event
	if b.level >= MaxLevel {
		b.complete = true
		ev = b.event(EventModuleComplete)
	} else {
		b.level++
		b.target = b.gap(b.level)
		b.placed = nil
		b.breaks = 0
		b.solved = false

		ev = b.event(EventLevelAdvanced)
		ev.Level = b.level
		ev.TargetGap = b.target
	}
	b.mu.Unlock()

	b.emit([]Event{ev})
}

// sum returns the total placed length. Caller holds mu.
func (b *Bridge) sum() int {
	total := 0
	for _, v := range b.placed {
		total += v
	}
	return total
}

// stateLocked builds a snapshot. Caller holds mu.
func (b *Bridge) stateLocked() BridgeState {
	return BridgeState{
		Level:     b.level,
		TargetGap: b.target,
		Placed:    append([]int{}, b.placed...),
		Remaining: b.target - b.sum(),
		Breaks:    b.breaks,
		Solved:    b.solved,
		Broken:    b.broken,
		Complete:  b.complete,
	}
}

func (b *Bridge) event(kind EventKind) Event {
	return Event{Kind: kind, Module: ModuleBridgeBuilder, At: b.opts.Clock.Now()}
}

func (b *Bridge) emit(events []Event) {
	if b.opts.Sink == nil {
		return
	}
	for _, ev := range events {
		b.opts.Sink.Emit(ev)
	}
}
