package plugin

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/handplay/internal/game"
)

// QueueSize is how many events may wait for plugins before new ones are dropped.
const QueueSize = 32

// Runner executes one plugin request.
type Runner interface {
	Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error)
}

// Dispatcher is a game.Sink that hands events to subscribed plugins on a
// background worker. Emit never blocks the game.
type Dispatcher struct {
	manager *Manager
	runner  Runner

	queue chan game.Event
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts a dispatcher over the manager's plugins.
func NewDispatcher(manager *Manager, runner Runner) *Dispatcher {
	d := &Dispatcher{
		manager: manager,
		runner:  runner,
		queue:   make(chan game.Event, QueueSize),
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Emit queues ev for delivery. Events are dropped when the queue is full or
// the dispatcher is closed.
func (d *Dispatcher) Emit(ev game.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		log.Printf("Plugin queue full, dropping %s event", ev.Kind)
	}
}

// Close stops accepting events and waits for the queued ones to be
// delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, p := range d.manager.Subscribers(ev) {
			d.deliver(p, ev)
		}
	}
}

func (d *Dispatcher) deliver(p *Plugin, ev game.Event) {
	resp, err := d.runner.Execute(context.Background(), p, &Request{Event: ev, Config: p.Manifest.Config})
	if err != nil {
		log.Printf("Plugin %s failed on %s: %v", p.Manifest.Name, ev.Kind, err)
		return
	}
	if !resp.Success {
		log.Printf("Plugin %s rejected %s: %s", p.Manifest.Name, ev.Kind, resp.Error)
	}
}
