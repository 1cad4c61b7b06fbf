package plugin

import (
	"context"
	"log"
	"sync"
)

// DefaultQueueSize bounds the number of pending plugin events.
const DefaultQueueSize = 64

// Dispatcher delivers events to subscribed plugins on a single worker
// goroutine, so committed text reaches a plugin in the order it was typed.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan *Request

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Run to start delivering.
func NewDispatcher(manager *Manager, executor *Executor, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		queue:    make(chan *Request, queueSize),
	}
}

// Run delivers queued events until ctx is done or Close is called.
func (d *Dispatcher) Run(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-d.queue:
				if !ok {
					return
				}
				d.deliver(ctx, req)
			}
		}
	}()
}

// Send queues an event without blocking. It returns false when the event
// was dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Send(req *Request) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	select {
	case d.queue <- req:
		return true
	default:
		log.Printf("Plugin queue full, dropping %s event", req.Event)
		return false
	}
}

// Close stops accepting events and waits for the queued ones to drain.
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

func (d *Dispatcher) deliver(ctx context.Context, req *Request) {
	for _, p := range d.manager.Subscribers(req.Event) {
		if _, err := d.executor.Execute(ctx, p, req); err != nil {
			log.Printf("Plugin %s failed on %s: %v", p.Manifest.Name, req.Event, err)
		}
	}
}
