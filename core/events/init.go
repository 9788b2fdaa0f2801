// Package events is a small ordered event bus. Emit never blocks the caller;
// handlers run one at a time on the bus goroutine, in emit order.
package events

import (
	"sync"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("events")

type Handler func(Event)

type Event struct {
	Name   string
	Params map[string]interface{}
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus dispatches events to the handlers registered for their name.
type Bus struct {
	mu       sync.Mutex
	queue    []Event
	handlers map[string][]registration
	nextID   uint64
	closed   bool

	wake chan struct{}
	done chan struct{}
	idle *sync.Cond
	busy bool
}

func NewBus() *Bus {
	b := &Bus{
		handlers: map[string][]registration{},
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	b.idle = sync.NewCond(&b.mu)
	go b.sink()
	return b
}

// On registers handler for events named name and returns a func removing it.
func (b *Bus) On(name string, handler Handler) (off func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], registration{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.handlers[name]
			for i, r := range list {
				if r.id == id {
					b.handlers[name] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit queues event for delivery. Events emitted after Close are dropped.
func (b *Bus) Emit(event Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		log.Debugf("dropped event %s on closed bus", event.Name)
		return
	}
	b.queue = append(b.queue, event)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Drain blocks until every event emitted so far has been handled.
func (b *Bus) Drain() {
	b.mu.Lock()
	for len(b.queue) > 0 || b.busy {
		b.idle.Wait()
	}
	b.mu.Unlock()
}

// Close delivers the queued events and stops the bus goroutine.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	<-b.done
}

func (b *Bus) sink() {
	defer close(b.done)
	for range b.wake {
		for {
			b.mu.Lock()
			if len(b.queue) == 0 {
				closed := b.closed
				b.busy = false
				b.idle.Broadcast()
				b.mu.Unlock()
				if closed {
					return
				}
				break
			}
			event := b.queue[0]
			b.queue = b.queue[1:]
			list := append([]registration(nil), b.handlers[event.Name]...)
			b.busy = true
			b.mu.Unlock()

			for _, r := range list {
				exec(r.handler, event)
			}
		}
	}
}

func exec(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("handler for %s panicked: %v", event.Name, r)
		}
	}()
	handler(event)
}
