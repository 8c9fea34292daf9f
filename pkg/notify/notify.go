// Package notify broadcasts session events to whoever renders them.
// Delivery is synchronous: Notify returns after every listener has run.
package notify

import "sync"

const KindAuthRequired = "auth-required"

type Event struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// Nop drops every event.
var Nop Notifier = NotifierFunc(func(Event) {})

type listener struct {
	id int
	fn func(Event)
}

type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners []listener
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners = append(b.listeners, listener{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Notify(e Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.listeners))
	for _, l := range b.listeners {
		fns = append(fns, l.fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
