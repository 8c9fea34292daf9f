package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusBroadcast(t *testing.T) {
	bus := NewBus()

	var first, second []Event
	bus.Subscribe(func(e Event) { first = append(first, e) })
	unsubscribe := bus.Subscribe(func(e Event) { second = append(second, e) })

	bus.Notify(Event{Kind: KindAuthRequired, Message: "hello"})
	unsubscribe()
	bus.Notify(Event{Kind: KindAuthRequired, Message: "again"})

	assert.Len(t, first, 2)
	assert.Equal(t, []Event{{Kind: KindAuthRequired, Message: "hello"}}, second)
}

func TestBusWithoutListeners(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBus().Notify(Event{Kind: KindAuthRequired})
		Nop.Notify(Event{Kind: KindAuthRequired})
	})
}

func TestBusOrder(t *testing.T) {
	bus := NewBus()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(func(Event) { got = append(got, i) })
	}
	bus.Notify(Event{Kind: KindAuthRequired})
	assert.Equal(t, []int{0, 1, 2}, got)
}
