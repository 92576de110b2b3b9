package events

import "sync"

// Event is anything published on the bus. Name identifies its kind on the wire.
type Event interface {
	Name() string
}

// Subscriber is a channel that transports events of type T
type Subscriber[T Event] chan T

type EventBus[T Event] struct {
	subscribers map[Subscriber[T]]struct{}
	mutex       sync.RWMutex
	closed      bool
}

func NewEventBus[T Event]() *EventBus[T] {
	return &EventBus[T]{
		subscribers: make(map[Subscriber[T]]struct{}),
	}
}

// Subscribe registers a new buffered subscriber. Subscribing to a closed bus
// returns an already closed channel.
func (bus *EventBus[T]) Subscribe() Subscriber[T] {
	// create a buffered channel of type T with capacity 100
	ch := make(Subscriber[T], 100)
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	if bus.closed {
		close(ch)
		return ch
	}
	bus.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes ch and closes it. It is a no-op for unknown channels.
func (bus *EventBus[T]) Unsubscribe(ch Subscriber[T]) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	if _, ok := bus.subscribers[ch]; !ok {
		return
	}
	delete(bus.subscribers, ch)
	close(ch)
}

// Publish broadcasts an event of type T to all registered subscribers.
// Subscribers whose buffer is full miss the event; their count is returned.
func (bus *EventBus[T]) Publish(event T) (dropped int) {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	for subscriber := range bus.subscribers {
		select {
		case subscriber <- event:
		default:
			dropped++
		}
	}
	return dropped
}

// Close closes every subscriber and rejects new ones
func (bus *EventBus[T]) Close() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	if bus.closed {
		return
	}
	bus.closed = true
	for subscriber := range bus.subscribers {
		delete(bus.subscribers, subscriber)
		close(subscriber)
	}
}
