package events

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewEventBus[Event]()
	a := bus.Subscribe()
	b := bus.Subscribe()

	dropped := bus.Publish(ProductDeleted{ProductID: 3})
	assert.Zero(t, dropped)

	assert.Equal(t, ProductDeleted{ProductID: 3}, <-a)
	assert.Equal(t, ProductDeleted{ProductID: 3}, <-b)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := NewEventBus[Event]()
	sub := bus.Subscribe()

	for i := 0; i < cap(sub); i++ {
		require.Zero(t, bus.Publish(ProductDeleted{ProductID: int64(i)}))
	}
	assert.Equal(t, 1, bus.Publish(ProductDeleted{ProductID: 999}))
}

func TestUnsubscribeClosesOnce(t *testing.T) {
	bus := NewEventBus[Event]()
	sub := bus.Subscribe()

	bus.Unsubscribe(sub)
	_, open := <-sub
	assert.False(t, open)

	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
	assert.Zero(t, bus.Publish(ProductDeleted{ProductID: 1}))
}

func TestCloseClosesSubscribers(t *testing.T) {
	bus := NewEventBus[Event]()
	sub := bus.Subscribe()

	bus.Close()
	_, open := <-sub
	assert.False(t, open)

	late := bus.Subscribe()
	_, open = <-late
	assert.False(t, open)
	assert.NotPanics(t, func() { bus.Unsubscribe(sub) })
}

func TestMessageCarriesEventName(t *testing.T) {
	msg := NewMessage(ProductDeleted{ProductID: 7})
	assert.Equal(t, "product_deleted", msg.EventType)
}
