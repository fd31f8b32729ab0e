package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/kars-hq/kars/pkg/eventbus"
)

type orderShipped struct {
	OrderID uint
}

type demoReturned struct {
	DemoID uint
}

func newBus() eventbus.EventBus {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(log)
}

func TestPublish_DispatchesToMatchingHandler(t *testing.T) {
	bus := newBus()

	var got []uint
	bus.Subscribe(func(ev orderShipped) {
		got = append(got, ev.OrderID)
	})
	bus.Subscribe(func(ev demoReturned) {
		t.Fatal("demo handler must not fire for order events")
	})

	bus.Publish(orderShipped{OrderID: 7})
	bus.Publish(orderShipped{OrderID: 9})

	require.Equal(t, []uint{7, 9}, got)
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	bus := newBus()

	fired := 0
	bus.Subscribe(func(ev orderShipped) {
		panic("boom")
	})
	bus.Subscribe(func(ev orderShipped) {
		fired++
	})

	require.NotPanics(t, func() {
		bus.Publish(orderShipped{OrderID: 1})
	})
	require.Equal(t, 1, fired)
}

func TestUnsubscribe(t *testing.T) {
	bus := newBus()

	fired := 0
	handler := func(ev orderShipped) { fired++ }
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())

	bus.Publish(orderShipped{OrderID: 1})
	require.Zero(t, fired)
}

func TestMatchSignature(t *testing.T) {
	handler := func(ev orderShipped) {}
	require.True(t, eventbus.MatchSignature(handler, []interface{}{orderShipped{}}))
	require.False(t, eventbus.MatchSignature(handler, []interface{}{demoReturned{}}))
	require.False(t, eventbus.MatchSignature(handler, []interface{}{orderShipped{}, demoReturned{}}))
	require.False(t, eventbus.MatchSignature("not a func", []interface{}{orderShipped{}}))
}

func TestClear(t *testing.T) {
	bus := newBus()
	bus.Subscribe(func(ev orderShipped) {})
	bus.Subscribe(func(ev demoReturned) {})
	require.Equal(t, 2, bus.SubscribersCount())
	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}
