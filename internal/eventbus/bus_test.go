package eventbus

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return New(slog.New(slog.DiscardHandler))
}

func TestPublish_RegistrationOrder(t *testing.T) {
	bus := newTestBus()
	var got []string

	bus.Subscribe(TopicShowPlanet, func(p any) { got = append(got, "first:"+p.(string)) })
	bus.Subscribe(TopicShowPlanet, func(p any) { got = append(got, "second:"+p.(string)) })
	bus.Subscribe(TopicShipFire, func(p any) { got = append(got, "other") })

	bus.Publish(TopicShowPlanet, "a/b")

	assert.Equal(t, []string{"first:a/b", "second:a/b"}, got)
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	bus := newTestBus()

	assert.NotPanics(t, func() { bus.Publish(TopicPlanetFormed, nil) })
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	bus := newTestBus()
	calls := 0

	unsubscribe := bus.Subscribe(TopicShipState, func(any) { calls++ })
	bus.Publish(TopicShipState, nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(TopicShipState, nil)

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.HandlerCount(TopicShipState))
}

func TestPublish_PanickingHandlerIsIsolated(t *testing.T) {
	bus := newTestBus()
	reached := false

	bus.Subscribe(TopicShipFire, func(any) { panic("boom") })
	bus.Subscribe(TopicShipFire, func(any) { reached = true })

	require.NotPanics(t, func() { bus.Publish(TopicShipFire, nil) })
	assert.True(t, reached)
}

func TestPublish_NestedPublishRunsAfterCurrentDispatch(t *testing.T) {
	bus := newTestBus()
	var got []string

	bus.Subscribe(TopicPlanetFormed, func(p any) {
		got = append(got, "formed-1")
		bus.Publish(TopicShowPlanet, p)
	})
	bus.Subscribe(TopicPlanetFormed, func(any) { got = append(got, "formed-2") })
	bus.Subscribe(TopicShowPlanet, func(any) { got = append(got, "show") })

	bus.Publish(TopicPlanetFormed, "a/b")

	assert.Equal(t, []string{"formed-1", "formed-2", "show"}, got)
}

func TestPublish_UnsubscribeDuringDispatch(t *testing.T) {
	bus := newTestBus()
	var second func()
	calls := 0

	bus.Subscribe(TopicSystemLayout, func(any) { second() })
	second = bus.Subscribe(TopicSystemLayout, func(any) { calls++ })

	bus.Publish(TopicSystemLayout, nil)

	assert.Zero(t, calls)
}

func TestSubscribeAll(t *testing.T) {
	bus := newTestBus()
	var topics []Topic

	unsubscribe := bus.SubscribeAll(func(topic Topic, _ any) { topics = append(topics, topic) })
	bus.Publish(TopicShipFire, nil)
	bus.Publish(TopicShowPlanet, nil)
	unsubscribe()
	bus.Publish(TopicShipFire, nil)

	assert.Equal(t, []Topic{TopicShipFire, TopicShowPlanet}, topics)
	for _, topic := range AllTopics {
		assert.Zero(t, bus.HandlerCount(topic))
	}
}

func TestEncode(t *testing.T) {
	raw, err := Encode(TopicShowPlanet, map[string]string{"repo": "a/b"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"show:planet","payload":{"repo":"a/b"}}`, string(raw))
}
