package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/ship"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	body    string
}

type fakePublisher struct {
	mu   sync.Mutex
	got  []published
	fail bool
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	f.got = append(f.got, published{channel: channel, body: string(message.([]byte))})
	return redis.NewIntResult(1, nil)
}

func (f *fakePublisher) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.got...)
}

func TestBridge_ForwardsBusEvents(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.New(logger)
	pub := &fakePublisher{}
	b := New(pub, "universe:", 8, logger)
	b.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	bus.Publish(eventbus.TopicShipFire, ship.Shot{Login: "x", Magnitude: 3, Severity: 2})

	require.Eventually(t, func() bool { return len(pub.messages()) == 1 }, time.Second, 5*time.Millisecond)
	msg := pub.messages()[0]
	assert.Equal(t, "universe:ship:fire", msg.channel)
	assert.JSONEq(t, `{"topic":"ship:fire","payload":{"login":"x","magnitude":3,"severity":2,"target":{"x":0,"y":0,"z":0}}}`, msg.body)
	assert.Equal(t, uint64(1), b.Published())
}

func TestBridge_DropsWhenBufferFull(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.New(logger)
	b := New(&fakePublisher{}, "u:", 1, logger)
	b.Attach(bus)

	bus.Publish(eventbus.TopicShowPlanet, nil)
	bus.Publish(eventbus.TopicShowPlanet, nil)
	bus.Publish(eventbus.TopicShowPlanet, nil)

	assert.Equal(t, uint64(2), b.Dropped())
}

func TestBridge_PublishErrorsAreNotFatal(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.New(logger)
	pub := &fakePublisher{fail: true}
	b := New(pub, "u:", 4, logger)
	b.Attach(bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	bus.Publish(eventbus.TopicPlanetFormed, nil)
	require.Eventually(t, func() bool { return len(b.queue) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, b.Published())
}
