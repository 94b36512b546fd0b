package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler receives the payload published on a topic
type Handler func(payload any)

type subscription struct {
	handler Handler
	removed atomic.Bool
}

type delivery struct {
	topic   Topic
	payload any
}

// Bus is an in-process publish/subscribe channel
//
// Dispatch rules:
//   - Publish is synchronous; handlers run in registration order
//   - Publishing on a topic without subscribers is a no-op
//   - A panicking handler is logged and skipped, the others still run
//   - A Publish issued while a dispatch is running is queued and delivered
//     once the current dispatch completes
type Bus struct {
	mu          sync.Mutex
	handlers    map[Topic][]*subscription
	pending     []delivery
	dispatching bool
	logger      *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[Topic][]*subscription),
		logger:   logger.With("component", "eventbus"),
	}
}

// Subscribe registers handler for topic and returns a function that removes it
// Calling the returned function more than once is harmless
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	if handler == nil {
		panic("eventbus: nil handler for topic " + string(topic))
	}

	sub := &subscription{handler: handler}

	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], sub)
	b.mu.Unlock()

	return func() {
		if sub.removed.Swap(true) {
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[topic]
		for i, s := range subs {
			if s == sub {
				b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.handlers[topic]) == 0 {
			delete(b.handlers, topic)
		}
	}
}

// Publish delivers payload to every handler currently registered on topic
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.Lock()
	b.pending = append(b.pending, delivery{topic: topic, payload: payload})
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true

	for len(b.pending) > 0 {
		next := b.pending[0]
		b.pending[0] = delivery{}
		b.pending = b.pending[1:]

		subs := make([]*subscription, len(b.handlers[next.topic]))
		copy(subs, b.handlers[next.topic])
		b.mu.Unlock()

		for _, sub := range subs {
			if sub.removed.Load() {
				continue
			}
			b.invoke(next.topic, sub.handler, next.payload)
		}

		b.mu.Lock()
	}

	b.pending = nil
	b.dispatching = false
	b.mu.Unlock()
}

// HandlerCount returns the number of live handlers on topic
func (b *Bus) HandlerCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[topic])
}

func (b *Bus) invoke(topic Topic, handler Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Subscriber panicked",
				"topic", topic,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	handler(payload)
}
