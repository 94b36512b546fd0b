// Package bridge forwards event bus traffic to redis pub/sub so presentation
// processes outside this one can follow the universe.
package bridge

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"repo-universe/internal/eventbus"
	apperrors "repo-universe/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

// Publisher is the slice of the redis client the bridge needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type outbound struct {
	channel string
	body    []byte
}

type Bridge struct {
	publisher Publisher
	prefix    string
	queue     chan outbound
	timeout   time.Duration
	published atomic.Uint64
	dropped   atomic.Uint64
	logger    *slog.Logger
}

func New(publisher Publisher, prefix string, buffer int, logger *slog.Logger) *Bridge {
	return &Bridge{
		publisher: publisher,
		prefix:    prefix,
		queue:     make(chan outbound, buffer),
		timeout:   3 * time.Second,
		logger:    logger.With("component", "bridge"),
	}
}

// Attach subscribes the bridge to every bus topic
// Payloads are encoded on the publishing thread and handed to Run without blocking
func (b *Bridge) Attach(bus *eventbus.Bus) func() {
	return bus.SubscribeAll(func(topic eventbus.Topic, payload any) {
		body, err := eventbus.Encode(topic, payload)
		if err != nil {
			b.logger.Error("Failed to encode bus event", "topic", topic, "error", apperrors.WrapInternal("encode", err))
			return
		}

		select {
		case b.queue <- outbound{channel: b.prefix + string(topic), body: body}:
		default:
			if n := b.dropped.Add(1); n == 1 || n%100 == 0 {
				b.logger.Warn("Bridge buffer full, dropping events", "topic", topic, "dropped_total", n)
			}
		}
	})
}

// Run publishes queued events until ctx ends
func (b *Bridge) Run(ctx context.Context) error {
	logger := b.logger.With("operation", "run")
	logger.Info("Bridge started", "prefix", b.prefix)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bridge stopped", "published", b.published.Load(), "dropped", b.dropped.Load())
			return ctx.Err()
		case msg := <-b.queue:
			pubCtx, cancel := context.WithTimeout(ctx, b.timeout)
			err := b.publisher.Publish(pubCtx, msg.channel, msg.body).Err()
			cancel()

			if err != nil {
				logger.Error("Failed to publish to redis", "channel", msg.channel, "error", apperrors.WrapExternal("publish", err))
				continue
			}
			b.published.Add(1)
		}
	}
}

func (b *Bridge) Published() uint64 {
	return b.published.Load()
}

func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}
