// Package loop provides the single logical thread that owns all entity state.
//
// Inbound channel messages, travel completions and HTTP snapshot reads are all
// posted here and executed one at a time, so entity managers need no locking.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

var ErrStopped = errors.New("loop stopped")

type Loop struct {
	tasks    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

func New(buffer int, logger *slog.Logger) *Loop {
	return &Loop{
		tasks:   make(chan func(), buffer),
		stopped: make(chan struct{}),
		logger:  logger.With("component", "loop"),
	}
}

// Post schedules fn; it blocks while the buffer is full and reports false once the loop has stopped
// Never call Post from inside a posted function with a full buffer; use it from other goroutines
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		panic("loop: nil task posted")
	}
	select {
	case <-l.stopped:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish
// If ctx ends before fn starts, fn is abandoned and never runs; once started it always completes
func (l *Loop) Call(ctx context.Context, fn func()) error {
	const (
		pending int32 = iota
		running
		abandoned
	)
	var state atomic.Int32
	done := make(chan struct{})

	if !l.Post(func() {
		if !state.CompareAndSwap(pending, running) {
			return
		}
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(pending, abandoned) {
			return ctx.Err()
		}
		<-done
		return nil
	case <-l.stopped:
		return ErrStopped
	}
}

// Run executes posted tasks in order until ctx ends
func (l *Loop) Run(ctx context.Context) error {
	logger := l.logger.With("operation", "run")
	logger.Info("Loop started")
	defer l.stopOnce.Do(func() { close(l.stopped) })

	for {
		select {
		case <-ctx.Done():
			logger.Info("Loop stopped", "reason", ctx.Err(), "dropped_tasks", len(l.tasks))
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}
