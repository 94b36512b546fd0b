package travel

import (
	"time"

	"repo-universe/internal/spatial"
)

// Poster hands a completion back to the thread that owns ship state
type Poster interface {
	Post(fn func()) bool
}

// Timed completes every jump after a fixed duration, delivering done through the poster
type Timed struct {
	duration time.Duration
	poster   Poster
	after    func(time.Duration, func())
}

func NewTimed(duration time.Duration, poster Poster) *Timed {
	return &Timed{
		duration: duration,
		poster:   poster,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

func (t *Timed) Travel(from, to spatial.Vector, done func()) {
	d := t.duration
	if from == to {
		d = 0
	}
	t.after(d, func() {
		t.poster.Post(done)
	})
}
