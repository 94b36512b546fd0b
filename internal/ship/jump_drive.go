package ship

import "repo-universe/internal/spatial"

// Action is a unit of work on a ship's queue
// It must call done exactly once, synchronously or later
type Action func(done func())

// Traveler moves a ship between two points and calls done on arrival
// Implementations decide how long travel takes; done may be called from the
// caller's thread of control only
type Traveler interface {
	Travel(from, to spatial.Vector, done func())
}

// TravelerFunc adapts a function to Traveler
type TravelerFunc func(from, to spatial.Vector, done func())

func (f TravelerFunc) Travel(from, to spatial.Vector, done func()) {
	f(from, to, done)
}

// JumpDrive is a ship's private serial action queue
// Actions run strictly in submission order, one at a time. The drive owns the
// ship's authoritative location: the destination of the last completed jump.
type JumpDrive struct {
	location   spatial.Vector
	traveler   Traveler
	queue      []Action
	busy       bool
	onComplete []func()
}

func NewJumpDrive(start spatial.Vector, traveler Traveler) *JumpDrive {
	if traveler == nil {
		panic("ship: jump drive needs a traveler")
	}
	return &JumpDrive{
		location: start,
		traveler: traveler,
	}
}

// Enqueue appends action and starts it immediately if the drive is idle
func (d *JumpDrive) Enqueue(action Action) {
	if action == nil {
		panic("ship: nil action enqueued on jump drive")
	}
	d.queue = append(d.queue, action)
	if !d.busy {
		d.advance()
	}
}

// OnComplete registers fn to run after each action finishes, before the next one starts
func (d *JumpDrive) OnComplete(fn func()) {
	d.onComplete = append(d.onComplete, fn)
}

// Jump enqueues travel to dest
// depart runs when the jump starts; arrive runs after the location is updated
func (d *JumpDrive) Jump(dest spatial.Vector, depart, arrive func()) {
	d.Enqueue(func(done func()) {
		if depart != nil {
			depart()
		}
		d.traveler.Travel(d.location, dest, func() {
			d.location = dest
			if arrive != nil {
				arrive()
			}
			done()
		})
	})
}

func (d *JumpDrive) Location() spatial.Vector {
	return d.location
}

// Pending counts queued actions plus the one in flight
func (d *JumpDrive) Pending() int {
	if d.busy {
		return len(d.queue) + 1
	}
	return len(d.queue)
}

func (d *JumpDrive) Busy() bool {
	return d.busy
}

// advance runs queued actions until one suspends
// Synchronous completions are handled by the loop, asynchronous ones re-enter advance
func (d *JumpDrive) advance() {
	for !d.busy && len(d.queue) > 0 {
		action := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.busy = true

		starting := true
		completed := false
		action(func() {
			if completed {
				panic("ship: jump drive action completed twice")
			}
			completed = true

			for _, fn := range d.onComplete {
				fn()
			}
			d.busy = false

			if !starting {
				d.advance()
			}
		})
		starting = false
	}
}
