package spatial

import "math"

// Allocator hands out orbit slots on expanding rings
//
// The innermost ring is filled up to RingCapacity before the next ring opens.
// Allocation is deterministic and unbounded.
type Allocator struct {
	radius       float64
	ringCapacity int
	next         int
}

func NewAllocator(radius float64, ringCapacity int) *Allocator {
	if ringCapacity < 1 {
		panic("spatial: ring capacity must be at least 1")
	}
	return &Allocator{
		radius:       radius,
		ringCapacity: ringCapacity,
	}
}

// Allocate returns the next unused slot
func (a *Allocator) Allocate() Slot {
	n := a.next
	a.next++
	return Slot{Ring: n / a.ringCapacity, Index: n % a.ringCapacity}
}

// Reset forgets every allocation; the next Allocate starts from the inner ring again
func (a *Allocator) Reset() {
	a.next = 0
}

// Allocated returns how many slots have been handed out since the last Reset
func (a *Allocator) Allocated() int {
	return a.next
}

// Position converts a slot into a coordinate on the orbital plane
// Alternate rings are offset by half a step so neighbours don't line up radially
func (a *Allocator) Position(slot Slot) Vector {
	r := a.radius * float64(slot.Ring+1)
	step := 2 * math.Pi / float64(a.ringCapacity)
	angle := step * float64(slot.Index)
	if slot.Ring%2 == 1 {
		angle += step / 2
	}

	return Vector{
		X: r * math.Cos(angle),
		Y: r * math.Sin(angle),
	}
}
