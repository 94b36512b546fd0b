// Package shiptest provides a ship.Traveler whose jumps complete only when told to.
package shiptest

import "repo-universe/internal/spatial"

// Jump is a travel request waiting for completion
type Jump struct {
	From spatial.Vector
	To   spatial.Vector
	done func()
}

// Traveler records every jump and holds it in flight until Complete is called
type Traveler struct {
	inFlight []*Jump
	Started  []Jump
}

func (t *Traveler) Travel(from, to spatial.Vector, done func()) {
	j := &Jump{From: from, To: to, done: done}
	t.inFlight = append(t.inFlight, j)
	t.Started = append(t.Started, *j)
}

// InFlight returns how many jumps are waiting
func (t *Traveler) InFlight() int {
	return len(t.inFlight)
}

// CompleteNext finishes the oldest jump in flight; it reports false if there is none
func (t *Traveler) CompleteNext() bool {
	if len(t.inFlight) == 0 {
		return false
	}
	j := t.inFlight[0]
	t.inFlight = t.inFlight[1:]
	j.done()
	return true
}

// CompleteAll finishes jumps until none are in flight, including jumps started by completions
func (t *Traveler) CompleteAll() int {
	n := 0
	for t.CompleteNext() {
		n++
	}
	return n
}
