package planet

import (
	"math"

	"repo-universe/internal/spatial"
)

// Planet is a tracked repository
// Repo never changes once formed; Slot and Position change only during a layout pass
type Planet struct {
	Repo       string         `json:"repo"`
	Slot       spatial.Slot   `json:"slot"`
	Position   spatial.Vector `json:"position"`
	Complexity float64        `json:"complexity"`
}

func New(repo string, slot spatial.Slot, position spatial.Vector) *Planet {
	return &Planet{
		Repo:     repo,
		Slot:     slot,
		Position: position,
	}
}

// Scale is the visual size multiplier derived from complexity
// A planet with no complexity score renders at 1
func (p *Planet) Scale() float64 {
	if p.Complexity <= 0 {
		return 1
	}
	return 1 + math.Log10(1+p.Complexity)/2
}

// Snapshot is a read-only copy of a planet for presentation
type Snapshot struct {
	Repo       string         `json:"repo"`
	Slot       spatial.Slot   `json:"slot"`
	Position   spatial.Vector `json:"position"`
	Complexity float64        `json:"complexity"`
	Scale      float64        `json:"scale"`
}

func (p *Planet) Snapshot() Snapshot {
	return Snapshot{
		Repo:       p.Repo,
		Slot:       p.Slot,
		Position:   p.Position,
		Complexity: p.Complexity,
		Scale:      p.Scale(),
	}
}
