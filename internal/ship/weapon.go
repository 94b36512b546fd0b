package ship

import "repo-universe/internal/spatial"

// Shot describes a weapon discharge for the presentation layer
type Shot struct {
	Login     string         `json:"login"`
	Magnitude int            `json:"magnitude"`
	Severity  int            `json:"severity"`
	Target    spatial.Vector `json:"target"`
}

// Trigger receives every shot fired
type Trigger func(Shot)

// Weapon is a stateless fire action
type Weapon struct {
	owner   string
	trigger Trigger
}

func NewWeapon(owner string, trigger Trigger) *Weapon {
	return &Weapon{owner: owner, trigger: trigger}
}

func (w *Weapon) Fire(magnitude, severity int, target spatial.Vector) {
	if w.trigger == nil {
		return
	}
	w.trigger(Shot{
		Login:     w.owner,
		Magnitude: magnitude,
		Severity:  severity,
		Target:    target,
	})
}
