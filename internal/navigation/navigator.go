package navigation

import (
	"log/slog"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/planet"
)

// Navigator moves camera focus between planets in formation order
type Navigator struct {
	bus     *eventbus.Bus
	planets []*planet.Planet
	focus   int
	logger  *slog.Logger
}

func New(bus *eventbus.Bus, logger *slog.Logger) *Navigator {
	n := &Navigator{
		bus:    bus,
		focus:  -1,
		logger: logger.With("component", "navigator"),
	}
	bus.Subscribe(eventbus.TopicPlanetFormed, n.onFormed)
	bus.Subscribe(eventbus.TopicShowPlanet, n.onShow)
	return n
}

// Next focuses the following planet, wrapping to the first
func (n *Navigator) Next() (*planet.Planet, bool) {
	return n.move(1)
}

// Previous focuses the preceding planet, wrapping to the last
func (n *Navigator) Previous() (*planet.Planet, bool) {
	return n.move(-1)
}

func (n *Navigator) Focused() (*planet.Planet, bool) {
	if n.focus < 0 {
		return nil, false
	}
	return n.planets[n.focus], true
}

func (n *Navigator) move(step int) (*planet.Planet, bool) {
	count := len(n.planets)
	if count == 0 {
		return nil, false
	}

	if n.focus < 0 {
		if step > 0 {
			n.focus = 0
		} else {
			n.focus = count - 1
		}
	} else {
		n.focus = ((n.focus+step)%count + count) % count
	}

	p := n.planets[n.focus]
	n.logger.Debug("Focus moved", "repo", p.Repo, "index", n.focus)
	n.bus.Publish(eventbus.TopicShowPlanet, p)
	return p, true
}

func (n *Navigator) onFormed(payload any) {
	if p, ok := payload.(*planet.Planet); ok {
		n.planets = append(n.planets, p)
	}
}

// onShow keeps focus in step with reveals published elsewhere, such as a layout pass
func (n *Navigator) onShow(payload any) {
	p, ok := payload.(*planet.Planet)
	if !ok {
		return
	}
	for i, known := range n.planets {
		if known == p {
			n.focus = i
			return
		}
	}
}
