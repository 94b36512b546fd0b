// Package hud keeps the heads-up display counters, fed entirely from the event bus.
package hud

import (
	"fmt"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/planet"
	"repo-universe/internal/ship"
)

type Stats struct {
	Planets        int        `json:"planets"`
	Ships          int        `json:"ships"`
	Jumps          int        `json:"jumps"`
	Shots          int        `json:"shots"`
	TotalMagnitude int        `json:"total_magnitude"`
	Connections    int        `json:"connections"`
	Focus          string     `json:"focus,omitempty"`
	LastShot       *ship.Shot `json:"last_shot,omitempty"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d planets, %d ships, %d jumps, %d shots", s.Planets, s.Ships, s.Jumps, s.Shots)
}

type HUD struct {
	stats       Stats
	unsubscribe []func()
}

func New(bus *eventbus.Bus) *HUD {
	h := &HUD{}
	h.unsubscribe = []func(){
		bus.Subscribe(eventbus.TopicPlanetFormed, func(any) { h.stats.Planets++ }),
		bus.Subscribe(eventbus.TopicShipCommissioned, func(any) { h.stats.Ships++ }),
		bus.Subscribe(eventbus.TopicUniverseOpen, func(any) { h.stats.Connections++ }),
		bus.Subscribe(eventbus.TopicShipState, h.onState),
		bus.Subscribe(eventbus.TopicShipFire, h.onFire),
		bus.Subscribe(eventbus.TopicShowPlanet, h.onShow),
	}
	return h
}

// Snapshot returns a copy of the current counters
func (h *HUD) Snapshot() Stats {
	s := h.stats
	if s.LastShot != nil {
		shot := *s.LastShot
		s.LastShot = &shot
	}
	return s
}

func (h *HUD) Close() {
	for _, fn := range h.unsubscribe {
		fn()
	}
}

func (h *HUD) onState(payload any) {
	if change, ok := payload.(ship.StateChange); ok && change.To == ship.StateArrived {
		h.stats.Jumps++
	}
}

func (h *HUD) onFire(payload any) {
	shot, ok := payload.(ship.Shot)
	if !ok {
		return
	}
	h.stats.Shots++
	h.stats.TotalMagnitude += shot.Magnitude
	h.stats.LastShot = &shot
}

func (h *HUD) onShow(payload any) {
	if p, ok := payload.(*planet.Planet); ok {
		h.stats.Focus = p.Repo
	}
}
