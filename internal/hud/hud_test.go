package hud

import (
	"log/slog"
	"testing"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/planet"
	"repo-universe/internal/ship"
	"repo-universe/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHUD_CountsBusTraffic(t *testing.T) {
	bus := eventbus.New(slog.New(slog.DiscardHandler))
	h := New(bus)
	target := spatial.Vector{X: 2000}

	bus.Publish(eventbus.TopicUniverseOpen, nil)
	bus.Publish(eventbus.TopicPlanetFormed, planet.New("a/b", spatial.Slot{}, target))
	bus.Publish(eventbus.TopicShipCommissioned, ship.Snapshot{Login: "x"})
	bus.Publish(eventbus.TopicShipState, ship.StateChange{Login: "x", From: ship.StateIdle, To: ship.StateJumping})
	bus.Publish(eventbus.TopicShipState, ship.StateChange{Login: "x", From: ship.StateJumping, To: ship.StateArrived})
	bus.Publish(eventbus.TopicShipFire, ship.Shot{Login: "x", Magnitude: 3, Severity: 2, Target: target})
	bus.Publish(eventbus.TopicShowPlanet, planet.New("a/b", spatial.Slot{}, target))

	stats := h.Snapshot()
	assert.Equal(t, 1, stats.Planets)
	assert.Equal(t, 1, stats.Ships)
	assert.Equal(t, 1, stats.Jumps)
	assert.Equal(t, 1, stats.Shots)
	assert.Equal(t, 3, stats.TotalMagnitude)
	assert.Equal(t, 1, stats.Connections)
	assert.Equal(t, "a/b", stats.Focus)
	require.NotNil(t, stats.LastShot)
	assert.Equal(t, 2, stats.LastShot.Severity)
	assert.Equal(t, "1 planets, 1 ships, 1 jumps, 1 shots", stats.String())
}

func TestHUD_SnapshotIsACopy(t *testing.T) {
	bus := eventbus.New(slog.New(slog.DiscardHandler))
	h := New(bus)
	bus.Publish(eventbus.TopicShipFire, ship.Shot{Magnitude: 1})

	snap := h.Snapshot()
	snap.LastShot.Magnitude = 99

	assert.Equal(t, 1, h.Snapshot().LastShot.Magnitude)
}

func TestHUD_Close(t *testing.T) {
	bus := eventbus.New(slog.New(slog.DiscardHandler))
	h := New(bus)
	h.Close()

	bus.Publish(eventbus.TopicPlanetFormed, planet.New("a/b", spatial.Slot{}, spatial.Origin))

	assert.Zero(t, h.Snapshot().Planets)
	assert.Zero(t, bus.HandlerCount(eventbus.TopicPlanetFormed))
}
