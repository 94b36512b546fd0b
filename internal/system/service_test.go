package system

import (
	"fmt"
	"log/slog"
	"testing"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/planet"
	"repo-universe/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *eventbus.Bus) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.New(logger)
	return NewService(NewRepository(logger), spatial.NewAllocator(2000, 4), bus, logger), bus
}

func TestForm_DistinctSlots(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 20; i++ {
		require.True(t, svc.Form(fmt.Sprintf("org/repo-%d", i)))
	}

	seen := make(map[spatial.Slot]string)
	for _, snap := range svc.Snapshots() {
		other, dup := seen[snap.Slot]
		require.False(t, dup, "%s and %s share slot %v", snap.Repo, other, snap.Slot)
		seen[snap.Slot] = snap.Repo
	}
	assert.Len(t, seen, 20)
}

func TestForm_Idempotent(t *testing.T) {
	svc, bus := newTestService(t)
	formed := 0
	bus.Subscribe(eventbus.TopicPlanetFormed, func(any) { formed++ })

	assert.True(t, svc.Form("a/b"))
	assert.False(t, svc.Form("a/b"))
	assert.False(t, svc.Form(""))

	assert.Equal(t, []string{"a/b"}, svc.Repos())
	assert.Equal(t, 1, formed)
}

func TestLayout_StableWithoutNewPlanets(t *testing.T) {
	svc, _ := newTestService(t)
	for _, repo := range []string{"a/a", "a/b", "a/c", "a/d", "a/e", "a/f"} {
		svc.Form(repo)
	}

	svc.Layout()
	first := svc.Snapshots()
	svc.Layout()
	svc.Layout()

	assert.Equal(t, first, svc.Snapshots())
}

func TestLayout_PublishesShowPlanet(t *testing.T) {
	svc, bus := newTestService(t)
	var shown []string
	var layouts []LayoutResult
	bus.Subscribe(eventbus.TopicShowPlanet, func(p any) { shown = append(shown, p.(*planet.Planet).Repo) })
	bus.Subscribe(eventbus.TopicSystemLayout, func(p any) { layouts = append(layouts, p.(LayoutResult)) })

	svc.Layout()
	assert.Empty(t, shown)

	svc.Form("a/b")
	svc.Form("a/c")
	svc.Layout()

	assert.Equal(t, []string{"a/b"}, shown)
	require.Len(t, layouts, 2)
	assert.Len(t, layouts[1].Planets, 2)
	assert.Equal(t, 1, layouts[1].Rings)
}

func TestReform_UnknownRepoIsNoop(t *testing.T) {
	svc, bus := newTestService(t)
	reformed := 0
	bus.Subscribe(eventbus.TopicPlanetReformed, func(any) { reformed++ })

	assert.NotPanics(t, func() { svc.Reform("ghost/repo", 2000) })

	_, ok := svc.GetPlanet("ghost/repo")
	assert.False(t, ok)
	assert.Zero(t, reformed)
}

func TestReform_UpdatesComplexityOnly(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Form("x/y")
	svc.Form("a/b")
	before, _ := svc.GetPlanet("a/b")
	slot, position := before.Slot, before.Position

	svc.Reform("a/b", 2000)

	after, ok := svc.GetPlanet("a/b")
	require.True(t, ok)
	assert.Equal(t, "a/b", after.Repo)
	assert.Equal(t, 2000.0, after.Complexity)
	assert.Equal(t, slot, after.Slot)
	assert.Equal(t, position, after.Position)
}

func TestLocate(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Form("a/b")

	pos, ok := svc.Locate("a/b")
	require.True(t, ok)
	assert.InDelta(t, 2000, pos.Distance(spatial.Origin), 1e-9)

	_, ok = svc.Locate("nope/nope")
	assert.False(t, ok)
}
