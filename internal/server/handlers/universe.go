package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"repo-universe/internal/hud"
	"repo-universe/internal/planet"
	"repo-universe/internal/ship"
	"repo-universe/internal/shared/errors"
	"repo-universe/internal/shared/response"
)

// Caller runs fn on the thread that owns entity state and waits for it
type Caller interface {
	Call(ctx context.Context, fn func()) error
}

type PlanetLister interface {
	Snapshots() []planet.Snapshot
}

type ShipLister interface {
	Snapshots() []ship.Snapshot
}

type UniverseResponse struct {
	Planets []planet.Snapshot `json:"planets"`
	Ships   []ship.Snapshot   `json:"ships"`
}

type UniverseHandler struct {
	caller  Caller
	planets PlanetLister
	ships   ShipLister
}

func NewUniverseHandler(caller Caller, planets PlanetLister, ships ShipLister) *UniverseHandler {
	return &UniverseHandler{caller: caller, planets: planets, ships: ships}
}

func (h *UniverseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "universe", "operation", "snapshot")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var resp UniverseResponse
	err := h.caller.Call(r.Context(), func() {
		resp.Planets = h.planets.Snapshots()
		resp.Ships = h.ships.Snapshots()
	})
	if err != nil {
		response.ErrorWithMessage(w, r, logger, errors.WrapInternal("take universe snapshot", err), "universe unavailable")
		return
	}

	if resp.Planets == nil {
		resp.Planets = []planet.Snapshot{}
	}
	if resp.Ships == nil {
		resp.Ships = []ship.Snapshot{}
	}

	logger.Debug("Universe snapshot served", "planets", len(resp.Planets), "ships", len(resp.Ships))
	response.Success(w, http.StatusOK, resp)
}

type StatsSource interface {
	Snapshot() hud.Stats
}

type HUDHandler struct {
	caller Caller
	stats  StatsSource
}

func NewHUDHandler(caller Caller, stats StatsSource) *HUDHandler {
	return &HUDHandler{caller: caller, stats: stats}
}

func (h *HUDHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "hud")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var stats hud.Stats
	if err := h.caller.Call(r.Context(), func() { stats = h.stats.Snapshot() }); err != nil {
		response.ErrorWithMessage(w, r, logger, errors.WrapInternal("read hud", err), "universe unavailable")
		return
	}

	response.Success(w, http.StatusOK, stats)
}
