package handlers

import (
	"log/slog"
	"net/http"

	"repo-universe/internal/planet"
	"repo-universe/internal/shared/errors"
	"repo-universe/internal/shared/response"
)

type Navigator interface {
	Next() (*planet.Planet, bool)
	Previous() (*planet.Planet, bool)
}

type NavigationResponse struct {
	Focus *planet.Snapshot `json:"focus"`
}

type NavigationHandler struct {
	caller    Caller
	navigator Navigator
}

func NewNavigationHandler(caller Caller, navigator Navigator) *NavigationHandler {
	return &NavigationHandler{caller: caller, navigator: navigator}
}

// ServeHTTP handles POST /api/navigation/{direction} where direction is next or previous
func (h *NavigationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	direction := r.PathValue("direction")
	logger := slog.With("handler", "navigation", "direction", direction)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var move func() (*planet.Planet, bool)
	switch direction {
	case "next":
		move = h.navigator.Next
	case "previous":
		move = h.navigator.Previous
	default:
		response.Error(w, r, logger, errors.Validationf("unknown direction %q", direction))
		return
	}

	var resp NavigationResponse
	err := h.caller.Call(r.Context(), func() {
		if p, ok := move(); ok {
			snapshot := p.Snapshot()
			resp.Focus = &snapshot
		}
	})
	if err != nil {
		response.ErrorWithMessage(w, r, logger, errors.WrapInternal("move focus", err), "universe unavailable")
		return
	}

	if resp.Focus == nil {
		response.Error(w, r, logger, errors.NotFoundf("no planets formed"))
		return
	}

	logger.Debug("Focus moved", "repo", resp.Focus.Repo)
	response.Success(w, http.StatusOK, resp)
}
