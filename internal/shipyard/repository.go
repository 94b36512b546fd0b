package shipyard

import (
	"log/slog"

	"repo-universe/internal/shared/errors"
	"repo-universe/internal/ship"
)

// Repository is the in-memory ship registry, keyed by contributor login
// Ships are never removed
type Repository struct {
	ships  map[string]*ship.Ship
	order  []*ship.Ship
	logger *slog.Logger
}

func NewRepository(logger *slog.Logger) *Repository {
	logger.Debug("Initializing shipyard repository")

	return &Repository{
		ships:  make(map[string]*ship.Ship),
		logger: logger.With("component", "shipyard_repository"),
	}
}

func (r *Repository) GetShip(login string) (*ship.Ship, bool) {
	s, ok := r.ships[login]
	return s, ok
}

// AddShip stores s; a known login is a conflict and leaves the registry untouched
func (r *Repository) AddShip(s *ship.Ship) error {
	logger := r.logger.With("operation", "add_ship", "login", s.Login)

	if _, exists := r.ships[s.Login]; exists {
		logger.Debug("Ship already stored")
		return errors.Conflictf("ship %s already commissioned", s.Login)
	}
	r.ships[s.Login] = s
	r.order = append(r.order, s)

	logger.Debug("Ship stored", "ship_count", len(r.order))
	return nil
}

// GetAllShips returns ships in commission order
func (r *Repository) GetAllShips() []*ship.Ship {
	out := make([]*ship.Ship, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Repository) GetShipCount() int {
	return len(r.order)
}
