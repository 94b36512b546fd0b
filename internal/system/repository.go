package system

import (
	"log/slog"

	"repo-universe/internal/planet"
	"repo-universe/internal/shared/errors"
)

// Repository is the in-memory planet registry, keyed by repository full name
// Iteration follows formation order
type Repository struct {
	planets map[string]*planet.Planet
	order   []*planet.Planet
	logger  *slog.Logger
}

func NewRepository(logger *slog.Logger) *Repository {
	logger.Debug("Initializing system repository")

	return &Repository{
		planets: make(map[string]*planet.Planet),
		logger:  logger.With("component", "system_repository"),
	}
}

func (r *Repository) GetPlanet(repo string) (*planet.Planet, bool) {
	p, ok := r.planets[repo]
	return p, ok
}

// AddPlanet stores p; a known repo is a conflict and leaves the registry untouched
func (r *Repository) AddPlanet(p *planet.Planet) error {
	logger := r.logger.With("operation", "add_planet", "repo", p.Repo)

	if _, exists := r.planets[p.Repo]; exists {
		logger.Debug("Planet already stored")
		return errors.Conflictf("planet %s already formed", p.Repo)
	}
	r.planets[p.Repo] = p
	r.order = append(r.order, p)

	logger.Debug("Planet stored", "planet_count", len(r.order))
	return nil
}

// GetAllPlanets returns planets in formation order
func (r *Repository) GetAllPlanets() []*planet.Planet {
	out := make([]*planet.Planet, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Repository) GetPlanetCount() int {
	return len(r.order)
}
