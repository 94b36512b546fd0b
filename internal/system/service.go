package system

import (
	"log/slog"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/planet"
	"repo-universe/internal/spatial"
)

// Service manages the planet population
type Service struct {
	repo      *Repository
	allocator *spatial.Allocator
	bus       *eventbus.Bus
	logger    *slog.Logger
}

func NewService(repo *Repository, allocator *spatial.Allocator, bus *eventbus.Bus, logger *slog.Logger) *Service {
	logger.Debug("Initializing system service")

	return &Service{
		repo:      repo,
		allocator: allocator,
		bus:       bus,
		logger:    logger.With("component", "system_service"),
	}
}

// Form creates a planet for repo unless one exists; it reports whether a planet was created
func (s *Service) Form(repo string) bool {
	logger := s.logger.With("operation", "form", "repo", repo)

	if repo == "" {
		logger.Warn("Ignoring planet without a repository name")
		return false
	}

	if _, exists := s.repo.GetPlanet(repo); exists {
		logger.Debug("Planet already formed")
		return false
	}

	slot := s.allocator.Allocate()
	p := planet.New(repo, slot, s.allocator.Position(slot))
	if err := s.repo.AddPlanet(p); err != nil {
		logger.Warn("Planet not stored", "error", err)
		return false
	}

	logger.Debug("Planet formed", "ring", slot.Ring, "index", slot.Index)
	s.bus.Publish(eventbus.TopicPlanetFormed, p)
	return true
}

// Layout reallocates slots for every known planet in formation order
// Running it without new planets reproduces the same slots
func (s *Service) Layout() {
	logger := s.logger.With("operation", "layout")

	planets := s.repo.GetAllPlanets()
	s.allocator.Reset()

	result := LayoutResult{Planets: make([]planet.Snapshot, 0, len(planets))}
	for _, p := range planets {
		p.Slot = s.allocator.Allocate()
		p.Position = s.allocator.Position(p.Slot)
		result.Planets = append(result.Planets, p.Snapshot())
		result.Rings = p.Slot.Ring + 1
	}

	logger.Info("Layout complete", "planets", len(planets), "rings", result.Rings)
	s.bus.Publish(eventbus.TopicSystemLayout, result)

	if len(planets) > 0 {
		s.bus.Publish(eventbus.TopicShowPlanet, planets[0])
	}
}

// Reform updates the complexity of a formed planet; unknown repos are ignored
func (s *Service) Reform(repo string, complexity float64) {
	logger := s.logger.With("operation", "reform", "repo", repo)

	p, ok := s.repo.GetPlanet(repo)
	if !ok {
		logger.Debug("Ignoring complexity for unformed planet", "complexity", complexity)
		return
	}

	p.Complexity = complexity
	logger.Debug("Planet reformed", "complexity", complexity, "scale", p.Scale())
	s.bus.Publish(eventbus.TopicPlanetReformed, p)
}

// Locate returns the current position of the planet for repo
func (s *Service) Locate(repo string) (spatial.Vector, bool) {
	p, ok := s.repo.GetPlanet(repo)
	if !ok {
		return spatial.Vector{}, false
	}
	return p.Position, true
}

func (s *Service) GetPlanet(repo string) (*planet.Planet, bool) {
	return s.repo.GetPlanet(repo)
}

// Repos returns the names of all formed planets in formation order
func (s *Service) Repos() []string {
	planets := s.repo.GetAllPlanets()
	names := make([]string, len(planets))
	for i, p := range planets {
		names[i] = p.Repo
	}
	return names
}

func (s *Service) Snapshots() []planet.Snapshot {
	planets := s.repo.GetAllPlanets()
	out := make([]planet.Snapshot, len(planets))
	for i, p := range planets {
		out[i] = p.Snapshot()
	}
	return out
}
