package shipyard

import (
	"log/slog"

	"repo-universe/internal/eventbus"
	"repo-universe/internal/ship"
	"repo-universe/internal/spatial"
)

// Locator resolves a repository to its planet's current position
type Locator interface {
	Locate(repo string) (spatial.Vector, bool)
}

// Service manages the ship population
type Service struct {
	repo     *Repository
	locator  Locator
	traveler ship.Traveler
	policy   FirePolicy
	bus      *eventbus.Bus
	logger   *slog.Logger
}

// NewService builds a shipyard; a nil policy selects DefaultFirePolicy
func NewService(repo *Repository, locator Locator, traveler ship.Traveler, policy FirePolicy, bus *eventbus.Bus, logger *slog.Logger) *Service {
	logger.Debug("Initializing shipyard service")

	if policy == nil {
		policy = DefaultFirePolicy
	}

	return &Service{
		repo:     repo,
		locator:  locator,
		traveler: traveler,
		policy:   policy,
		bus:      bus,
		logger:   logger.With("component", "shipyard_service"),
	}
}

// Commission creates an idle ship at the origin for every login not yet seen
// It returns how many ships were created
func (s *Service) Commission(logins []string) int {
	logger := s.logger.With("operation", "commission")

	created := 0
	for _, login := range logins {
		if login == "" {
			logger.Warn("Ignoring committer without a login")
			continue
		}
		if _, exists := s.repo.GetShip(login); exists {
			continue
		}

		sh := ship.New(login, spatial.Origin, s.traveler, s.fire, s.stateChanged)
		if err := s.repo.AddShip(sh); err != nil {
			logger.Warn("Ship not stored", "login", login, "error", err)
			continue
		}
		created++

		logger.Debug("Ship commissioned", "login", login)
		s.bus.Publish(eventbus.TopicShipCommissioned, sh.Snapshot())
	}

	if created > 0 {
		logger.Info("Fleet expanded", "created", created, "fleet_size", s.repo.GetShipCount())
	}
	return created
}

// Dispatch sends the ship for login to the planet for repo
// Unknown ships and unformed planets are ignored; it reports whether a jump was queued
func (s *Service) Dispatch(login, repo string) bool {
	logger := s.logger.With("operation", "dispatch", "login", login, "repo", repo)

	sh, ok := s.repo.GetShip(login)
	if !ok {
		logger.Debug("Ignoring dispatch for uncommissioned ship")
		return false
	}

	dest, ok := s.locator.Locate(repo)
	if !ok {
		logger.Debug("Ignoring dispatch to unformed planet")
		return false
	}

	sh.Dispatch(dest)
	logger.Debug("Ship dispatched", "pending", sh.Pending())
	s.bus.Publish(eventbus.TopicShipDispatched, Dispatch{Login: login, Repo: repo, Destination: dest})
	return true
}

// Attack orders the ship for login to fire once its queued jumps complete
// Unknown ships are ignored and never created; it reports whether a fire was queued
func (s *Service) Attack(login string, added, modified, removed FileStats) bool {
	logger := s.logger.With("operation", "attack", "login", login)

	sh, ok := s.repo.GetShip(login)
	if !ok {
		logger.Debug("Ignoring attack for uncommissioned ship")
		return false
	}

	magnitude, severity := s.policy(added, modified, removed)
	sh.Attack(magnitude, severity)
	logger.Debug("Attack queued", "magnitude", magnitude, "severity", severity, "pending", sh.Pending())
	return true
}

func (s *Service) GetShip(login string) (*ship.Ship, bool) {
	return s.repo.GetShip(login)
}

func (s *Service) Snapshots() []ship.Snapshot {
	ships := s.repo.GetAllShips()
	out := make([]ship.Snapshot, len(ships))
	for i, sh := range ships {
		out[i] = sh.Snapshot()
	}
	return out
}

func (s *Service) fire(shot ship.Shot) {
	s.bus.Publish(eventbus.TopicShipFire, shot)
}

func (s *Service) stateChanged(change ship.StateChange) {
	s.bus.Publish(eventbus.TopicShipState, change)
}
