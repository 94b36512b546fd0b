package universe

import (
	"encoding/json"
	"log/slog"

	"repo-universe/internal/eventbus"
	apperrors "repo-universe/internal/shared/errors"
	"repo-universe/internal/shipyard"
)

// Channel is the bidirectional message channel to the activity feed
type Channel interface {
	Send(msgType string, payload any) error
	On(msgType string, handler func(payload json.RawMessage))
}

// Fleet is the ship population the coordinator drives
type Fleet interface {
	Commission(logins []string) int
	Dispatch(login, repo string) bool
	Attack(login string, added, modified, removed shipyard.FileStats) bool
}

// Celestial is the planet population the coordinator drives
type Celestial interface {
	Form(repo string) bool
	Layout()
	Reform(repo string, complexity float64)
	Repos() []string
}

// Identity is who the coordinator logs in as and what it tracks from the start
type Identity struct {
	Login string
	Repos []string
}

// Service translates feed messages into fleet and system operations
type Service struct {
	identity Identity
	channel  Channel
	bus      *eventbus.Bus
	fleet    Fleet
	system   Celestial
	logger   *slog.Logger
}

func NewService(identity Identity, channel Channel, bus *eventbus.Bus, fleet Fleet, system Celestial, logger *slog.Logger) *Service {
	logger.Debug("Initializing universe service", "login", identity.Login)

	return &Service{
		identity: identity,
		channel:  channel,
		bus:      bus,
		fleet:    fleet,
		system:   system,
		logger:   logger.With("component", "universe_service"),
	}
}

// Start registers the message handlers on the channel
func (s *Service) Start() {
	s.channel.On(MessageOpen, func(json.RawMessage) { s.HandleOpen() })
	s.channel.On(MessageRepos, decoded(s, MessageRepos, s.HandleRepos))
	s.channel.On(MessageCommitters, decoded(s, MessageCommitters, s.HandleCommitters))
	s.channel.On(MessageCommits, decoded(s, MessageCommits, s.HandleCommits))
	s.channel.On(MessageComplexity, decoded(s, MessageComplexity, s.HandleComplexity))

	s.logger.Info("Universe listening", "messages", []string{
		MessageOpen, MessageRepos, MessageCommitters, MessageCommits, MessageComplexity,
	})
}

// HandleOpen logs in and subscribes to configured plus already formed repos
// It runs on every (re)connect
func (s *Service) HandleOpen() {
	logger := s.logger.With("operation", "open")

	repos := mergeRepos(s.identity.Repos, s.system.Repos())

	s.send(logger, MessageLogin, LoginMessage{Login: s.identity.Login})
	s.send(logger, MessageSubscribe, SubscribeMessage{Repos: repos})

	logger.Info("Connected to feed", "login", s.identity.Login, "repos", len(repos))
	s.bus.Publish(eventbus.TopicUniverseOpen, Open{Login: s.identity.Login, Repos: repos})
}

// HandleRepos forms a planet per repo, lays the system out once, and subscribes to the new ones
func (s *Service) HandleRepos(payload ReposPayload) {
	logger := s.logger.With("operation", "repos")

	var formed []string
	for _, r := range payload.Repos {
		if s.system.Form(r.FullName) {
			formed = append(formed, r.FullName)
		}
	}
	s.system.Layout()

	logger.Debug("Repos received", "received", len(payload.Repos), "formed", len(formed))
	if len(formed) > 0 {
		s.send(logger, MessageSubscribe, SubscribeMessage{Repos: formed})
	}
}

// HandleCommitters commissions ships and sends each committer to the repo's planet
func (s *Service) HandleCommitters(payload CommittersPayload) {
	logins := make([]string, 0, len(payload.Committers))
	for _, c := range payload.Committers {
		logins = append(logins, c.Login)
	}

	s.fleet.Commission(logins)
	for _, login := range logins {
		s.fleet.Dispatch(login, payload.Repo)
	}
}

// HandleCommits sends each committer to the repo's planet and orders a fire on arrival
// Commits for an unknown ship or an unformed planet are ignored entirely
func (s *Service) HandleCommits(payload CommitsPayload) {
	for _, c := range payload.Commits {
		if !s.fleet.Dispatch(c.Committer, payload.Repo) {
			s.logger.Debug("Ignoring commit without a ship and planet", "operation", "commits",
				"login", c.Committer, "repo", payload.Repo)
			continue
		}
		s.fleet.Attack(c.Committer, c.Added, c.Modified, c.Removed)
	}
}

func (s *Service) HandleComplexity(payload ComplexityPayload) {
	s.system.Reform(payload.Repo, payload.Complexity)
}

func (s *Service) send(logger *slog.Logger, msgType string, payload any) {
	if err := s.channel.Send(msgType, payload); err != nil {
		err = apperrors.WrapExternal("send "+msgType, err)
		logger.Error("Failed to send message", "type", msgType, "error", err)
	}
}

// decoded adapts a typed handler to the channel's raw payloads; malformed payloads are logged and dropped
func decoded[T any](s *Service, msgType string, handle func(T)) func(json.RawMessage) {
	return func(raw json.RawMessage) {
		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			err = apperrors.WrapValidation("decode "+msgType+" payload", err)
			s.logger.Error("Dropping malformed message", "type", msgType, "error", err)
			return
		}
		handle(payload)
	}
}

// mergeRepos concatenates repo lists, keeping first occurrences in order
func mergeRepos(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, r := range list {
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
