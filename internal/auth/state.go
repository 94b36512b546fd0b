package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"repo-universe/internal/shared/errors"
)

const stateTTL = 10 * time.Minute

// StateManager issues one-time OAuth state tokens bound to the browser that asked for them
type StateManager struct {
	states map[string]StateEntry
	ttl    time.Duration
	now    func() time.Time
	mutex  sync.Mutex
}

type StateEntry struct {
	CreatedAt time.Time
	UserAgent string
}

func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[string]StateEntry),
		ttl:    stateTTL,
		now:    time.Now,
	}
}

// GenerateState creates a new state token and stores it for validation
func (sm *StateManager) GenerateState(userAgent string) (string, error) {
	logger := slog.With("component", "state_manager", "operation", "generate")

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.WrapInternal("generate state token", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	sm.mutex.Lock()
	sm.states[state] = StateEntry{CreatedAt: sm.now(), UserAgent: userAgent}
	sm.mutex.Unlock()

	logger.Debug("OAuth state token generated", "state_length", len(state))
	return state, nil
}

// ValidateState consumes state; a token is accepted at most once
func (sm *StateManager) ValidateState(state, userAgent string) error {
	logger := slog.With("component", "state_manager", "operation", "validate")

	if state == "" {
		return errors.Unauthorized("state token is required")
	}

	sm.mutex.Lock()
	entry, exists := sm.states[state]
	delete(sm.states, state)
	now := sm.now()
	sm.mutex.Unlock()

	if !exists {
		logger.Warn("Invalid or reused state token")
		return errors.Unauthorized("invalid or expired state token")
	}

	if now.Sub(entry.CreatedAt) > sm.ttl {
		logger.Warn("Expired state token", "age", now.Sub(entry.CreatedAt))
		return errors.Unauthorized("state token has expired")
	}

	if entry.UserAgent != userAgent {
		// browsers update in place, so a mismatch is only worth a warning
		logger.Warn("State token user agent mismatch",
			"stored_user_agent", entry.UserAgent,
			"received_user_agent", userAgent)
	}

	return nil
}

// Run drops expired tokens every ttl/2 until ctx ends
func (sm *StateManager) Run(ctx context.Context) {
	ticker := time.NewTicker(sm.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.cleanupExpiredStates()
		}
	}
}

func (sm *StateManager) cleanupExpiredStates() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	now := sm.now()
	expired := 0
	for state, entry := range sm.states {
		if now.Sub(entry.CreatedAt) > sm.ttl {
			delete(sm.states, state)
			expired++
		}
	}

	if expired > 0 {
		slog.Debug("Cleaned up expired state tokens",
			"component", "state_manager",
			"expired_count", expired,
			"remaining_count", len(sm.states))
	}
}

// Pending returns the number of outstanding state tokens
func (sm *StateManager) Pending() int {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	return len(sm.states)
}
