package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_USERNAME", "carlmw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8080", cfg.Client.Host)
	assert.Equal(t, 2000.0, cfg.Orbit.Radius)
	assert.Equal(t, 8, cfg.Orbit.RingCapacity)
	assert.Equal(t, 5*time.Second, cfg.Orbit.JumpDuration)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.GitHub.Repos)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GITHUB_USERNAME", "terry")
	t.Setenv("GITHUB_REPOS", "terry/a, terry/b ,,")
	t.Setenv("CLIENT_HOST", "wss://feed.example.com")
	t.Setenv("ORBIT_RING_CAPACITY", "12")
	t.Setenv("ORBIT_JUMP_DURATION", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"terry/a", "terry/b"}, cfg.GitHub.Repos)
	assert.Equal(t, "wss://feed.example.com", cfg.Client.Host)
	assert.Equal(t, 12, cfg.Orbit.RingCapacity)
	assert.Equal(t, 750*time.Millisecond, cfg.Orbit.JumpDuration)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing username", map[string]string{"GITHUB_USERNAME": ""}},
		{"http host", map[string]string{"CLIENT_HOST": "http://localhost:8080"}},
		{"zero ring capacity", map[string]string{"ORBIT_RING_CAPACITY": "0"}},
		{"negative radius", map[string]string{"ORBIT_RADIUS": "-1"}},
		{"short secret", map[string]string{"AUTH_ENABLED": "true", "JWT_SECRET": "short"}},
		{"inverted backoff", map[string]string{"CLIENT_RECONNECT_MIN": "10s", "CLIENT_RECONNECT_MAX": "1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_USERNAME", "carlmw")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
