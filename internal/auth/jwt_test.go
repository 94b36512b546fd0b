package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT("terry", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "terry", claims.Viewer)
	assert.Equal(t, "viewer_terry", claims.Subject)
}

func TestValidate_Rejects(t *testing.T) {
	valid, err := GenerateJWT("terry", testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT("terry", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, strings.Repeat("x", 32)},
		{"expired", expired, testSecret},
		{"garbage", "not.a.token", testSecret},
		{"short secret", valid, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_RequiresViewerAndSecret(t *testing.T) {
	_, err := GenerateJWT("", testSecret, time.Hour)
	assert.Error(t, err)

	_, err = GenerateJWT("terry", "", time.Hour)
	assert.Error(t, err)
}
