package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"repo-universe/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetViewerCookie(t *testing.T) {
	cfg := &config.Config{
		Frontend: config.FrontendConfig{URL: "https://universe.example.com:443"},
		Auth:     config.AuthConfig{TokenExpiration: time.Hour, CookieSecure: true, CookieSameSite: "strict"},
	}
	rec := httptest.NewRecorder()

	SetViewerCookie(rec, cfg, "abc")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, ViewerCookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "universe.example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestClearViewerCookie(t *testing.T) {
	cfg := &config.Config{Frontend: config.FrontendConfig{URL: "http://localhost:3000"}}
	rec := httptest.NewRecorder()

	ClearViewerCookie(rec, cfg)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Domain)
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, parseSameSite("strict"))
	assert.Equal(t, http.SameSiteNoneMode, parseSameSite("none"))
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite(""))
}
