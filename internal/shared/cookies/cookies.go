package cookies

import (
	"net/http"
	"net/url"
	"strings"

	"repo-universe/internal/shared/config"
)

// ViewerCookieName carries the viewer JWT for browser clients
const ViewerCookieName = "viewer_token"

func SetViewerCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	cookie := createViewerCookie(cfg)
	cookie.Value = token
	cookie.MaxAge = int(cfg.Auth.TokenExpiration.Seconds())

	http.SetCookie(w, cookie)
}

func ClearViewerCookie(w http.ResponseWriter, cfg *config.Config) {
	cookie := createViewerCookie(cfg)
	cookie.Value = ""
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

func createViewerCookie(cfg *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     ViewerCookieName,
		Path:     "/",
		Domain:   extractDomain(cfg.Frontend.URL),
		HttpOnly: true,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: parseSameSite(cfg.Auth.CookieSameSite),
	}
}

func extractDomain(frontendURL string) string {
	parsedURL, err := url.Parse(frontendURL)
	if err != nil || parsedURL.Host == "" {
		return ""
	}

	host := strings.Split(parsedURL.Host, ":")[0]
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	return host
}

func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
