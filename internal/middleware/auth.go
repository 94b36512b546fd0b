package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"repo-universe/internal/auth"
	"repo-universe/internal/shared/cookies"
	"repo-universe/internal/shared/errors"
	"repo-universe/internal/shared/response"
)

type contextKey string

const ViewerContextKey contextKey = "viewer"

// JWTMiddleware requires a viewer token in the Authorization header, the viewer cookie,
// or the token query parameter for websocket clients that cannot set headers
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			logger.Debug("Processing JWT authentication")

			token := bearerToken(r)
			if token == "" {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := auth.ValidateJWT(token, secret)
			if err != nil {
				response.Error(w, r, logger, errors.Unauthorized("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ViewerContextKey, claims)
			logger.Debug("JWT authentication successful", "viewer", claims.Viewer)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetViewerFromContext returns the authenticated viewer, or nil when auth is disabled
func GetViewerFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ViewerContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(cookies.ViewerCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}
