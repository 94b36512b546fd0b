package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"repo-universe/internal/shared/config"
	"repo-universe/internal/shared/cookies"
)

// LoginHandler signs viewers in with GitHub and hands them a viewer token cookie
type LoginHandler struct {
	provider *GitHubProvider
	states   *StateManager
	config   *config.Config
}

func NewLoginHandler(provider *GitHubProvider, states *StateManager, cfg *config.Config) *LoginHandler {
	return &LoginHandler{provider: provider, states: states, config: cfg}
}

// HandleAuth starts the GitHub OAuth flow
func (h *LoginHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "github_login_init", "ip", r.RemoteAddr)

	if !h.config.GitHubLoginConfigured() {
		logger.Error("GitHub login not configured")
		http.Error(w, "GitHub login is not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := h.states.GenerateState(r.UserAgent())
	if err != nil {
		logger.Error("Failed to generate state token", "error", err)
		http.Error(w, "Failed to initialize login", http.StatusInternalServerError)
		return
	}

	logger.Info("Initiating GitHub login")
	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the flow and redirects back to the frontend
func (h *LoginHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	logger := slog.With("handler", "github_login_callback", "ip", r.RemoteAddr, "has_code", code != "")

	if oauthErr := query.Get("error"); oauthErr != "" {
		logger.Warn("GitHub login denied", "oauth_error", oauthErr)
		h.redirectWithError(w, r, "oauth_denied", "Authorization was denied")
		return
	}

	if code == "" {
		h.redirectWithError(w, r, "oauth_error", "Missing authorization code")
		return
	}

	if err := h.states.ValidateState(query.Get("state"), r.UserAgent()); err != nil {
		logger.Warn("OAuth state validation failed", "error", err)
		h.redirectWithError(w, r, "oauth_error", "Invalid request state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		h.redirectWithError(w, r, "oauth_error", "Failed to exchange authorization code")
		return
	}

	user, err := h.provider.User(ctx, token)
	if err != nil {
		logger.Error("Failed to resolve GitHub user", "error", err)
		h.redirectWithError(w, r, "oauth_error", "Failed to retrieve user information")
		return
	}

	viewerToken, err := GenerateJWT(user.Login, h.config.Auth.JWTSecret, h.config.Auth.TokenExpiration)
	if err != nil {
		logger.Error("Failed to mint viewer token", "error", err)
		h.redirectWithError(w, r, "auth_error", "Failed to create authentication token")
		return
	}

	cookies.SetViewerCookie(w, h.config, viewerToken)

	logger.Info("Viewer signed in with GitHub", "viewer", user.Login)
	http.Redirect(w, r, h.config.Frontend.URL+"/auth/callback?success=true", http.StatusTemporaryRedirect)
}

// HandleLogout clears the viewer cookie
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookies.ClearViewerCookie(w, h.config)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoginHandler) redirectWithError(w http.ResponseWriter, r *http.Request, errorType, message string) {
	target := fmt.Sprintf("%s/auth/error?error=%s&message=%s",
		h.config.Frontend.URL, url.QueryEscape(errorType), url.QueryEscape(message))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
