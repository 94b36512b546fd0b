package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"repo-universe/internal/shared/config"
	"repo-universe/internal/shared/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

type GitHubUser struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// GitHubProvider resolves a GitHub sign-in to the viewer's login
type GitHubProvider struct {
	config  *oauth2.Config
	userURL string
}

func NewGitHubProvider(cfg config.AuthConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		userURL: githubUserURL,
	}
}

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.WrapExternal("exchange github code", err)
	}
	return token, nil
}

// User fetches the profile of the token's owner
func (p *GitHubProvider) User(ctx context.Context, token *oauth2.Token) (*GitHubUser, error) {
	logger := slog.With("provider", "github", "operation", "get_user")
	logger.Debug("Requesting user info from GitHub API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, errors.WrapInternal("build github user request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, errors.WrapExternal("request github user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.External("github user endpoint returned " + resp.Status)
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.WrapExternal("decode github user", err)
	}
	if user.Login == "" {
		return nil, errors.External("github user has no login")
	}

	logger.Debug("GitHub user resolved", "login", user.Login, "github_user_id", user.ID)
	return &user, nil
}
