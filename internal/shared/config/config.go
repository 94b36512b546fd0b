package config

import (
	"fmt"
	"net/url"
	"time"

	"repo-universe/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Client    ClientConfig
	GitHub    GitHubConfig
	Orbit     OrbitConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ClientConfig describes the upstream activity feed connection
type ClientConfig struct {
	Host             string
	AccessToken      string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReconnectMin     time.Duration
	ReconnectMax     time.Duration
}

type GitHubConfig struct {
	Username string
	Repos    []string
}

type OrbitConfig struct {
	Radius       float64
	RingCapacity int
	JumpDuration time.Duration
}

type RedisConfig struct {
	Enabled       bool
	URL           string
	Host          string
	Port          string
	Password      string
	DB            int
	ChannelPrefix string
	BufferSize    int
}

type AuthConfig struct {
	Enabled            bool
	JWTSecret          string
	TokenExpiration    time.Duration
	CookieSecure       bool
	CookieSameSite     string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load reads the environment into a validated Config without touching GlobalConfig
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Client:    loadClientConfig(),
		GitHub:    loadGitHubConfig(),
		Orbit:     loadOrbitConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8090"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  utils.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}
}

func loadClientConfig() ClientConfig {
	return ClientConfig{
		Host:             utils.GetEnv("CLIENT_HOST", "ws://localhost:8080"),
		AccessToken:      utils.GetEnv("CLIENT_ACCESS_TOKEN", ""),
		HandshakeTimeout: utils.GetEnvDuration("CLIENT_HANDSHAKE_TIMEOUT", 10*time.Second),
		WriteTimeout:     utils.GetEnvDuration("CLIENT_WRITE_TIMEOUT", 5*time.Second),
		ReconnectMin:     utils.GetEnvDuration("CLIENT_RECONNECT_MIN", time.Second),
		ReconnectMax:     utils.GetEnvDuration("CLIENT_RECONNECT_MAX", 30*time.Second),
	}
}

func loadGitHubConfig() GitHubConfig {
	return GitHubConfig{
		Username: utils.GetEnv("GITHUB_USERNAME", ""),
		Repos:    utils.GetEnvList("GITHUB_REPOS"),
	}
}

func loadOrbitConfig() OrbitConfig {
	return OrbitConfig{
		Radius:       utils.GetEnvFloat("ORBIT_RADIUS", 2000),
		RingCapacity: utils.GetEnvInt("ORBIT_RING_CAPACITY", 8),
		JumpDuration: utils.GetEnvDuration("ORBIT_JUMP_DURATION", 5*time.Second),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:       utils.GetEnvBool("REDIS_ENABLED", false),
		URL:           utils.GetEnv("REDIS_URL", ""),
		Host:          utils.GetEnv("REDIS_HOST", "localhost"),
		Port:          utils.GetEnv("REDIS_PORT", "6379"),
		Password:      utils.GetEnv("REDIS_PASSWORD", ""),
		DB:            utils.GetEnvInt("REDIS_DB", 0),
		ChannelPrefix: utils.GetEnv("REDIS_CHANNEL_PREFIX", "universe:"),
		BufferSize:    utils.GetEnvInt("REDIS_BUFFER_SIZE", 256),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:            utils.GetEnvBool("AUTH_ENABLED", false),
		JWTSecret:          utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration:    utils.GetEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		CookieSecure:       utils.GetEnvBool("COOKIE_SECURE", utils.GetEnv("ENVIRONMENT", "development") == "production"),
		CookieSameSite:     utils.GetEnv("COOKIE_SAME_SITE", "lax"),
		GitHubClientID:     utils.GetEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: utils.GetEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL:  utils.GetEnv("GITHUB_REDIRECT_URL", "http://localhost:8090/auth/github/callback"),
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnvBool("CORS_DEBUG", false),
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: utils.GetEnvBool("LOG_JSON", environment == "production"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.GitHub.Username == "" {
		return fmt.Errorf("GITHUB_USERNAME is required")
	}

	host, err := url.Parse(c.Client.Host)
	if err != nil {
		return fmt.Errorf("CLIENT_HOST is not a valid URL: %w", err)
	}
	if host.Scheme != "ws" && host.Scheme != "wss" {
		return fmt.Errorf("CLIENT_HOST must use ws:// or wss://, got %q", c.Client.Host)
	}

	if c.Orbit.RingCapacity < 1 {
		return fmt.Errorf("ORBIT_RING_CAPACITY must be at least 1")
	}

	if c.Orbit.Radius <= 0 {
		return fmt.Errorf("ORBIT_RADIUS must be positive")
	}

	if c.Client.ReconnectMin <= 0 || c.Client.ReconnectMax < c.Client.ReconnectMin {
		return fmt.Errorf("CLIENT_RECONNECT_MIN must be positive and not exceed CLIENT_RECONNECT_MAX")
	}

	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long when AUTH_ENABLED is set")
	}

	return nil
}

// GitHubLoginConfigured reports whether viewers can sign in with GitHub
func (c *Config) GitHubLoginConfigured() bool {
	return c.Auth.Enabled && c.Auth.GitHubClientID != "" && c.Auth.GitHubClientSecret != ""
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
