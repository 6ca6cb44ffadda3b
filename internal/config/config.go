package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevDatabaseURL is the fallback connection string used outside production.
const DevDatabaseURL = "postgres://localhost:5432/cloudgather?sslmode=disable"

const devSessionSecret = "change-me-in-production-min-32-chars"

// Auth provider names.
const (
	AuthProviderLocal  = "local"
	AuthProviderHosted = "hosted"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
type Config struct {
	// Environment
	Env string `mapstructure:"ENV"` // "development", "production", etc.

	// Server
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	BaseURL    string `mapstructure:"BASE_URL"` // also used to build password-reset links

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis backs sessions and rate limiting when set; memory otherwise.
	RedisURL string `mapstructure:"REDIS_URL"`

	// TLS
	TLSEnabled  bool   `mapstructure:"TLS_ENABLED"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"` // "json" or "text"

	// Session
	SessionSecret string        `mapstructure:"SESSION_SECRET"` // cookie encryption (min 32 chars)
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	// CORS
	CORSOrigins string `mapstructure:"CORS_ORIGINS"` // comma-separated

	// Identity provider
	AuthProvider     string        `mapstructure:"AUTH_PROVIDER"` // "local" or "hosted"
	AuthURL          string        `mapstructure:"AUTH_URL"`      // hosted auth base URL, e.g. https://x.supabase.co/auth/v1
	AuthAnonKey      string        `mapstructure:"AUTH_ANON_KEY"`
	AuthJWKSURL      string        `mapstructure:"AUTH_JWKS_URL"`
	AuthIssuer       string        `mapstructure:"AUTH_ISSUER"`
	ResetTokenSecret string        `mapstructure:"RESET_TOKEN_SECRET"`
	ResetTokenTTL    time.Duration `mapstructure:"RESET_TOKEN_TTL"`

	// OIDC single sign-on (optional)
	OIDCIssuer       string `mapstructure:"OIDC_ISSUER"`
	OIDCClientID     string `mapstructure:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `mapstructure:"OIDC_REDIRECT_URL"`

	// SMTP
	SMTPEnabled  bool   `mapstructure:"SMTP_ENABLED"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	SMTPFromName string `mapstructure:"SMTP_FROM_NAME"`
	SMTPTLS      string `mapstructure:"SMTP_TLS"` // "none", "tls", "starttls"

	// Live feed
	LivePollInterval time.Duration `mapstructure:"LIVE_POLL_INTERVAL"`

	// Development seed data
	SeedFile    string `mapstructure:"SEED_FILE"`
	SeedDevData bool   `mapstructure:"SEED_DEV_DATA"`

	// Site Branding
	SiteTitle string `mapstructure:"SITE_TITLE"`
}

var defaults = map[string]any{
	"ENV":                "development",
	"SERVER_ADDR":        ":3000",
	"BASE_URL":           "http://localhost:3000",
	"DATABASE_URL":       "",
	"REDIS_URL":          "",
	"TLS_ENABLED":        false,
	"TLS_CERT_FILE":      "",
	"TLS_KEY_FILE":       "",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "",
	"SESSION_SECRET":     devSessionSecret,
	"SESSION_TTL":        "168h",
	"CORS_ORIGINS":       "",
	"AUTH_PROVIDER":      AuthProviderLocal,
	"AUTH_URL":           "",
	"AUTH_ANON_KEY":      "",
	"AUTH_JWKS_URL":      "",
	"AUTH_ISSUER":        "",
	"RESET_TOKEN_SECRET": "",
	"RESET_TOKEN_TTL":    "1h",
	"OIDC_ISSUER":        "",
	"OIDC_CLIENT_ID":     "",
	"OIDC_CLIENT_SECRET": "",
	"OIDC_REDIRECT_URL":  "http://localhost:3000/auth/sso/callback",
	"SMTP_ENABLED":       false,
	"SMTP_HOST":          "",
	"SMTP_PORT":          587,
	"SMTP_USERNAME":      "",
	"SMTP_PASSWORD":      "",
	"SMTP_FROM":          "",
	"SMTP_FROM_NAME":     "",
	"SMTP_TLS":           "starttls",
	"LIVE_POLL_INTERVAL": "30s",
	"SEED_FILE":          "seed.yaml",
	"SEED_DEV_DATA":      false,
	"SITE_TITLE":         "CloudGather",
}

// Load reads .env files (if present), an optional config.yaml, and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// Missing dotenv files are fine; real deployments use the environment.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.DatabaseURL == "" && !cfg.IsProduction() {
		cfg.DatabaseURL = DevDatabaseURL
	}
	cfg.AuthProvider = strings.ToLower(cfg.AuthProvider)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that must never reach a live deployment.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	switch c.AuthProvider {
	case AuthProviderLocal:
		if c.IsProduction() && len(c.ResetTokenSecret) < 32 {
			return errors.New("RESET_TOKEN_SECRET must be at least 32 characters in production")
		}
	case AuthProviderHosted:
		if c.AuthURL == "" {
			return errors.New("AUTH_URL is required when AUTH_PROVIDER=hosted")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.IsProduction() {
		if c.DatabaseURL == DevDatabaseURL {
			return errors.New("DATABASE_URL must be set explicitly in production")
		}
		if c.SessionSecret == devSessionSecret || len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be set to at least 32 characters in production")
		}
	}
	return nil
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// IsEmailEnabled returns true if SMTP is fully configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsSSOEnabled returns true if OIDC single sign-on is configured.
func (c *Config) IsSSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// ResetPasswordURL is where password-reset emails send the user.
func (c *Config) ResetPasswordURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/reset-password"
}
