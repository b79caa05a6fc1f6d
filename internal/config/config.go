// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort            = 3000
	DefaultSMTPPort        = 587
	DefaultNotifyEmail     = "amattis@mattisco.com"
	DefaultSenderName      = "58Nights Media"
	DefaultResendFrom      = "58Nights Media <onboarding@resend.dev>"
	DefaultSubmissionsFile = "submissions.json"
)

// Notifier backends.
const (
	NotifierSMTP   = "smtp"
	NotifierResend = "resend"
	NotifierLog    = "log"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreNone     = "none"
)

// SMTPConfig configures the SMTP relay notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (typically port 465)
	User     string
	Pass     string
	From     string
	FromName string

	// XOAUTH2 mode; used instead of Pass when RefreshToken is set.
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRefreshToken string
	OAuthTokenURL     string
}

// ResendConfig configures the Resend transactional API notifier.
type ResendConfig struct {
	APIKey  string
	From    string
	BaseURL string
}

// Config is the full service configuration.
type Config struct {
	Port     int
	LogLevel string

	Notifier      string
	NotifyEmail   string
	NotifyTimeout time.Duration
	SMTP          SMTPConfig
	Resend        ResendConfig

	AdminKey string

	Store           string
	SubmissionsFile string
	DatabaseURL     string

	StaticDir  string
	CORSOrigin string
}

// Load reads a .env file when present, then builds a Config from the
// process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		LogLevel:        getenv("LOG_LEVEL"),
		NotifyEmail:     orDefault(getenv("NOTIFY_EMAIL"), DefaultNotifyEmail),
		AdminKey:        getenv("ADMIN_KEY"),
		SubmissionsFile: orDefault(getenv("SUBMISSIONS_FILE"), DefaultSubmissionsFile),
		DatabaseURL:     getenv("DATABASE_URL"),
		StaticDir:       getenv("STATIC_DIR"),
		CORSOrigin:      orDefault(getenv("CORS_ORIGIN"), "*"),
		SMTP: SMTPConfig{
			Host:              getenv("SMTP_HOST"),
			User:              getenv("SMTP_USER"),
			Pass:              getenv("SMTP_PASS"),
			FromName:          orDefault(getenv("SMTP_FROM_NAME"), DefaultSenderName),
			OAuthClientID:     getenv("SMTP_OAUTH_CLIENT_ID"),
			OAuthClientSecret: getenv("SMTP_OAUTH_CLIENT_SECRET"),
			OAuthRefreshToken: getenv("SMTP_OAUTH_REFRESH_TOKEN"),
			OAuthTokenURL:     getenv("SMTP_OAUTH_TOKEN_URL"),
		},
		Resend: ResendConfig{
			APIKey:  getenv("RESEND_API_KEY"),
			From:    orDefault(getenv("RESEND_FROM"), DefaultResendFrom),
			BaseURL: getenv("RESEND_BASE_URL"),
		},
	}
	cfg.SMTP.From = orDefault(getenv("SMTP_FROM"), cfg.SMTP.User)

	var err error
	if cfg.Port, err = intVar(getenv, "PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.SMTP.Port, err = intVar(getenv, "SMTP_PORT", DefaultSMTPPort); err != nil {
		return nil, err
	}
	// Only the literal "true" enables implicit TLS.
	cfg.SMTP.Secure = getenv("SMTP_SECURE") == "true"

	if v := getenv("NOTIFY_TIMEOUT"); v != "" {
		if cfg.NotifyTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("config: NOTIFY_TIMEOUT: %w", err)
		}
	}

	cfg.Notifier = strings.ToLower(getenv("NOTIFIER"))
	switch cfg.Notifier {
	case "":
		cfg.Notifier = NotifierSMTP
		if cfg.Resend.APIKey != "" {
			cfg.Notifier = NotifierResend
		}
	case NotifierSMTP, NotifierResend, NotifierLog:
	default:
		return nil, fmt.Errorf("config: unknown NOTIFIER %q", cfg.Notifier)
	}

	cfg.Store = strings.ToLower(orDefault(getenv("STORE"), StoreFile))
	switch cfg.Store {
	case StoreFile, StoreNone:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: STORE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE %q", cfg.Store)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
