// internal/config/config.go
//
// Process configuration read from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Server Server
	Log    Log
	Auth   Auth
	Store  Store
	Words  Words
	Sync   Sync
}

type Server struct {
	Port         string `envconfig:"PORT" default:"5175"`
	ClientOrigin string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	// Production switches cookies to Secure + SameSite=None.
	Production bool `envconfig:"PRODUCTION" default:"false"`
}

type Log struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	// File enables a rotated log file next to console output.
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"20"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`
}

type Auth struct {
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	JWTExpiresDays int    `envconfig:"JWT_EXPIRES_DAYS" default:"14"`
	CookieName     string `envconfig:"COOKIE_NAME" default:"duo_token"`
	// RatePerMinute limits signup/login attempts per client IP; 0 disables the limit.
	RatePerMinute int `envconfig:"AUTH_RATE_PER_MINUTE" default:"20"`
}

type Store struct {
	DBPath string `envconfig:"DB_PATH" default:"./data/app.db"`
	// ValkeyURL selects the valkey save store; empty keeps saves in memory.
	ValkeyURL string        `envconfig:"VALKEY_URL"`
	SaveTTL   time.Duration `envconfig:"SAVE_TTL" default:"48h"`
}

type Words struct {
	TargetsFile string `envconfig:"WORDS_TARGETS_FILE"`
	ValidFile   string `envconfig:"WORDS_VALID_FILE"`
}

type Sync struct {
	BatchSize int `envconfig:"SYNC_BATCH_SIZE" default:"50"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTExpiresDays <= 0 {
		return errors.New("JWT_EXPIRES_DAYS must be positive")
	}
	if c.Auth.RatePerMinute < 0 {
		return errors.New("AUTH_RATE_PER_MINUTE must not be negative")
	}
	if c.Sync.BatchSize <= 0 {
		return errors.New("SYNC_BATCH_SIZE must be positive")
	}
	if c.Store.SaveTTL < 0 {
		return errors.New("SAVE_TTL must not be negative")
	}
	if (c.Words.TargetsFile == "") != (c.Words.ValidFile == "") {
		return errors.New("WORDS_TARGETS_FILE and WORDS_VALID_FILE must be set together")
	}
	return nil
}

// Addr is the listen address.
func (s Server) Addr() string { return ":" + s.Port }

// TokenTTL is the lifetime of issued auth tokens.
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.JWTExpiresDays) * 24 * time.Hour
}
