// Package config reads the service and CLI settings from the environment,
// after loading an optional .env file.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting used by cmd/api and cmd/agent.
type Config struct {
	// Port is the HTTP listen port of the API.
	Port string
	// DatabaseURL is the Postgres DSN. Empty selects in-memory storage.
	DatabaseURL string
	// JWTSecret signs session tokens.
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost is the bcrypt cost factor for stored passwords.
	BcryptCost int
	LogLevel   string
	// AdminPseudo and AdminPassword seed the first administrator account.
	AdminPseudo   string
	AdminPassword string
	// BackendURL is the base URL of the API, as seen by cmd/agent.
	BackendURL  string
	HTTPTimeout time.Duration
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv reads the configuration from the environment only.
func FromEnv() Config {
	return Config{
		Port:          getenv("APP_PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		JWTSecret:     getenv("JWT_SECRET", ""),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost:    getInt("BCRYPT_COST", 10),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		AdminPseudo:   getenv("ADMIN_PSEUDO", ""),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),
		BackendURL:    getenv("BACKEND_API_URL", "http://localhost:8080"),
		HTTPTimeout:   getDuration("HTTP_TIMEOUT", 15*time.Second),
	}
}

// ValidateServer reports settings the API cannot start without.
func (c Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if (c.AdminPseudo == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_PSEUDO and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
