package config

import (
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // Client CA for mTLS; empty disables client verification

	// Branding
	SiteTitle   string
	SiteTagline string
	SiteFooter  string

	// Storage
	Store       string // "postgres" or "memory"
	DatabaseURL string
	SeedDevData bool

	// Redis backs the rate limiter when set, so limits survive restarts.
	RedisURL string

	// Client origin
	OriginHeader string // Header carrying the client address behind a proxy, e.g. "X-Forwarded-For"

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitMax int // Requests per minute per origin

	// Background consolidation
	SweepInterval time.Duration // 0 disables the periodic sweep

	// Policy file
	ConfigFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		ServerAddr:    getEnv("SERVER_ADDR", ":3000"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:3000"),
		TLSEnabled:    getEnv("TLS_ENABLED", "") == "true",
		TLSCertFile:   getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:    getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:     getEnv("TLS_CA_FILE", ""),
		SiteTitle:     getEnv("SITE_TITLE", "Search Log"),
		SiteTagline:   getEnv("SITE_TAGLINE", "What people are looking for"),
		SiteFooter:    getEnv("SITE_FOOTER", ""),
		Store:         getEnv("STORE", StorePostgres),
		DatabaseURL:   getEnv("DATABASE_URL", "postgres://localhost:5432/searchlog?sslmode=disable"),
		SeedDevData:   getEnv("SEED_DEV_DATA", "") != "",
		RedisURL:      getEnv("REDIS_URL", ""),
		OriginHeader:  getEnv("ORIGIN_HEADER", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),
		RateLimitMax:  getEnvInt("RATE_LIMIT_MAX", 100),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		ConfigFile:    getEnv("CONFIG_FILE", "config.yaml"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UseMemoryStore returns true if records are kept in process memory.
func (c *Config) UseMemoryStore() bool {
	return c.Store == StoreMemory
}
