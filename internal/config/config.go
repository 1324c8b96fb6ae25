package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Storage: "memory", "sqlite" or "postgres"
	StorageBackend string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string

	// Auth
	SecretKey   string
	TokenExpiry time.Duration

	// LLM (Vertex AI / Gemini)
	GCPProjectID string
	GCPLocation  string
	ModelName    string
	UseMockLLM   bool

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
}

// Load reads configuration from environment variables.
// In development it loads from a .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("LEGGAL_ENV", "development")

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Env:  env,

		StorageBackend: getEnv("LEGGAL_STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("LEGGAL_SQLITE_PATH", "./data/leggal.db"),
		RedisURL:       os.Getenv("REDIS_URL"),

		SecretKey:   getEnv("LEGGAL_SECRET_KEY", "dev-secret-change-me"),
		TokenExpiry: time.Duration(getIntEnv("LEGGAL_TOKEN_EXPIRE_MINUTES", 10080)) * time.Minute,

		GCPProjectID: os.Getenv("LEGGAL_GCP_PROJECT"),
		GCPLocation:  getEnv("LEGGAL_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("LEGGAL_MODEL_NAME", "gemini-2.5-flash"),
		UseMockLLM:   getBoolEnv("LEGGAL_USE_MOCK_LLM", env != "production"),
	}

	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	if cfg.Env == "production" {
		if cfg.SecretKey == "dev-secret-change-me" {
			log.Fatal("LEGGAL_SECRET_KEY must be set in production")
		}
		if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required for the postgres backend")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}
