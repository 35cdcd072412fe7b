package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Database
	DBPath string

	// AI generation
	AIBaseURL string // OpenAI-compatible endpoint, e.g. "http://localhost:1234/v1"
	AIAPIKey  string // empty disables the AI generator
	AIModel   string // model name, e.g. "gpt-4o-mini"

	// Demo data
	SeedDemo bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "studyhub.db"),
		AIBaseURL:       os.Getenv("AI_BASE_URL"),
		AIAPIKey:        os.Getenv("AI_API_KEY"),
		AIModel:         getenvDefault("AI_MODEL", "gpt-4o-mini"),
		SeedDemo:        os.Getenv("SEED_DEMO") == "true",
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
