package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	DBPath         string
	AllowedOrigins string
	Timezone       *time.Location
	RunMigrations  bool
	EnableWorkers  bool
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	port := getenvDefault("PORT", "3000")
	dbPath := getenvDefault("DB_PATH", "./data/medminder.db")

	timezoneName := getenvDefault("TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	// Workers default to enabled, migrations are opt-in.
	enableWorkers := getenvDefault("ENABLE_WORKERS", "true") == "true"
	runMigrations := os.Getenv("RUN_MIGRATIONS") == "true"

	allowedOrigins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:80,http://localhost:5173" // Default for local dev
		log.Println("WARNING: Using default ALLOWED_ORIGINS. Set ALLOWED_ORIGINS env var for production.")
	} else if allowedOrigins != "*" {
		parts := strings.Split(allowedOrigins, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		allowedOrigins = strings.Join(parts, ",")
	}

	return &Config{
		Port:           port,
		DBPath:         dbPath,
		AllowedOrigins: allowedOrigins,
		Timezone:       location,
		RunMigrations:  runMigrations,
		EnableWorkers:  enableWorkers,
	}
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}
