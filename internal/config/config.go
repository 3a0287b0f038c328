package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Env string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// AutoMigrate applies pending schema migrations before each command.
	AutoMigrate bool
}

// Load loads configuration from environment variables, reading an optional
// .env file first. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Env: getEnv("RECKON_ENV", "development"),

		DBDriver:   getEnv("RECKON_DB_DRIVER", DriverSQLite),
		DBPath:     getEnv("RECKON_DB_PATH", "reckon.db"),
		DBHost:     getEnv("RECKON_DB_HOST", "localhost"),
		DBPort:     getEnv("RECKON_DB_PORT", "5432"),
		DBUser:     getEnv("RECKON_DB_USER", "reckon"),
		DBPassword: getEnv("RECKON_DB_PASSWORD", "reckon"),
		DBName:     getEnv("RECKON_DB_NAME", "reckon"),
		DBSSLMode:  getEnv("RECKON_DB_SSLMODE", "disable"),

		AutoMigrate: getBool("RECKON_AUTO_MIGRATE", true),
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
