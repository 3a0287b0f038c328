package database

import (
	"fmt"
	"net/url"

	"reckon/internal/config"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig creates a database configuration from the application config.
func NewConfig(cfg *config.Config) (*Config, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	return &Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, nil
}

// DSN returns the connection string for the GORM dialector.
func (c *Config) DSN() string {
	if c.Driver == config.DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Path)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the golang-migrate database URL.
func (c *Config) MigrateURL() string {
	if c.Driver == config.DriverSQLite {
		return "sqlite3://" + c.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
