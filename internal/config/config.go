package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT (portal sessions)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Credential vault
	VaultPassphrase string
	VaultSalt       string

	// Admin
	AdminEmails string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
	LogLevel    string

	// Retention for system logs and webhook deliveries
	LogRetention time.Duration

	// Webhook integrations (funnel, crm)
	IntegrationsConfigPath string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "client_portal"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "portal.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		VaultPassphrase: getEnv("VAULT_PASSPHRASE", ""),
		VaultSalt:       getEnv("VAULT_SALT", "client-portal"),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h")),

		IntegrationsConfigPath: getEnv("INTEGRATIONS_CONFIG_PATH", "integrations.yaml"),
	}
}

// UsesPostgres reports whether the configured driver is PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.DBDriver != "sqlite"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
