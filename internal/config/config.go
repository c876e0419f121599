package config

import (
	"fmt"
	"os"
	"strings"

	"dinesight-backend/pkg/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLiteDSN = "dinesight.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

type Config struct {
	HTTPPort       string
	DBDriver       string // sqlite | postgres
	DatabaseDSN    string
	CORSOrigins    string
	Environment    string
	LogLevel       string
	ServiceName    string
	TracingEnabled bool
	JaegerEndpoint string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "dinesight-backend"),
		TracingEnabled: getEnv("TRACING_ENABLED", "false") == "true",
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}

	if cfg.DatabaseDSN == "" && cfg.DBDriver == DriverSQLite {
		cfg.DatabaseDSN = defaultSQLiteDSN
		logger.Logger.Warn().Str("dsn", cfg.DatabaseDSN).Msg("DATABASE_DSN not set, using local sqlite file")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logger.Logger.Warn().Msg("CORS_ALLOWED_ORIGINS uses the development default")
	}

	return cfg
}

// Validate reports configuration that cannot be used to open the store.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for driver %s", c.DBDriver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins trims the comma separated CORS list.
func (c *Config) AllowedOrigins() string {
	origins := strings.Split(c.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return strings.Join(origins, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
