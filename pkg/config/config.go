// Package config loads process-level defaults for the scheduling engine
// from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration; it is not itself part of the
// engine's public contract. The CLI reads LogLevel and LogFormat; nothing in
// this module copies the solver or demand fields into the domain-level
// SolverConfig/DemandAwareConfig types.
type Config struct {
	AppEnv    string
	LogLevel  string
	LogFormat string

	SolverTimeLimitSeconds float64
	SolverNumWorkers       int
	SolverType             string // heuristic, cpsat, hybrid

	AutoGenerateDemand bool
	SlotMinutes        int
}

// Load loads configuration from environment variables, reading a .env file
// first if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SolverTimeLimitSeconds: getFloatEnv("SHIFTPLAN_SOLVER_TIME_LIMIT_SECONDS", 30.0),
		SolverNumWorkers:       getIntEnv("SHIFTPLAN_SOLVER_NUM_WORKERS", 0),
		SolverType:             getEnv("SHIFTPLAN_SOLVER_TYPE", "hybrid"),

		AutoGenerateDemand: getBoolEnv("SHIFTPLAN_AUTO_GENERATE_DEMAND", true),
		SlotMinutes:        getIntEnv("SHIFTPLAN_SLOT_MINUTES", 15),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
