// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the process-level configuration.
type Config struct {
	App       AppConfig
	Scheduler SchedulerConfig
}

// AppConfig carries the CLI's basic identity and logging settings.
type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

// SchedulerConfig controls the multi-restart driver and SA refiner.
type SchedulerConfig struct {
	MaxRetries     int
	RNGSeed        int64
	EnableSA       bool
	DefaultTimeout time.Duration

	SAInitialTemp float64
	SACoolingRate float64
	SAMinTemp     float64
}

// Load reads configuration from environment variables, falling back to
// the production defaults (100 restarts, SA off, T0=1000/alpha=0.995/
// Tmin=0.1).
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "classrota-scheduler"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			MaxRetries:     getEnvInt("SCHEDULER_MAX_RETRIES", 100),
			RNGSeed:        int64(getEnvInt("SCHEDULER_RNG_SEED", 1)),
			EnableSA:       getEnvBool("SCHEDULER_ENABLE_SA", false),
			DefaultTimeout: getEnvDuration("SCHEDULER_TIMEOUT", 30*time.Second),
			SAInitialTemp:  getEnvFloat("SCHEDULER_SA_INITIAL_TEMP", 1000),
			SACoolingRate:  getEnvFloat("SCHEDULER_SA_COOLING_RATE", 0.995),
			SAMinTemp:      getEnvFloat("SCHEDULER_SA_MIN_TEMP", 0.1),
		},
	}
	return cfg, nil
}

// IsDevelopment reports whether the app is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction reports whether the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
