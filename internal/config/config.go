package config

import (
	"os"
	"strconv"

	"poolscreen/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Cohort     CohortConfig
}

// SimulationConfig holds Monte Carlo study settings
type SimulationConfig struct {
	PoolSize  int
	PermNum   int
	Method    string
	Threshold float64
	Seed      int64
	Workers   int
}

// CohortConfig holds cohort source settings
type CohortConfig struct {
	File       string  // xlsx or csv; empty means synthetic
	Size       int     // synthetic cohort size
	Prevalence float64 // synthetic positive fraction
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Simulation: SimulationConfig{
			PoolSize:  getEnvInt("POOL_SIZE", 5),
			PermNum:   getEnvInt("PERM_NUM", 100),
			Method:    getEnv("POOL_METHOD", "mmpa"),
			Threshold: getEnvFloat("THRESHOLD", 0),
			Seed:      int64(getEnvInt("SEED", 42)),
			Workers:   getEnvInt("WORKERS", 1),
		},
		Cohort: CohortConfig{
			File:       getEnv("COHORT_FILE", ""),
			Size:       getEnvInt("COHORT_SIZE", 300),
			Prevalence: getEnvFloat("COHORT_PREVALENCE", 0.1),
		},
	}

	if cfg.Simulation.PoolSize <= 0 {
		return nil, errors.ConfigInvalid("POOL_SIZE must be positive")
	}
	if cfg.Simulation.PermNum <= 0 {
		return nil, errors.ConfigInvalid("PERM_NUM must be positive")
	}
	if cfg.Cohort.File == "" && cfg.Cohort.Size <= 0 {
		return nil, errors.ConfigInvalid("COHORT_SIZE must be positive when no cohort file is set")
	}
	if cfg.Cohort.Prevalence < 0 || cfg.Cohort.Prevalence > 1 {
		return nil, errors.ConfigInvalid("COHORT_PREVALENCE must be in [0,1]")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
