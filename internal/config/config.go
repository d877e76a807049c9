package config

import (
	"os"
	"strconv"

	"datascrub/internal/errors"
)

// Config represents the complete engine configuration
type Config struct {
	Engine   EngineConfig
	Batch    BatchConfig
	Limits   LimitConfig
	Database DatabaseConfig
}

// EngineConfig holds detection tuning
type EngineConfig struct {
	LargeFileThreshold int // data rows above which detection samples
	SampleSize         int // prefix rows analyzed in sampled mode
}

// BatchConfig holds batch coordinator settings
type BatchConfig struct {
	ChunkSize           int // data rows per chunk
	MaxConcurrentChunks int // chunks processed simultaneously
}

// LimitConfig holds input guards
type LimitConfig struct {
	MaxInputBytes int
}

// DatabaseConfig holds the optional job-store connection.
// An empty URL means jobs live only in memory.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Engine: EngineConfig{
			LargeFileThreshold: getEnvIntOrDefault("LARGE_FILE_THRESHOLD", 10000),
			SampleSize:         getEnvIntOrDefault("SAMPLE_SIZE", 5000),
		},
		Batch: BatchConfig{
			ChunkSize:           getEnvIntOrDefault("CHUNK_SIZE", 10000),
			MaxConcurrentChunks: getEnvIntOrDefault("MAX_CONCURRENT_JOBS", 3),
		},
		Limits: LimitConfig{
			MaxInputBytes: getEnvIntOrDefault("MAX_INPUT_BYTES", 50*1024*1024),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Engine.SampleSize <= 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be positive")
	}
	if config.Engine.SampleSize > config.Engine.LargeFileThreshold {
		return errors.ConfigInvalid("SAMPLE_SIZE must not exceed LARGE_FILE_THRESHOLD")
	}
	if config.Batch.ChunkSize <= 0 {
		return errors.ConfigInvalid("CHUNK_SIZE must be positive")
	}
	if config.Batch.MaxConcurrentChunks <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_JOBS must be positive")
	}
	if config.Limits.MaxInputBytes <= 0 {
		return errors.ConfigInvalid("MAX_INPUT_BYTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
