// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig holds server settings sourced from environment
// variables, with validated defaults for anything unset.
type EnvironmentConfig struct {
	ServerAddr      string
	ServerPort      int
	MaxClients      int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	UpdateRate      int
	TicksPerState   int
	UsePartialState bool
	WorldSize       float64

	// Circuit Breaker Configuration
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	// Resource Management Configuration
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// ValidationError describes a configuration field that failed validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config field %s=%v: %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv builds an EnvironmentConfig from CARRIER_* environment
// variables and validates it.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		ServerAddr:      getEnvOrDefault("CARRIER_SERVER_ADDR", "localhost"),
		ServerPort:      getEnvAsIntOrDefault("CARRIER_SERVER_PORT", 4566),
		MaxClients:      getEnvAsIntOrDefault("CARRIER_MAX_CLIENTS", 32),
		ReadTimeout:     getEnvAsDurationOrDefault("CARRIER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvAsDurationOrDefault("CARRIER_WRITE_TIMEOUT", 30*time.Second),
		UpdateRate:      getEnvAsIntOrDefault("CARRIER_UPDATE_RATE", 20),
		TicksPerState:   getEnvAsIntOrDefault("CARRIER_TICKS_PER_STATE", 3),
		UsePartialState: getEnvAsBoolOrDefault("CARRIER_USE_PARTIAL_STATE", true),
		WorldSize:       getEnvAsFloatOrDefault("CARRIER_WORLD_SIZE", 100.0),

		CircuitBreakerMaxRequests:         getEnvAsIntOrDefault("CARRIER_CB_MAX_REQUESTS", 3),
		CircuitBreakerInterval:            getEnvAsDurationOrDefault("CARRIER_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvAsDurationOrDefault("CARRIER_CB_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: getEnvAsIntOrDefault("CARRIER_CB_MAX_CONSECUTIVE_FAILS", 5),

		MaxMemoryMB:           int64(getEnvAsIntOrDefault("CARRIER_MAX_MEMORY_MB", 500)),
		MaxGoroutines:         getEnvAsIntOrDefault("CARRIER_MAX_GOROUTINES", 100),
		ShutdownTimeout:       getEnvAsDurationOrDefault("CARRIER_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval: getEnvAsDurationOrDefault("CARRIER_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnvironmentOverrides overlays CARRIER_* environment variables onto
// a file-based game configuration.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	envConfig, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	gameConfig.NetworkConfig.ServerAddress = fmt.Sprintf("%s:%d", envConfig.ServerAddr, envConfig.ServerPort)
	gameConfig.NetworkConfig.ServerPort = envConfig.ServerPort
	gameConfig.NetworkConfig.UpdateRate = envConfig.UpdateRate
	gameConfig.NetworkConfig.TicksPerState = envConfig.TicksPerState
	gameConfig.NetworkConfig.UsePartialState = envConfig.UsePartialState
	gameConfig.WorldSize = envConfig.WorldSize

	return nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.ServerAddr == "" {
		return &ValidationError{
			Field:   "ServerAddr",
			Value:   config.ServerAddr,
			Message: "server address must not be empty",
		}
	}
	if config.ServerPort < 1024 || config.ServerPort > 65535 {
		return &ValidationError{
			Field:   "ServerPort",
			Value:   config.ServerPort,
			Message: "server port must be between 1024 and 65535",
		}
	}
	if config.MaxClients < 1 || config.MaxClients > 1000 {
		return &ValidationError{
			Field:   "MaxClients",
			Value:   config.MaxClients,
			Message: "max clients must be between 1 and 1000",
		}
	}
	if config.ReadTimeout < time.Second || config.ReadTimeout > time.Minute {
		return &ValidationError{
			Field:   "ReadTimeout",
			Value:   config.ReadTimeout,
			Message: "read timeout must be between 1s and 1m",
		}
	}
	if config.WriteTimeout < time.Second || config.WriteTimeout > time.Minute {
		return &ValidationError{
			Field:   "WriteTimeout",
			Value:   config.WriteTimeout,
			Message: "write timeout must be between 1s and 1m",
		}
	}
	if config.UpdateRate < 1 || config.UpdateRate > 100 {
		return &ValidationError{
			Field:   "UpdateRate",
			Value:   config.UpdateRate,
			Message: "update rate must be between 1 and 100",
		}
	}
	if config.TicksPerState < 1 || config.TicksPerState > 20 {
		return &ValidationError{
			Field:   "TicksPerState",
			Value:   config.TicksPerState,
			Message: "ticks per state must be between 1 and 20",
		}
	}
	if config.WorldSize < 10.0 || config.WorldSize > 100000.0 {
		return &ValidationError{
			Field:   "WorldSize",
			Value:   config.WorldSize,
			Message: "world size must be between 10 and 100000",
		}
	}
	if config.CircuitBreakerMaxRequests < 1 {
		return &ValidationError{
			Field:   "CircuitBreakerMaxRequests",
			Value:   config.CircuitBreakerMaxRequests,
			Message: "circuit breaker max requests must be at least 1",
		}
	}
	if config.CircuitBreakerInterval < time.Second {
		return &ValidationError{
			Field:   "CircuitBreakerInterval",
			Value:   config.CircuitBreakerInterval,
			Message: "circuit breaker interval must be at least 1s",
		}
	}
	if config.CircuitBreakerTimeout < time.Second {
		return &ValidationError{
			Field:   "CircuitBreakerTimeout",
			Value:   config.CircuitBreakerTimeout,
			Message: "circuit breaker timeout must be at least 1s",
		}
	}
	if config.MaxMemoryMB < 1 {
		return &ValidationError{
			Field:   "MaxMemoryMB",
			Value:   config.MaxMemoryMB,
			Message: "memory limit must be at least 1 MB",
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
