package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the strategy lab backend.
type Config struct {
	Environment string
	LogLevel    string

	API      APIConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ideas    IdeasConfig
}

// APIConfig holds HTTP server configuration.
type APIConfig struct {
	Port            int
	HealthCheckPort int
	RateLimitRPS    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxComputeBars  int // upper bound on bars accepted per compute request
}

// DatabaseConfig holds Postgres configuration for the idea store.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration for the idea cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IdeasConfig selects the idea store backend.
type IdeasConfig struct {
	StoreType    string // "memory" or "postgres"
	CacheEnabled bool   // layer the Redis cache over the store
}

// Load loads configuration from environment variables, reading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		API: APIConfig{
			Port:            getEnvAsInt("API_PORT", 8080),
			HealthCheckPort: getEnvAsInt("API_HEALTH_PORT", 8081),
			RateLimitRPS:    getEnvAsInt("API_RATE_LIMIT_RPS", 100),
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", 30*time.Second),
			MaxComputeBars:  getEnvAsInt("API_MAX_COMPUTE_BARS", 10000),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "strategy_lab"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Ideas: IdeasConfig{
			StoreType:    getEnv("IDEAS_STORE_TYPE", "memory"),
			CacheEnabled: getEnvAsBool("IDEAS_CACHE_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Ideas.StoreType {
	case "memory", "postgres":
	default:
		return fmt.Errorf("IDEAS_STORE_TYPE must be \"memory\" or \"postgres\", got %q", c.Ideas.StoreType)
	}
	if c.Ideas.StoreType == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when IDEAS_STORE_TYPE is postgres")
	}
	if c.Ideas.CacheEnabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when IDEAS_CACHE_ENABLED is set")
	}
	if c.API.MaxComputeBars < 1 {
		return fmt.Errorf("API_MAX_COMPUTE_BARS must be positive")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
