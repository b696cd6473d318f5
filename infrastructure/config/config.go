package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Database configuration
	MySQLDSN        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Cache store configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// UseMemoryStore switches to the in-process store, for development and
	// single-instance deployments without Redis.
	UseMemoryStore bool

	// Cache TTLs
	MetadataTTL  time.Duration
	ContentTTL   time.Duration
	RelatedTTL   time.Duration
	ReferenceTTL time.Duration
	StaleWindow  time.Duration

	// Background refresh
	RefreshWorkers   int
	RefreshQueueSize int

	// Warm-up job
	WarmupTopN        int
	WarmupConcurrency int
	WarmupRatePerSec  int

	// Dynamic scoring weights file (optional; defaults apply when empty)
	ScoringConfigPath string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		MySQLDSN:        getEnv("MYSQL_DSN", "newsdesk:newsdesk@tcp(localhost:3306)/newsdesk?charset=utf8mb4&parseTime=True&loc=UTC"),
		MaxOpenConns:    getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("MYSQL_CONN_MAX_LIFETIME_SEC", 300),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false),

		MetadataTTL:  getEnvDuration("CACHE_METADATA_TTL_SEC", 120),
		ContentTTL:   getEnvDuration("CACHE_CONTENT_TTL_SEC", 900),
		RelatedTTL:   getEnvDuration("CACHE_RELATED_TTL_SEC", 600),
		ReferenceTTL: getEnvDuration("CACHE_REFERENCE_TTL_SEC", 3600),
		StaleWindow:  getEnvDuration("CACHE_STALE_WINDOW_SEC", 60),

		RefreshWorkers:   getEnvInt("CACHE_REFRESH_WORKERS", 2),
		RefreshQueueSize: getEnvInt("CACHE_REFRESH_QUEUE_SIZE", 256),

		WarmupTopN:        getEnvInt("WARMUP_TOP_N", 50),
		WarmupConcurrency: getEnvInt("WARMUP_CONCURRENCY", 4),
		WarmupRatePerSec:  getEnvInt("WARMUP_RATE_PER_SEC", 20),

		ScoringConfigPath: getEnv("SCORING_CONFIG_PATH", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required in production")
		}
		if !c.UseMemoryStore && c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required in production unless USE_MEMORY_STORE is set")
		}
	}
	if c.MetadataTTL <= 0 || c.ContentTTL <= 0 || c.RelatedTTL <= 0 || c.ReferenceTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.StaleWindow < 0 {
		return fmt.Errorf("CACHE_STALE_WINDOW_SEC must not be negative")
	}
	if c.RefreshWorkers < 1 || c.RefreshQueueSize < 1 {
		return fmt.Errorf("refresh worker pool settings must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration reads a seconds-valued environment variable as a duration
func getEnvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
