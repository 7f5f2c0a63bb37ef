package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required"`
	Version     string
	LogLevel    string `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string `validate:"required"`

	DBUser           string `validate:"required"`
	DBPassword       string
	DBHost           string `validate:"required"`
	DBPort           string `validate:"required,numeric"`
	DBName           string `validate:"required"`
	DBMaxConns       int    `validate:"min=1"`
	DBMaxConnIdle    time.Duration
	DBMaxConnLife    time.Duration
	MigrateOnStartup bool

	// TrustedProxies may set X-Forwarded-For
	TrustedProxies []string `validate:"dive,ip"`

	APIKey    string        `validate:"required"` // API key for bot and admin routes
	JWTSecret string        `validate:"required,min=16"`
	JWTTTL    time.Duration `validate:"min=1m"`

	RedisAddr       string
	RedisPassword   string
	RedisDB         int `validate:"min=0"`
	RateLimitPerMin int `validate:"min=0"`

	BoostCacheSize int           `validate:"min=1"`
	BoostCacheTTL  time.Duration `validate:"min=1s"`

	EventMaxRetries     int `validate:"min=0"`
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// PropertyCatalogPath is an optional JSON override of the built-in catalog
	PropertyCatalogPath string

	TickInterval       time.Duration `validate:"min=1s"`
	BoostPurgeInterval time.Duration `validate:"min=1s"`
	WorkerCount        int           `validate:"min=1"`
	WorkerQueueSize    int           `validate:"min=1"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),

		DBUser:           getEnv("DB_USER", DefaultDBUser),
		DBPassword:       getEnv("DB_PASSWORD", DefaultDBPassword),
		DBHost:           getEnv("DB_HOST", DefaultDBHost),
		DBPort:           getEnv("DB_PORT", DefaultDBPort),
		DBName:           getEnv("DB_NAME", DefaultDBName),
		DBMaxConns:       getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdle:    getEnvAsDuration("DB_MAX_CONN_IDLE", DefaultDBMaxConnIdle),
		DBMaxConnLife:    getEnvAsDuration("DB_MAX_CONN_LIFE", DefaultDBMaxConnLife),
		MigrateOnStartup: getEnvAsBool("DB_MIGRATE_ON_STARTUP", true),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		APIKey:    getEnv("API_KEY", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvAsDuration("JWT_TTL", DefaultJWTTTL),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		RateLimitPerMin: getEnvAsInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMin),

		BoostCacheSize: getEnvAsInt("BOOST_CACHE_SIZE", DefaultBoostCacheSize),
		BoostCacheTTL:  getEnvAsDuration("BOOST_CACHE_TTL", DefaultBoostCacheTTL),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),

		PropertyCatalogPath: getEnv("PROPERTY_CATALOG_PATH", DefaultPropertyCatalogPath),

		TickInterval:       getEnvAsDuration("TICK_INTERVAL", DefaultTickInterval),
		BoostPurgeInterval: getEnvAsDuration("BOOST_PURGE_INTERVAL", DefaultBoostPurgeInterval),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// RateLimitEnabled reports whether a Redis limiter should be installed
func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != "" && c.RateLimitPerMin > 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on absence or error
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvAsBool parses a boolean variable, falling back to the default on absence or error
func getEnvAsBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnvAsDuration parses a Go duration ("90s", "1h"), falling back to the default on absence or error
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
