package config

import "time"

// Defaults applied when an environment variable is absent
const (
	DefaultPort        = "8080"
	DefaultEnvironment = "dev"
	DefaultVersion     = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultLogDir      = "logs"

	DefaultDBUser        = "postgres"
	DefaultDBPassword    = "postgres"
	DefaultDBHost        = "localhost"
	DefaultDBPort        = "5432"
	DefaultDBName        = "community_economy"
	DefaultDBMaxConns    = 10
	DefaultDBMaxConnIdle = 5 * time.Minute
	DefaultDBMaxConnLife = 30 * time.Minute

	DefaultJWTTTL          = 24 * time.Hour
	DefaultRateLimitPerMin = 120

	DefaultBoostCacheSize = 1000
	DefaultBoostCacheTTL  = 1 * time.Minute

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"

	DefaultPropertyCatalogPath = "configs/properties.json"

	DefaultTickInterval       = 1 * time.Hour
	DefaultBoostPurgeInterval = 6 * time.Hour
	DefaultWorkerCount        = 2
	DefaultWorkerQueueSize    = 16
)
