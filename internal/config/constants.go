package config

import "time"

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Defaults applied when a variable is unset or unparsable
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultEnvironment         = "dev"
	DefaultServiceName         = "flipresolver"
	DefaultVersion             = "dev"
	DefaultDBMaxConns          = 20
	DefaultDBMaxConnIdleTime   = 5 * time.Minute
	DefaultDBMaxConnLifetime   = 30 * time.Minute
	DefaultCatalogCacheSize    = 1024
	DefaultHTTPTimeout         = 10 * time.Second
	DefaultLocalRecipesPath    = "configs/recipes/local.json"
	DefaultCombinationSetsPath = "configs/recipes/combination_sets.json"
)

// HTTP client guard defaults
const (
	DefaultRateLimitRequests = 1000
	DefaultRateLimitWindow   = 5 * time.Minute
	DefaultAuthFailureAlert  = 5
)

// DefaultCatalogRefreshInterval is how often the catalog is rebuilt from its sources
const DefaultCatalogRefreshInterval = 6 * time.Hour

// Error messages
const (
	ErrMsgAPIKeyMissing = "API_KEY environment variable must be set for security"
	ErrMsgInvalidPort   = "invalid PORT value"
	ErrMsgInvalidConfig = "invalid configuration"
)
