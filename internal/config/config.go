package config

import (
	"errors"
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
	Port        int    `validate:"gte=1,lte=65535"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFormat   string `validate:"oneof=text json"`
	Environment string `validate:"required"`
	ServiceName string `validate:"required"`
	Version     string

	Storage           string `validate:"oneof=postgres memory"`
	DBUser            string `validate:"required_if=Storage postgres"`
	DBPassword        string
	DBHost            string `validate:"required_if=Storage postgres"`
	DBPort            string `validate:"required_if=Storage postgres"`
	DBName            string `validate:"required_if=Storage postgres"`
	DBMaxConns        int    `validate:"gte=1"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	APIKey         string `validate:"required"` // API key for authentication
	TrustedProxies []string

	// Per-client request budget and failed-key alert threshold
	RateLimitRequests int           `validate:"gte=1"`
	RateLimitWindow   time.Duration `validate:"gt=0"`
	AuthFailureAlert  int           `validate:"gte=1"`

	// Recipe catalog sources. Any may be empty.
	RecipesURL          string `validate:"omitempty,url"`
	LocalRecipesPath    string
	CombinationSetsPath string
	CatalogCacheSize    int           `validate:"gte=0"`
	HTTPTimeout         time.Duration `validate:"gt=0"`

	// CatalogRefreshInterval of zero disables the periodic reload
	CatalogRefreshInterval time.Duration `validate:"gte=0"`

	IncludeMarginChecks bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		Storage:           strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "flipresolver"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow),
		AuthFailureAlert:  getEnvAsInt("AUTH_FAILURE_ALERT_THRESHOLD", DefaultAuthFailureAlert),

		RecipesURL:          getEnv("RECIPES_URL", ""),
		LocalRecipesPath:    getEnv("LOCAL_RECIPES_PATH", DefaultLocalRecipesPath),
		CombinationSetsPath: getEnv("COMBINATION_SETS_PATH", DefaultCombinationSetsPath),
		CatalogCacheSize:    getEnvAsInt("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize),
		HTTPTimeout:         getEnvAsDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),

		CatalogRefreshInterval: getEnvAsDuration("CATALOG_REFRESH_INTERVAL", DefaultCatalogRefreshInterval),

		IncludeMarginChecks: getEnvAsBool("INCLUDE_MARGIN_CHECKS", false),
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if cfg.APIKey == "" {
		return nil, errors.New(ErrMsgAPIKeyMissing)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// UsesMemoryStorage reports whether offers and composites are kept in process
func (c *Config) UsesMemoryStorage() bool {
	return c.Storage == StorageMemory
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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
