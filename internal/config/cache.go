package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	SeriesLRUSize int

	// A cached series younger than this is used without re-fetching
	SeriesFreshnessHours int

	// DynamoDB Cache settings
	SeriesDynamoTTLDays int
	SiteListTTLHours    int

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultSeriesLRUSize        = 1000
	defaultSeriesFreshnessHours = 6
	defaultDynamoTTLDays        = 2
	defaultSiteListTTLHours     = 24
	defaultBatchSize            = 25
	defaultMaxBatchRetries      = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		SeriesLRUSize:        getEnvInt("CACHE_SERIES_LRU_SIZE", defaultSeriesLRUSize),
		SeriesFreshnessHours: getEnvInt("CACHE_SERIES_FRESHNESS_HOURS", defaultSeriesFreshnessHours),
		SeriesDynamoTTLDays:  getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultDynamoTTLDays),
		SiteListTTLHours:     getEnvInt("CACHE_SITE_LIST_TTL_HOURS", defaultSiteListTTLHours),
		BatchSize:            getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:      getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:       getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:    getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("SeriesLRUSize", config.SeriesLRUSize).
		Int("SeriesFreshnessHours", config.SeriesFreshnessHours).
		Int("SeriesDynamoTTLDays", config.SeriesDynamoTTLDays).
		Int("SiteListTTLHours", config.SiteListTTLHours).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

// Helper methods for the CacheConfig struct
func (c *CacheConfig) GetSeriesFreshness() time.Duration {
	return time.Duration(c.SeriesFreshnessHours) * time.Hour
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.SeriesDynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetSiteListTTL() time.Duration {
	return time.Duration(c.SiteListTTLHours) * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
