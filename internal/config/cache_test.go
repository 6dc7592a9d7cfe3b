package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCacheConfig(t *testing.T) {
	tests := []struct {
		name          string
		envVars       map[string]string
		wantLRUSize   int
		wantFreshness time.Duration
		wantEnableLRU bool
	}{
		{
			name:          "default configuration",
			envVars:       map[string]string{},
			wantLRUSize:   defaultSeriesLRUSize,
			wantFreshness: 6 * time.Hour,
			wantEnableLRU: true,
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"CACHE_SERIES_LRU_SIZE":        "2000",
				"CACHE_SERIES_FRESHNESS_HOURS": "3",
				"CACHE_ENABLE_LRU":             "true",
			},
			wantLRUSize:   2000,
			wantFreshness: 3 * time.Hour,
			wantEnableLRU: true,
		},
		{
			name: "disabled LRU cache",
			envVars: map[string]string{
				"CACHE_ENABLE_LRU": "false",
			},
			wantLRUSize:   defaultSeriesLRUSize,
			wantFreshness: 6 * time.Hour,
			wantEnableLRU: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			config := GetCacheConfig()

			assert.Equal(t, tt.wantLRUSize, config.SeriesLRUSize)
			assert.Equal(t, tt.wantFreshness, config.GetSeriesFreshness())
			assert.Equal(t, tt.wantEnableLRU, config.EnableLRUCache)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(*testing.T, *CacheConfig)
	}{
		{
			name: "batch size override",
			envVars: map[string]string{
				"CACHE_BATCH_SIZE": "50",
			},
			check: func(t *testing.T, c *CacheConfig) {
				assert.Equal(t, 50, c.BatchSize)
			},
		},
		{
			name: "dynamo TTL override",
			envVars: map[string]string{
				"CACHE_DYNAMO_TTL_DAYS": "14",
			},
			check: func(t *testing.T, c *CacheConfig) {
				assert.Equal(t, 14*24*time.Hour, c.GetDynamoTTL())
			},
		},
		{
			name: "site list TTL override",
			envVars: map[string]string{
				"CACHE_SITE_LIST_TTL_HOURS": "2",
			},
			check: func(t *testing.T, c *CacheConfig) {
				assert.Equal(t, 2*time.Hour, c.GetSiteListTTL())
			},
		},
		{
			name: "invalid numeric values",
			envVars: map[string]string{
				"CACHE_SERIES_LRU_SIZE": "invalid",
				"CACHE_BATCH_SIZE":      "not_a_number",
			},
			check: func(t *testing.T, c *CacheConfig) {
				// Should fall back to defaults
				assert.Equal(t, defaultSeriesLRUSize, c.SeriesLRUSize)
				assert.Equal(t, defaultBatchSize, c.BatchSize)
			},
		},
		{
			name: "dynamo disabled with numeric flag",
			envVars: map[string]string{
				"CACHE_ENABLE_DYNAMO": "0",
			},
			check: func(t *testing.T, c *CacheConfig) {
				assert.False(t, c.EnableDynamoCache)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, GetCacheConfig())
		})
	}
}
