package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cliffcheck/beachable/internal/tide"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "https://www.worldtides.info", cfg.WorldTidesBaseURL)
	assert.Equal(t, DaylightSourceAPI, cfg.DaylightSource)
	assert.Equal(t, "tide-updates", cfg.AlertTopic)
	assert.Equal(t, tide.DefaultOptions(), cfg.Engine)
}

func TestWithEnvironment(t *testing.T) {
	cfg := New(WithEnvironment("development"))

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsLocal())
}

func TestWithLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(WithLogLevel("debug")).LogLevel)
	assert.Equal(t, zerolog.InfoLevel, New(WithLogLevel("shouting")).LogLevel)
}

func TestWithHTTPTimeout(t *testing.T) {
	cfg := New(WithHTTPTimeout(30 * time.Second))

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestWithDaylight(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		baseURL    string
		wantSource string
		wantURL    string
	}{
		{"astro", DaylightSourceAstro, "", DaylightSourceAstro, "https://api.sunrisesunset.io"},
		{"api with custom url", DaylightSourceAPI, "http://localhost:9000", DaylightSourceAPI, "http://localhost:9000"},
		{"unknown keeps default", "moon", "", DaylightSourceAPI, "https://api.sunrisesunset.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New(WithDaylight(tt.source, tt.baseURL))
			assert.Equal(t, tt.wantSource, cfg.DaylightSource)
			assert.Equal(t, tt.wantURL, cfg.SunAPIBaseURL)
		})
	}
}

func TestWithAlertsKeepsDefaultTopic(t *testing.T) {
	cfg := New(WithAlerts("https://sqs.example/queue", ""))

	assert.Equal(t, "https://sqs.example/queue", cfg.AlertQueueURL)
	assert.Equal(t, "tide-updates", cfg.AlertTopic)
}

func TestWithSiteConcurrencyIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, 4, New(WithSiteConcurrency(0)).SiteConcurrency)
	assert.Equal(t, 8, New(WithSiteConcurrency(8)).SiteConcurrency)
}

func TestInitializeLogging(t *testing.T) {
	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("WORLDTIDES_API_KEY", "secret")
	t.Setenv("DAYLIGHT_SOURCE", "astro")
	t.Setenv("SITES_BUCKET", "beach-sites")
	t.Setenv("TREND_STRATEGY", "windowed")
	t.Setenv("TREND_WINDOW", "90m")
	t.Setenv("CROSSING_PRECISION", "interpolated")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "secret", cfg.WorldTidesAPIKey)
	assert.Equal(t, DaylightSourceAstro, cfg.DaylightSource)
	assert.Equal(t, "beach-sites", cfg.SitesBucket)
	assert.Equal(t, tide.TrendWindowed, cfg.Engine.Trend)
	assert.Equal(t, 90*time.Minute, cfg.Engine.TrendWindow)
	assert.Equal(t, tide.CrossingInterpolated, cfg.Engine.Crossing)
	assert.Equal(t, tide.HeightInterpolated, cfg.Engine.Height)
}

func TestLoadFromEnvUnknownStrategyFallsBack(t *testing.T) {
	t.Setenv("HEIGHT_STRATEGY", "cubic")

	cfg := LoadFromEnv()

	assert.Equal(t, tide.DefaultOptions().Height, cfg.Engine.Height)
}

func TestLoadFromEnvMalformedValueUsesDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := LoadFromEnv()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}
