package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/tide"
)

const (
	DaylightSourceAPI   = "api"
	DaylightSourceAstro = "astro"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	WorldTidesBaseURL string
	WorldTidesAPIKey  string
	SunAPIBaseURL     string
	DaylightSource    string

	AlertQueueURL   string
	AlertTopic      string
	SitesBucket     string
	SiteConcurrency int

	Engine tide.Options
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		if retries > 0 {
			c.MaxRetries = retries
		}
	}
}

// WithWorldTides sets the tide provider endpoint and key
func WithWorldTides(baseURL, apiKey string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.WorldTidesBaseURL = baseURL
		}
		c.WorldTidesAPIKey = apiKey
	}
}

// WithDaylight sets where sunrise and sunset come from
func WithDaylight(source, baseURL string) Option {
	return func(c *Config) {
		switch source {
		case DaylightSourceAPI, DaylightSourceAstro:
			c.DaylightSource = source
		default:
			log.Warn().Str("source", source).Msg("Unknown daylight source, using default")
		}
		if baseURL != "" {
			c.SunAPIBaseURL = baseURL
		}
	}
}

// WithAlerts sets the notification queue and audience topic
func WithAlerts(queueURL, topic string) Option {
	return func(c *Config) {
		c.AlertQueueURL = queueURL
		if topic != "" {
			c.AlertTopic = topic
		}
	}
}

func WithSitesBucket(bucket string) Option {
	return func(c *Config) {
		c.SitesBucket = bucket
	}
}

func WithSiteConcurrency(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SiteConcurrency = n
		}
	}
}

// WithEngine overrides the tide evaluation strategies
func WithEngine(opts tide.Options) Option {
	return func(c *Config) {
		c.Engine = opts
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:       "production",
		LogLevel:          zerolog.InfoLevel,
		HTTPTimeout:       10 * time.Second,
		MaxRetries:        3,
		WorldTidesBaseURL: "https://www.worldtides.info",
		SunAPIBaseURL:     "https://api.sunrisesunset.io",
		DaylightSource:    DaylightSourceAPI,
		AlertTopic:        "tide-updates",
		SiteConcurrency:   4,
		Engine:            tide.DefaultOptions(),
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// envSpec mirrors the environment variables read by LoadFromEnv
type envSpec struct {
	Env             string        `envconfig:"ENV" default:"production"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	MaxRetries      int           `envconfig:"HTTP_MAX_RETRIES" default:"3"`
	WorldTidesURL   string        `envconfig:"WORLDTIDES_BASE_URL"`
	WorldTidesKey   string        `envconfig:"WORLDTIDES_API_KEY"`
	SunAPIURL       string        `envconfig:"SUN_API_BASE_URL"`
	DaylightSource  string        `envconfig:"DAYLIGHT_SOURCE" default:"api"`
	AlertQueueURL   string        `envconfig:"ALERT_QUEUE_URL"`
	AlertTopic      string        `envconfig:"ALERT_TOPIC" default:"tide-updates"`
	SitesBucket     string        `envconfig:"SITES_BUCKET"`
	SiteConcurrency int           `envconfig:"SITE_CONCURRENCY" default:"4"`

	HeightStrategy    string        `envconfig:"HEIGHT_STRATEGY" default:"interpolated"`
	TrendStrategy     string        `envconfig:"TREND_STRATEGY" default:"point"`
	TrendEpsilon      float64       `envconfig:"TREND_EPSILON" default:"0.01"`
	TrendWindow       time.Duration `envconfig:"TREND_WINDOW" default:"2h"`
	CrossingPrecision string        `envconfig:"CROSSING_PRECISION" default:"sample"`
}

// LoadFromEnv loads configuration from a .env file, if present, and the environment
func LoadFromEnv() *Config {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	var spec envSpec
	if err := envconfig.Process("", &spec); err != nil {
		log.Warn().Err(err).Msg("Invalid environment configuration, using defaults")
		return New()
	}

	return New(
		WithEnvironment(spec.Env),
		WithLogLevel(spec.LogLevel),
		WithHTTPTimeout(spec.HTTPTimeout),
		WithMaxRetries(spec.MaxRetries),
		WithWorldTides(spec.WorldTidesURL, spec.WorldTidesKey),
		WithDaylight(spec.DaylightSource, spec.SunAPIURL),
		WithAlerts(spec.AlertQueueURL, spec.AlertTopic),
		WithSitesBucket(spec.SitesBucket),
		WithSiteConcurrency(spec.SiteConcurrency),
		WithEngine(engineOptions(spec)),
	)
}

func engineOptions(spec envSpec) tide.Options {
	opts := tide.DefaultOptions()

	if h, err := tide.ParseHeightStrategy(spec.HeightStrategy); err == nil {
		opts.Height = h
	} else {
		log.Warn().Err(err).Msg("Using default height strategy")
	}

	if tr, err := tide.ParseTrendStrategy(spec.TrendStrategy); err == nil {
		opts.Trend = tr
	} else {
		log.Warn().Err(err).Msg("Using default trend strategy")
	}

	if c, err := tide.ParseCrossingPrecision(spec.CrossingPrecision); err == nil {
		opts.Crossing = c
	} else {
		log.Warn().Err(err).Msg("Using default crossing precision")
	}

	if spec.TrendEpsilon >= 0 {
		opts.TrendEpsilon = spec.TrendEpsilon
	}
	if spec.TrendWindow > 0 {
		opts.TrendWindow = spec.TrendWindow
	}

	return opts
}
