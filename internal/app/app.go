// Package app wires configuration into the services shared by the lambdas.
package app

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/cache"
	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/daylight"
	"github.com/cliffcheck/beachable/internal/forecast"
	"github.com/cliffcheck/beachable/internal/notify"
	"github.com/cliffcheck/beachable/internal/site"
	"github.com/cliffcheck/beachable/internal/worldtides"
	"github.com/cliffcheck/beachable/pkg/http/client"
)

// AWSConfigLoader is swapped in tests so no credentials are needed
var AWSConfigLoader = func(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// DynamoClientFactory is swapped in tests
var DynamoClientFactory = func(ctx context.Context) (cache.DynamoDBClient, error) {
	return cache.NewDynamoClient(ctx)
}

func newHTTPClient(cfg *config.Config, baseURL, name string) *client.Client {
	return client.New(client.Options{
		BaseURL:    baseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		Name:       name,
	})
}

// NewSiteFinder uses the S3 catalog when a bucket is configured and the built-in
// sites otherwise.
func NewSiteFinder(ctx context.Context, cfg *config.Config, cacheConfig *config.CacheConfig) *site.Finder {
	memCache := cache.NewSiteCache(cacheConfig.GetSiteListTTL(), nil)

	if cfg.SitesBucket == "" {
		return site.NewFinder(nil, memCache)
	}

	awsCfg, err := AWSConfigLoader(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS config, using built-in sites")
		return site.NewFinder(nil, memCache)
	}

	catalog := cache.NewS3SiteCatalog(s3.NewFromConfig(awsCfg), cfg.SitesBucket, nil)
	return site.NewFinder(catalog, memCache)
}

// NewSeriesSource builds the WorldTides fetcher behind the two-level series cache.
// Without DynamoDB the cache stays in memory.
func NewSeriesSource(ctx context.Context, cfg *config.Config, cacheConfig *config.CacheConfig) (*forecast.Source, error) {
	if cfg.WorldTidesAPIKey == "" {
		log.Warn().Msg("WORLDTIDES_API_KEY is not set, tide requests will be rejected")
	}
	fetcher := worldtides.NewClient(newHTTPClient(cfg, cfg.WorldTidesBaseURL, "worldtides"), cfg.WorldTidesAPIKey)

	var store cache.SeriesStore
	if cacheConfig.EnableDynamoCache {
		dynamoClient, err := DynamoClientFactory(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create DynamoDB client, caching in memory only")
		} else {
			store = cache.NewDynamoSeriesCache(dynamoClient, cacheConfig, nil)
		}
	}

	seriesCache, err := cache.NewSeriesCache(cacheConfig, store, nil)
	if err != nil {
		return nil, err
	}

	return forecast.NewSource(fetcher, seriesCache, nil), nil
}

// NewDaylightFetcher picks the sunrise source. The API source falls back to the
// local calculation when the service fails.
func NewDaylightFetcher(cfg *config.Config) daylight.Fetcher {
	calculator := daylight.AstronomicalCalculator{}
	if cfg.DaylightSource == config.DaylightSourceAstro {
		return calculator
	}

	api := daylight.NewSunriseSunsetClient(newHTTPClient(cfg, cfg.SunAPIBaseURL, "sunrisesunset"))
	return &daylight.FallbackFetcher{Primary: api, Secondary: calculator}
}

// NewNotifier sends to SQS when a queue is configured and only logs otherwise.
func NewNotifier(ctx context.Context, cfg *config.Config) notify.Notifier {
	if cfg.AlertQueueURL == "" {
		log.Warn().Msg("ALERT_QUEUE_URL is not set, notifications will only be logged")
		return notify.LogNotifier{}
	}

	awsCfg, err := AWSConfigLoader(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load AWS config, notifications will only be logged")
		return notify.LogNotifier{}
	}

	return notify.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.AlertQueueURL)
}
