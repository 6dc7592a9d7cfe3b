package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/alert"
	"github.com/cliffcheck/beachable/internal/app"
	"github.com/cliffcheck/beachable/internal/config"
)

// Runner is the part of alert.Job the lambda drives
type Runner interface {
	Run(ctx context.Context) (alert.Report, error)
}

var (
	lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests
	job         Runner
	appConfig   *config.Config
	setupOnce   sync.Once
	initJob     = defaultInitJob
)

func defaultInitJob(ctx context.Context, cfg *config.Config) (Runner, error) {
	cacheConfig := config.GetCacheConfig()

	source, err := app.NewSeriesSource(ctx, cfg, cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("initializing series source: %w", err)
	}

	return alert.NewJob(
		app.NewSiteFinder(ctx, cfg, cacheConfig),
		app.NewDaylightFetcher(cfg),
		source,
		app.NewNotifier(ctx, cfg),
		alert.WithTopic(cfg.AlertTopic),
		alert.WithCacheStats(source),
		alert.WithConcurrency(cfg.SiteConcurrency),
	), nil
}

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		appConfig = config.LoadFromEnv()
		appConfig.InitializeLogging()

		var err error
		job, err = initJob(context.Background(), appConfig)
		if err != nil {
			initError = fmt.Errorf("failed to initialize alert job: %w", err)
			log.Error().Err(err).Msg("Failed to initialize alert job")
		}
	})
	return initError
}

// handleEvent runs on the daily schedule
func handleEvent(ctx context.Context, event events.CloudWatchEvent) (alert.Report, error) {
	if job == nil {
		return alert.Report{}, fmt.Errorf("alert job not initialized")
	}

	log.Info().Str("source", event.Source).Time("scheduled", event.Time).Msg("Running tide alerts")

	report, err := job.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Alert run failed")
		return alert.Report{}, err
	}
	return report, nil
}

// runOnce executes the job outside Lambda and prints the report
func runOnce(ctx context.Context) error {
	report, err := handleEvent(ctx, events.CloudWatchEvent{Source: "local"})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	if appConfig.IsLocal() {
		if err := runOnce(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Alert run failed")
		}
		return
	}

	lambdaStart(handleEvent)
}
