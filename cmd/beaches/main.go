package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/app"
	"github.com/cliffcheck/beachable/internal/beach"
	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/handler"
)

var (
	lambdaStart    = lambda.Start // Allow mocking of lambda.Start in tests
	beachesHandler *handler.BeachesHandler
	setupOnce      sync.Once
	initHandler    = defaultInitHandler
)

func defaultInitHandler(ctx context.Context) (*handler.BeachesHandler, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()
	cacheConfig := config.GetCacheConfig()

	finder := app.NewSiteFinder(ctx, cfg, cacheConfig)

	source, err := app.NewSeriesSource(ctx, cfg, cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("initializing series source: %w", err)
	}

	service := beach.NewService(finder, source,
		beach.WithOptions(cfg.Engine),
		beach.WithConcurrency(cfg.SiteConcurrency),
	)

	return handler.NewBeachesHandler(service), nil
}

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		log.Debug().Msg("Initializing beaches service...")
		var err error
		beachesHandler, err = initHandler(context.Background())
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize handler")
			return
		}
		log.Debug().Msg("Beaches service initialized successfully")
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if beachesHandler == nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"responseType":"error","error":"Handler not initialized"}`,
		}, fmt.Errorf("handler not initialized")
	}
	return beachesHandler.HandleRequest(ctx, request)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambdaStart(handleRequest)
}
