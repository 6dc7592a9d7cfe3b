package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/cliffcheck/beachable/internal/app"
	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/handler"
)

var (
	lambdaStart  = lambda.Start // Allow mocking of lambda.Start in tests
	sitesHandler *handler.SitesHandler
	setupOnce    sync.Once
)

func initializeService() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		// Site list is cached in memory between invocations
		finder := app.NewSiteFinder(context.Background(), cfg, config.GetCacheConfig())

		sitesHandler = handler.NewSitesHandler(finder)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	initializeService()
	return sitesHandler.HandleRequest(ctx, request)
}

func main() {
	initializeService()
	lambdaStart(handleRequest)
}
