package main

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetService(t *testing.T) {
	t.Helper()
	originalStart := lambdaStart
	t.Cleanup(func() {
		lambdaStart = originalStart
		sitesHandler = nil
		setupOnce = sync.Once{}
	})
	setupOnce = sync.Once{}
	sitesHandler = nil
}

func TestHandleRequest(t *testing.T) {
	resetService(t)
	t.Setenv("SITES_BUCKET", "")

	tests := []struct {
		name         string
		request      events.APIGatewayProxyRequest
		expectedCode int
		wantSites    int
	}{
		{
			name:         "all sites",
			request:      events.APIGatewayProxyRequest{},
			expectedCode: http.StatusOK,
			wantSites:    3,
		},
		{
			name: "by name",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"name": "kellogg beach"},
			},
			expectedCode: http.StatusOK,
			wantSites:    1,
		},
		{
			name: "nearest with limit",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"lat": "32.75", "lon": "-117.25", "limit": "2"},
			},
			expectedCode: http.StatusOK,
			wantSites:    2,
		},
		{
			name: "unknown site",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"name": "Atlantis"},
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			response, err := handleRequest(context.Background(), tc.request)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCode, response.StatusCode)

			if tc.expectedCode != http.StatusOK {
				return
			}
			var body struct {
				Sites []json.RawMessage `json:"sites"`
			}
			require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
			assert.Len(t, body.Sites, tc.wantSites)
		})
	}
}

func TestLambdaInit(t *testing.T) {
	resetService(t)
	t.Setenv("SITES_BUCKET", "")

	var startCalled bool
	lambdaStart = func(handler interface{}) {
		startCalled = true

		handlerType := reflect.TypeOf(handler)
		require.Equal(t, reflect.Func, handlerType.Kind())
		assert.Equal(t, reflect.TypeOf(events.APIGatewayProxyRequest{}), handlerType.In(1))
		assert.Equal(t, reflect.TypeOf(events.APIGatewayProxyResponse{}), handlerType.Out(0))
	}

	main()

	assert.True(t, startCalled, "Lambda start was not called")
	assert.NotNil(t, sitesHandler)
}

func TestLoggerSetup(t *testing.T) {
	for _, env := range []string{"development", "local", "production"} {
		t.Run(env, func(t *testing.T) {
			resetService(t)
			t.Setenv("ENV", env)

			initializeService()
			assert.NotNil(t, sitesHandler)
		})
	}
}
