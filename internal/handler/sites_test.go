package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/internal/site"
)

// mockSiteFinder implements models.SiteFinder for testing
type mockSiteFinder struct {
	findSiteFn         func(ctx context.Context, name string) (*models.Site, error)
	listSitesFn        func(ctx context.Context) ([]models.Site, error)
	findNearestSitesFn func(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error)
}

func (m *mockSiteFinder) FindSite(ctx context.Context, name string) (*models.Site, error) {
	if m.findSiteFn != nil {
		return m.findSiteFn(ctx, name)
	}
	return nil, nil
}

func (m *mockSiteFinder) ListSites(ctx context.Context) ([]models.Site, error) {
	if m.listSitesFn != nil {
		return m.listSitesFn(ctx)
	}
	return nil, nil
}

func (m *mockSiteFinder) FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
	if m.findNearestSitesFn != nil {
		return m.findNearestSitesFn(ctx, lat, lon, limit)
	}
	return nil, nil
}

func createTestSite(name string) models.Site {
	return models.Site{
		Name:      name,
		Threshold: 4.0,
		Latitude:  32.7378,
		Longitude: -117.2552,
		TimeZone:  "America/Los_Angeles",
	}
}

func decodeBody(t *testing.T, response events.APIGatewayProxyResponse) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	return body
}

func TestSitesHandler_HandleRequest(t *testing.T) {
	tests := []struct {
		name      string
		request   events.APIGatewayProxyRequest
		finder    *mockSiteFinder
		wantCount int
		wantLimit int
	}{
		{
			name: "lookup by name",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"name": "bermuda beach"},
			},
			finder: &mockSiteFinder{
				findSiteFn: func(_ context.Context, name string) (*models.Site, error) {
					s := createTestSite("Bermuda Beach")
					return &s, nil
				},
			},
			wantCount: 1,
		},
		{
			name: "nearest sites",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"lat": "32.74", "lon": "-117.25", "limit": "2"},
			},
			finder: &mockSiteFinder{
				findNearestSitesFn: func(_ context.Context, _, _ float64, limit int) ([]models.Site, error) {
					assert.Equal(t, 2, limit)
					return []models.Site{createTestSite("Bermuda Beach"), createTestSite("New Break")}, nil
				},
			},
			wantCount: 2,
		},
		{
			name:    "all sites",
			request: events.APIGatewayProxyRequest{},
			finder: &mockSiteFinder{
				listSitesFn: func(context.Context) ([]models.Site, error) {
					return []models.Site{createTestSite("A"), createTestSite("B"), createTestSite("C")}, nil
				},
			},
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSitesHandler(tt.finder)

			response, err := handler.HandleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, response.StatusCode)

			body := decodeBody(t, response)
			assert.Equal(t, "sites", body["responseType"])
			assert.Len(t, body["sites"], tt.wantCount)
		})
	}
}

func TestSitesHandler_ErrorHandling(t *testing.T) {
	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		finder         *mockSiteFinder
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "site not found",
			request: events.APIGatewayProxyRequest{QueryStringParameters: map[string]string{"name": "Atlantis"}},
			finder: &mockSiteFinder{
				findSiteFn: func(_ context.Context, name string) (*models.Site, error) {
					return nil, fmt.Errorf("%w: %s", site.ErrSiteNotFound, name)
				},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Site not found",
		},
		{
			name:    "lookup failure",
			request: events.APIGatewayProxyRequest{QueryStringParameters: map[string]string{"name": "New Break"}},
			finder: &mockSiteFinder{
				findSiteFn: func(context.Context, string) (*models.Site, error) {
					return nil, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error finding site",
		},
		{
			name:    "nearest lookup failure",
			request: events.APIGatewayProxyRequest{QueryStringParameters: map[string]string{"lat": "32.7", "lon": "-117.2"}},
			finder: &mockSiteFinder{
				findNearestSitesFn: func(context.Context, float64, float64, int) ([]models.Site, error) {
					return nil, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error finding sites",
		},
		{
			name:           "invalid latitude",
			request:        events.APIGatewayProxyRequest{QueryStringParameters: map[string]string{"lat": "91", "lon": "0"}},
			finder:         &mockSiteFinder{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid coordinates",
		},
		{
			name:           "non-numeric coordinates",
			request:        events.APIGatewayProxyRequest{QueryStringParameters: map[string]string{"lat": "invalid", "lon": "-117.2"}},
			finder:         &mockSiteFinder{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSitesHandler(tt.finder)

			response, err := handler.HandleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			body := decodeBody(t, response)
			assert.Equal(t, "error", body["responseType"])
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}
