package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/cliffcheck/beachable/internal/models"
)

const DefaultLimit = 5

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type BeachesResponse struct {
	APIResponse
	Beaches []models.BeachStatus `json:"beaches"`
}

type SitesResponse struct {
	APIResponse
	Sites []models.Site `json:"sites"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewBeachesResponse(beaches []models.BeachStatus) *BeachesResponse {
	return &BeachesResponse{
		APIResponse: APIResponse{ResponseType: "beaches"},
		Beaches:     beaches,
	}
}

func NewSitesResponse(sites []models.Site) *SitesResponse {
	return &SitesResponse{
		APIResponse: APIResponse{ResponseType: "sites"},
		Sites:       sites,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers(),
		Body:       string(body),
	}, nil
}

func headers() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// ParseCoordinates reads lat and lon from the query. ok is false when either is
// missing.
func ParseCoordinates(params map[string]string) (lat, lon float64, ok bool, err error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat || !hasLon {
		return 0, 0, false, nil
	}

	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false, err
	}

	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false, err
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false, InvalidCoordinatesError{}
	}

	return lat, lon, true, nil
}

// ParseLimit reads the limit parameter, falling back to DefaultLimit when it is
// missing, malformed or not positive.
func ParseLimit(params map[string]string) int {
	if limitStr, ok := params["limit"]; ok {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return DefaultLimit
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}
