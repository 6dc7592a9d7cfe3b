package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/api"
	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/internal/site"
)

// BeachService is the part of beach.Service the handler depends on
type BeachService interface {
	Status(ctx context.Context, siteName string) (*models.BeachStatus, error)
	StatusAll(ctx context.Context) ([]models.BeachStatus, error)
	Nearby(ctx context.Context, lat, lon float64, limit int) ([]models.BeachStatus, error)
}

type BeachesHandler struct {
	service BeachService
}

func NewBeachesHandler(service BeachService) *BeachesHandler {
	return &BeachesHandler{
		service: service,
	}
}

// HandleRequest answers ?site=<name>, ?lat=&lon=[&limit=] or, with neither, every site.
func (h *BeachesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if name, ok := params["site"]; ok {
		status, err := h.service.Status(ctx, name)
		if errors.Is(err, site.ErrSiteNotFound) {
			return api.Error("Site not found", http.StatusNotFound)
		}
		if err != nil {
			log.Error().Err(err).Str("site", name).Msg("Error getting beach status")
			return api.Error("Error getting beach status", http.StatusInternalServerError)
		}
		return api.Success(api.NewBeachesResponse([]models.BeachStatus{*status}))
	}

	lat, lon, hasCoords, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr api.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	var statuses []models.BeachStatus
	if hasCoords {
		statuses, err = h.service.Nearby(ctx, lat, lon, api.ParseLimit(params))
	} else {
		statuses, err = h.service.StatusAll(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Error getting beach statuses")
		return api.Error("Error getting beach status", http.StatusInternalServerError)
	}

	return api.Success(api.NewBeachesResponse(statuses))
}
