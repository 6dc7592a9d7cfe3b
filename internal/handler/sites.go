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

type SitesHandler struct {
	siteFinder models.SiteFinder
}

func NewSitesHandler(finder models.SiteFinder) *SitesHandler {
	return &SitesHandler{
		siteFinder: finder,
	}
}

func (h *SitesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if name, ok := params["name"]; ok {
		found, err := h.siteFinder.FindSite(ctx, name)
		if errors.Is(err, site.ErrSiteNotFound) || (err == nil && found == nil) {
			return api.Error("Site not found", http.StatusNotFound)
		}
		if err != nil {
			return api.Error("Error finding site", http.StatusInternalServerError)
		}
		return api.Success(api.NewSitesResponse([]models.Site{*found}))
	}

	lat, lon, hasCoords, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr api.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	var sites []models.Site
	if hasCoords {
		sites, err = h.siteFinder.FindNearestSites(ctx, lat, lon, api.ParseLimit(params))
	} else {
		sites, err = h.siteFinder.ListSites(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Error finding sites")
		return api.Error("Error finding sites", http.StatusInternalServerError)
	}

	return api.Success(api.NewSitesResponse(sites))
}
