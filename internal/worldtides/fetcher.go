package worldtides

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/pkg/http/client"
)

const (
	// Heights are requested every ten minutes against chart datum.
	stepSeconds = 600
	datum       = "CD"
)

// SampleFetcher loads a day of predicted water heights for a site.
type SampleFetcher interface {
	FetchSamples(ctx context.Context, site models.Site, day time.Time) ([]models.Sample, error)
}

type heightsResponse struct {
	Status  int            `json:"status"`
	Error   string         `json:"error"`
	Heights []heightRecord `json:"heights"`
}

type heightRecord struct {
	Dt     int64   `json:"dt"`
	Date   string  `json:"date"`
	Height float64 `json:"height"`
}

type Client struct {
	httpClient client.Interface
	apiKey     string
}

func NewClient(httpClient client.Interface, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

// FetchSamples returns heights in meters covering the site-local calendar day of day.
func (c *Client) FetchSamples(ctx context.Context, site models.Site, day time.Time) ([]models.Sample, error) {
	loc := site.Location()
	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	path := c.buildPath(site, start, end)

	log.Debug().
		Str("site", site.Name).
		Str("date", start.Format(time.DateOnly)).
		Msg("Fetching heights from WorldTides")

	resp, err := c.httpClient.Get(ctx, path)
	if err != nil {
		return nil, NewFetchError(0, "requesting heights", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The API reports some failures, like a bad key, as JSON with an error status
		var body heightsResponse
		if json.Unmarshal(resp.Body, &body) == nil && body.Error != "" {
			return nil, NewFetchError(resp.StatusCode, body.Error, nil)
		}
		return nil, NewFetchError(resp.StatusCode, "unexpected status", nil)
	}

	var body heightsResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, NewDecodeError("decoding heights", err)
	}

	if body.Error != "" {
		return nil, NewDecodeError(body.Error, nil)
	}

	if len(body.Heights) == 0 {
		return nil, fmt.Errorf("%s on %s: %w", site.Name, start.Format(time.DateOnly), ErrEmptyResult)
	}

	samples := make([]models.Sample, 0, len(body.Heights))
	for _, h := range body.Heights {
		samples = append(samples, models.Sample{
			Time:   time.Unix(h.Dt, 0).UTC(),
			Height: h.Height,
		})
	}

	log.Debug().
		Str("site", site.Name).
		Int("samples", len(samples)).
		Msg("Fetched heights from WorldTides")

	return samples, nil
}

func (c *Client) buildPath(site models.Site, start, end time.Time) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(site.Latitude, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(site.Longitude, 'f', 4, 64))
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("length", strconv.FormatInt(int64(end.Sub(start)/time.Second), 10))
	q.Set("step", strconv.Itoa(stepSeconds))
	q.Set("datum", datum)
	q.Set("key", c.apiKey)

	// heights is a bare flag in the v3 API
	return "/api/v3?heights&" + q.Encode()
}
