package daylight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/pkg/http/client"
)

// Clock times in the response look like "6:01:23 AM"
const clockLayout = "2006-01-02 3:04:05 PM"

type sunResponse struct {
	Status  string     `json:"status"`
	Results sunResults `json:"results"`
}

type sunResults struct {
	Sunrise    string `json:"sunrise"`
	Sunset     string `json:"sunset"`
	FirstLight string `json:"first_light"`
	LastLight  string `json:"last_light"`
	Timezone   string `json:"timezone"`
}

// SunriseSunsetClient reads daylight from the sunrisesunset.io API.
type SunriseSunsetClient struct {
	httpClient client.Interface
}

func NewSunriseSunsetClient(httpClient client.Interface) *SunriseSunsetClient {
	return &SunriseSunsetClient{httpClient: httpClient}
}

func (c *SunriseSunsetClient) FetchDaylight(ctx context.Context, site models.Site, day time.Time) (models.DaylightInterval, error) {
	date := localDay(site, day)

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(site.Latitude, 'f', 4, 64))
	q.Set("lng", strconv.FormatFloat(site.Longitude, 'f', 4, 64))
	q.Set("date", date.Format(time.DateOnly))
	q.Set("tzid", date.Location().String())

	resp, err := c.httpClient.Get(ctx, "/json?"+q.Encode())
	if err != nil {
		return models.DaylightInterval{}, NewError(site.Name, "requesting sunrise and sunset", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.DaylightInterval{}, NewError(site.Name, "unexpected status "+strconv.Itoa(resp.StatusCode), nil)
	}

	var body sunResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.DaylightInterval{}, NewError(site.Name, "decoding response", err)
	}
	if body.Status != "OK" {
		return models.DaylightInterval{}, NewError(site.Name, "api status "+body.Status, nil)
	}

	sunrise, err := parseClock(date, body.Results.Sunrise)
	if err != nil {
		return models.DaylightInterval{}, NewError(site.Name, "parsing sunrise", err)
	}
	sunset, err := parseClock(date, body.Results.Sunset)
	if err != nil {
		return models.DaylightInterval{}, NewError(site.Name, "parsing sunset", err)
	}

	interval := models.DaylightInterval{Sunrise: sunrise, Sunset: sunset}
	if !interval.Valid() {
		return models.DaylightInterval{}, NewError(site.Name, "sunset is not after sunrise", nil)
	}

	log.Debug().
		Str("site", site.Name).
		Time("sunrise", sunrise).
		Time("sunset", sunset).
		Msg("Fetched daylight")

	return interval, nil
}

func parseClock(date time.Time, clock string) (time.Time, error) {
	return time.ParseInLocation(clockLayout, date.Format(time.DateOnly)+" "+clock, date.Location())
}
