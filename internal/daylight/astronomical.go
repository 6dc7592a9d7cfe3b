package daylight

import (
	"context"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/cliffcheck/beachable/internal/models"
)

const (
	j2000        = 2451545.0
	horizonDeg   = -0.833 // apparent solar altitude at rise and set
	obliquityDeg = 23.4397
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// AstronomicalCalculator computes sunrise and sunset offline.
type AstronomicalCalculator struct{}

func (AstronomicalCalculator) FetchDaylight(_ context.Context, site models.Site, day time.Time) (models.DaylightInterval, error) {
	sunrise, sunset, ok := SunTimes(site.Latitude, site.Longitude, localDay(site, day))
	if !ok {
		return models.DaylightInterval{}, NewError(site.Name, "sun does not rise and set on this day", nil)
	}
	return models.DaylightInterval{
		Sunrise: sunrise.In(site.Location()),
		Sunset:  sunset.In(site.Location()),
	}, nil
}

// SunTimes returns sunrise and sunset for the calendar day of date at the given
// coordinates, longitude east positive. ok is false during polar day or night.
func SunTimes(lat, lon float64, date time.Time) (sunrise, sunset time.Time, ok bool) {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
	n := math.Round(julian.TimeToJD(noon.UTC()) - j2000 + lon/360)

	meanNoon := n - lon/360
	m := fixAngle(357.5291 + 0.98560028*meanNoon)
	mRad := degToRad(m)
	center := 1.9148*math.Sin(mRad) + 0.02*math.Sin(2*mRad) + 0.0003*math.Sin(3*mRad)
	lambda := degToRad(fixAngle(m + center + 180 + 102.9372))
	transit := j2000 + meanNoon + 0.0053*math.Sin(mRad) - 0.0069*math.Sin(2*lambda)

	sinDecl := math.Sin(lambda) * math.Sin(degToRad(obliquityDeg))
	cosDecl := math.Cos(math.Asin(sinDecl))
	latRad := degToRad(lat)

	cosHour := (math.Sin(degToRad(horizonDeg)) - math.Sin(latRad)*sinDecl) / (math.Cos(latRad) * cosDecl)
	if cosHour < -1 || cosHour > 1 {
		return time.Time{}, time.Time{}, false
	}
	halfDay := radToDeg(math.Acos(cosHour)) / 360

	return julian.JDToTime(transit - halfDay), julian.JDToTime(transit + halfDay), true
}
