package tide

import (
	"github.com/cliffcheck/beachable/internal/models"
)

// Intersect trims a window to daylight hours. The boolean is false when nothing of
// positive length remains, including when the daylight interval itself is invalid.
func Intersect(window models.Window, daylight models.DaylightInterval) (models.DaylightWindow, bool) {
	if !daylight.Valid() {
		return models.DaylightWindow{}, false
	}
	if !window.End.After(daylight.Sunrise) || !window.Start.Before(daylight.Sunset) {
		return models.DaylightWindow{}, false
	}

	result := models.DaylightWindow{Window: window}
	if window.Start.Before(daylight.Sunrise) {
		result.Start = daylight.Sunrise
		result.ClippedAtSunrise = true
	}
	if window.End.After(daylight.Sunset) {
		result.End = daylight.Sunset
		result.ClippedAtSunset = true
		result.ClosedByDataEnd = false
	}

	if !result.Start.Before(result.End) {
		return models.DaylightWindow{}, false
	}
	return result, true
}
