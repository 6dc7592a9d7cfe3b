package site

import "github.com/cliffcheck/beachable/internal/models"

const pacific = "America/Los_Angeles"

// DefaultSites is the built-in catalog used when no catalog bucket is configured.
// Thresholds are in feet above chart datum.
func DefaultSites() []models.Site {
	return []models.Site{
		{Name: "New Break", Threshold: 1.5, Latitude: 32.7503, Longitude: -117.2550, TimeZone: pacific},
		{Name: "Bermuda Beach", Threshold: 4.0, Latitude: 32.7378, Longitude: -117.2552, TimeZone: pacific},
		{Name: "Kellogg Beach", Threshold: 5.5, Latitude: 32.7129, Longitude: -117.2382, TimeZone: pacific},
	}
}
