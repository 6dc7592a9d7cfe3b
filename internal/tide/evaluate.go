package tide

import (
	"fmt"
	"time"

	"github.com/cliffcheck/beachable/internal/models"
)

// Evaluate computes the snapshot of a site at the given instant. The series heights
// must already be in the unit of site.Threshold.
func Evaluate(series Series, site models.Site, now time.Time, opts Options) (models.Snapshot, error) {
	height, err := EstimateHeight(series, now, opts)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("estimating height for %s: %w", site.Name, err)
	}

	usable := IsUsable(height, site.Threshold)

	next, err := NextCrossing(series, now, site.Threshold, usable, opts)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("scanning crossings for %s: %w", site.Name, err)
	}

	return models.Snapshot{
		Site:            site.Name,
		AsOf:            now,
		EstimatedHeight: height,
		Threshold:       site.Threshold,
		Usable:          usable,
		Trend:           ClassifyTrend(series, now, opts),
		NextChange:      next,
	}, nil
}

// ActionableWindows returns the low-tide windows of the series that overlap
// daylight, trimmed to it.
func ActionableWindows(series Series, threshold float64, daylight models.DaylightInterval) []models.DaylightWindow {
	var out []models.DaylightWindow
	for w := range Windows(series, threshold) {
		if dw, ok := Intersect(w, daylight); ok {
			out = append(out, dw)
		}
	}
	return out
}
