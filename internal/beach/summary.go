package beach

import (
	"fmt"
	"time"

	"github.com/cliffcheck/beachable/internal/models"
)

const (
	SummaryNoData           = "No data"
	SummaryGoodAllDay       = "✓ Good all day"
	SummaryUnderwaterAllDay = "✗ Underwater all day"
	summaryGoodFor          = "✓ Good for"
	summaryReturnsIn        = "✗ Returns in"
)

// Summarize renders a snapshot as the one-line status shown to users
func Summarize(s models.Snapshot) string {
	if s.NextChange == nil {
		if s.Usable {
			return SummaryGoodAllDay
		}
		return SummaryUnderwaterAllDay
	}

	prefix := summaryReturnsIn
	if s.Usable {
		prefix = summaryGoodFor
	}
	return fmt.Sprintf("%s %s", prefix, formatDuration(*s.NextChange))
}

// formatDuration renders whole hours and minutes, truncating seconds
func formatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
