package alert

import (
	"fmt"
	"time"

	"github.com/cliffcheck/beachable/internal/models"
)

const clockFormat = "3:04 PM"

// BuildNotification renders the push message for one daylight window
func BuildNotification(site models.Site, w models.DaylightWindow, topic string) models.Notification {
	return models.Notification{
		Title:    fmt.Sprintf("🌊 %s is looking good!", site.Name),
		Body:     fmt.Sprintf("Beachable from %s.", FormatWindow(w, site.Location())),
		Audience: topic,
	}
}

// FormatWindow renders "6:30 AM (sunrise) to 7:00 AM" in the given zone
func FormatWindow(w models.DaylightWindow, loc *time.Location) string {
	start := w.Start.In(loc).Format(clockFormat)
	if w.ClippedAtSunrise {
		start += " (sunrise)"
	}

	end := w.End.In(loc).Format(clockFormat)
	if w.ClippedAtSunset {
		end += " (sunset)"
	}

	return start + " to " + end
}
