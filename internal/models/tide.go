package models

import (
	"fmt"
	"time"
)

// FeetPerMeter converts WorldTides heights (meters) to the feet used by site thresholds.
const FeetPerMeter = 3.28084

type Trend string

const (
	TrendRising  Trend = "RISING"
	TrendFalling Trend = "FALLING"
	TrendSteady  Trend = "STEADY"
)

// Sample is a single tide height at a point in time
type Sample struct {
	Time   time.Time `json:"time" dynamodbav:"time"`
	Height float64   `json:"height" dynamodbav:"height"`
}

// Snapshot is the evaluation of one site at one instant. It is never cached.
type Snapshot struct {
	Site            string         `json:"site"`
	AsOf            time.Time      `json:"asOf"`
	EstimatedHeight float64        `json:"estimatedHeight"`
	Threshold       float64        `json:"threshold"`
	Usable          bool           `json:"usable"`
	Trend           Trend          `json:"trend"`
	NextChange      *time.Duration `json:"nextChange,omitempty"`
}

// Window is a contiguous run of usable samples. End is the first sample back above
// the threshold, or the last sample of the series when ClosedByDataEnd is set.
type Window struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ClosedByDataEnd bool      `json:"closedByDataEnd"`
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Segment is a run of samples sharing the same usable state
type Segment struct {
	Window
	Usable bool `json:"usable"`
}

// DaylightInterval is sunrise to sunset for one day at one location
type DaylightInterval struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

func (d DaylightInterval) Valid() bool {
	return !d.Sunrise.IsZero() && !d.Sunset.IsZero() && d.Sunrise.Before(d.Sunset)
}

// DaylightWindow is a low-tide window trimmed to daylight hours
type DaylightWindow struct {
	Window
	ClippedAtSunrise bool `json:"clippedAtSunrise"`
	ClippedAtSunset  bool `json:"clippedAtSunset"`
}

// BeachStatus is what the status API returns per site
type BeachStatus struct {
	Site      Site      `json:"site"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	Summary   string    `json:"summary"`
	FetchedAt time.Time `json:"fetchedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Notification is a push message handed to a Notifier
type Notification struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}

// Validate checks if a Sample's fields are valid
func (s *Sample) Validate() error {
	if s.Time.IsZero() {
		return fmt.Errorf("sample time is required")
	}
	return nil
}

// Validate checks if a Snapshot's fields are valid
func (s *Snapshot) Validate() error {
	if s.Site == "" {
		return fmt.Errorf("site is required")
	}
	if s.AsOf.IsZero() {
		return fmt.Errorf("asOf is required")
	}

	switch s.Trend {
	case TrendRising, TrendFalling, TrendSteady:
		// Valid trend
	default:
		return fmt.Errorf("invalid trend: %s", s.Trend)
	}

	if s.NextChange != nil && *s.NextChange < 0 {
		return fmt.Errorf("next change cannot be in the past: %s", *s.NextChange)
	}

	return nil
}
