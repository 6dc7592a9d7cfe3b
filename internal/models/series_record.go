package models

import (
	"fmt"
	"time"
)

// SeriesRecord is the last complete sample series fetched for a site and day
type SeriesRecord struct {
	SiteName  string   `dynamodbav:"siteName" json:"siteName"`
	Date      string   `dynamodbav:"date" json:"date"`
	Samples   []Sample `dynamodbav:"samples" json:"samples"`
	FetchedAt int64    `dynamodbav:"fetchedAt" json:"fetchedAt"`
	TTL       int64    `dynamodbav:"ttl" json:"ttl"`
}

// Age reports how long ago the record was fetched
func (r *SeriesRecord) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(r.FetchedAt, 0))
}

// Validate checks if a SeriesRecord's fields are valid
func (r *SeriesRecord) Validate() error {
	if r.SiteName == "" {
		return fmt.Errorf("site name is required")
	}

	if r.Date == "" {
		return fmt.Errorf("date is required")
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format: %s", r.Date)
	}

	if len(r.Samples) == 0 {
		return fmt.Errorf("record has no samples")
	}

	for i, s := range r.Samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid sample at index %d: %w", i, err)
		}
	}

	return nil
}
