package models

import "time"

// Site is a beach with the tide height at or below which it is usable
type Site struct {
	Name      string  `json:"name" validate:"required"`
	Threshold float64 `json:"threshold"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	TimeZone  string  `json:"timeZone" validate:"required,timezone"`
	Distance  float64 `json:"distance,omitempty"`
}

// Location returns the site's time zone, falling back to UTC
func (s Site) Location() *time.Location {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
