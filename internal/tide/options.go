package tide

import (
	"fmt"
	"strings"
	"time"
)

type HeightStrategy string

const (
	HeightInterpolated HeightStrategy = "interpolated"
	HeightNearest      HeightStrategy = "nearest"
)

type TrendStrategy string

const (
	TrendPointPair TrendStrategy = "point"
	TrendWindowed  TrendStrategy = "windowed"
)

type CrossingPrecision string

const (
	CrossingAtSample     CrossingPrecision = "sample"
	CrossingInterpolated CrossingPrecision = "interpolated"
)

const (
	defaultTrendEpsilon = 0.01
	defaultTrendWindow  = 2 * time.Hour
)

// Options selects between the evaluation strategies. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	Height HeightStrategy
	// ClampOutOfRange falls back to the nearest end sample when the query time is
	// outside the series. Without it such queries fail with ErrInsufficientData.
	ClampOutOfRange bool

	Trend        TrendStrategy
	TrendEpsilon float64
	TrendWindow  time.Duration

	Crossing CrossingPrecision
}

func DefaultOptions() Options {
	return Options{
		Height:          HeightInterpolated,
		ClampOutOfRange: true,
		Trend:           TrendPointPair,
		TrendEpsilon:    defaultTrendEpsilon,
		TrendWindow:     defaultTrendWindow,
		Crossing:        CrossingAtSample,
	}
}

func ParseHeightStrategy(s string) (HeightStrategy, error) {
	switch HeightStrategy(strings.ToLower(s)) {
	case HeightInterpolated:
		return HeightInterpolated, nil
	case HeightNearest:
		return HeightNearest, nil
	}
	return "", fmt.Errorf("unknown height strategy: %q", s)
}

func ParseTrendStrategy(s string) (TrendStrategy, error) {
	switch TrendStrategy(strings.ToLower(s)) {
	case TrendPointPair:
		return TrendPointPair, nil
	case TrendWindowed:
		return TrendWindowed, nil
	}
	return "", fmt.Errorf("unknown trend strategy: %q", s)
}

func ParseCrossingPrecision(s string) (CrossingPrecision, error) {
	switch CrossingPrecision(strings.ToLower(s)) {
	case CrossingAtSample:
		return CrossingAtSample, nil
	case CrossingInterpolated:
		return CrossingInterpolated, nil
	}
	return "", fmt.Errorf("unknown crossing precision: %q", s)
}
