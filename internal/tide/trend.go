package tide

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/cliffcheck/beachable/internal/models"
)

// ClassifyTrend reports whether the tide is rising, falling or steady at the given
// time. Missing reference points on either side yield TrendSteady, not an error.
func ClassifyTrend(series Series, at time.Time, opts Options) models.Trend {
	if series.Len() < 2 {
		return models.TrendSteady
	}

	if opts.Trend == TrendWindowed {
		return windowedTrend(series, at, opts)
	}
	return pointPairTrend(series, at, opts.TrendEpsilon)
}

func pointPairTrend(series Series, at time.Time, epsilon float64) models.Trend {
	pastIdx := series.firstAtOrAfter(at) - 1
	futureIdx := series.upperIndex(at)
	if pastIdx < 0 || futureIdx >= series.Len() {
		return models.TrendSteady
	}

	return compareTrend(series.At(pastIdx).Height, series.At(futureIdx).Height, epsilon)
}

// windowedTrend compares the midrange of the samples in [at-w, at) with the
// midrange of the samples in (at, at+w].
func windowedTrend(series Series, at time.Time, opts Options) models.Trend {
	window := opts.TrendWindow
	if window <= 0 {
		window = defaultTrendWindow
	}

	var behind, ahead []float64
	for i := series.firstAtOrAfter(at.Add(-window)); i < series.Len(); i++ {
		s := series.At(i)
		if s.Time.After(at.Add(window)) {
			break
		}
		switch {
		case s.Time.Before(at):
			behind = append(behind, s.Height)
		case s.Time.After(at):
			ahead = append(ahead, s.Height)
		}
	}

	if len(behind) == 0 || len(ahead) == 0 {
		return models.TrendSteady
	}

	past := (floats.Max(behind) + floats.Min(behind)) / 2
	future := (floats.Max(ahead) + floats.Min(ahead)) / 2
	return compareTrend(past, future, opts.TrendEpsilon)
}

func compareTrend(past, future, epsilon float64) models.Trend {
	switch {
	case future > past+epsilon:
		return models.TrendRising
	case future < past-epsilon:
		return models.TrendFalling
	default:
		return models.TrendSteady
	}
}
