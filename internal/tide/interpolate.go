package tide

import (
	"time"
)

// EstimateHeight estimates the tide height at the given time. Between samples the
// height is interpolated linearly. Outside the series the nearest end sample is used
// when opts.ClampOutOfRange is set; tide curves are never extrapolated.
func EstimateHeight(series Series, at time.Time, opts Options) (float64, error) {
	if err := series.checkSize(); err != nil {
		return 0, err
	}

	idx := series.upperIndex(at)
	if idx == 0 || idx == series.Len() {
		// at is before the first sample, or at/after the last one
		if idx == series.Len() && at.Equal(series.Last().Time) {
			return series.Last().Height, nil
		}
		if !opts.ClampOutOfRange {
			return 0, ErrInsufficientData
		}
		if idx == 0 {
			return series.First().Height, nil
		}
		return series.Last().Height, nil
	}

	lower := series.At(idx - 1)
	upper := series.At(idx)

	if opts.Height == HeightNearest {
		if at.Sub(lower.Time) <= upper.Time.Sub(at) {
			return lower.Height, nil
		}
		return upper.Height, nil
	}

	span := upper.Time.Sub(lower.Time)
	if span <= 0 {
		return lower.Height, nil
	}

	ratio := float64(at.Sub(lower.Time)) / float64(span)
	return lower.Height + ratio*(upper.Height-lower.Height), nil
}
