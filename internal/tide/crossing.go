package tide

import (
	"time"
)

// NextCrossing scans forward from the given time for the first sample whose state
// differs from currentUsable and returns how long until it. A flip that flips back
// before reaching the opposite state of currentUsable is not a crossing because
// each sample is compared with the current state, not with its predecessor.
// A nil duration means no change is predicted within the series. The duration is
// always positive: when the interpolated instant is not after the given time, as when
// the height sits exactly on the threshold, the differing sample's time is used.
func NextCrossing(series Series, at time.Time, threshold float64, currentUsable bool, opts Options) (*time.Duration, error) {
	if err := series.checkSize(); err != nil {
		return nil, err
	}

	prevTime := at
	prevHeight, err := EstimateHeight(series, at, Options{Height: HeightInterpolated, ClampOutOfRange: true})
	if err != nil {
		return nil, err
	}

	for i := series.firstAtOrAfter(at); i < series.Len(); i++ {
		sample := series.At(i)
		if IsUsable(sample.Height, threshold) == currentUsable {
			prevTime, prevHeight = sample.Time, sample.Height
			continue
		}

		crossing := sample.Time
		if opts.Crossing == CrossingInterpolated {
			crossing = solveCrossing(prevTime, prevHeight, sample.Time, sample.Height, threshold)
		}
		if !crossing.After(at) {
			crossing = sample.Time
		}

		d := crossing.Sub(at)
		return &d, nil
	}

	return nil, nil
}

// solveCrossing finds where the straight line between two points meets the threshold
func solveCrossing(t0 time.Time, h0 float64, t1 time.Time, h1, threshold float64) time.Time {
	if h1 == h0 || !t1.After(t0) {
		return t1
	}

	ratio := (threshold - h0) / (h1 - h0)
	switch {
	case ratio <= 0:
		return t0
	case ratio >= 1:
		return t1
	}
	return t0.Add(time.Duration(ratio * float64(t1.Sub(t0))))
}
