package tide

import (
	"iter"

	"github.com/cliffcheck/beachable/internal/models"
)

// Segments walks the series once and yields alternating runs of usable and
// unusable samples. Each segment ends at the first sample of the next one, and the
// final segment ends at the last sample with ClosedByDataEnd set, so together they
// cover the whole series. The sequence can be ranged over any number of times.
func Segments(series Series, threshold float64) iter.Seq[models.Segment] {
	return func(yield func(models.Segment) bool) {
		if series.Len() < 2 {
			return
		}

		first := series.First()
		open := models.Segment{
			Window: models.Window{Start: first.Time},
			Usable: IsUsable(first.Height, threshold),
		}

		for i := 1; i < series.Len(); i++ {
			sample := series.At(i)
			usable := IsUsable(sample.Height, threshold)
			if usable == open.Usable {
				continue
			}

			open.End = sample.Time
			if !yield(open) {
				return
			}
			open = models.Segment{
				Window: models.Window{Start: sample.Time},
				Usable: usable,
			}
		}

		open.End = series.Last().Time
		open.ClosedByDataEnd = true
		yield(open)
	}
}

// Windows yields the usable segments of the series in chronological order
func Windows(series Series, threshold float64) iter.Seq[models.Window] {
	return func(yield func(models.Window) bool) {
		for seg := range Segments(series, threshold) {
			if !seg.Usable {
				continue
			}
			if !yield(seg.Window) {
				return
			}
		}
	}
}
