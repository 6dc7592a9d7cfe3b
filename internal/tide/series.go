package tide

import (
	"sort"
	"time"

	"github.com/cliffcheck/beachable/internal/models"
)

// Series is an immutable, time-ordered sequence of samples for one site.
// Refreshing a site means building a new Series, never editing one.
type Series struct {
	samples []models.Sample
}

// NewSeries copies and sorts the samples. When several samples share a timestamp
// only the first one in sorted order is kept.
func NewSeries(samples []models.Sample) Series {
	sorted := make([]models.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	deduped := sorted[:0]
	for i, s := range sorted {
		if i > 0 && s.Time.Equal(deduped[len(deduped)-1].Time) {
			continue
		}
		deduped = append(deduped, s)
	}

	return Series{samples: deduped}
}

func (s Series) Len() int {
	return len(s.samples)
}

func (s Series) At(i int) models.Sample {
	return s.samples[i]
}

// Samples returns a copy of the underlying samples
func (s Series) Samples() []models.Sample {
	out := make([]models.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s Series) First() models.Sample {
	return s.samples[0]
}

func (s Series) Last() models.Sample {
	return s.samples[len(s.samples)-1]
}

// Convert returns a new series with every height multiplied by factor
func (s Series) Convert(factor float64) Series {
	out := make([]models.Sample, len(s.samples))
	for i, sample := range s.samples {
		out[i] = models.Sample{Time: sample.Time, Height: sample.Height * factor}
	}
	return Series{samples: out}
}

func (s Series) checkSize() error {
	if len(s.samples) < 2 {
		return ErrInsufficientData
	}
	return nil
}

// upperIndex is the index of the first sample strictly after t
func (s Series) upperIndex(t time.Time) int {
	return sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].Time.After(t)
	})
}

// firstAtOrAfter is the index of the first sample at or after t
func (s Series) firstAtOrAfter(t time.Time) int {
	return sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].Time.Before(t)
	})
}
