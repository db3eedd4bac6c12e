package timeseries

import (
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// Series is a single named column with its time index.
type Series struct {
	Name   string
	Index  []time.Time
	Values []float64
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Values) }

// Log10 returns the base-10 logarithm of every value. Zero, negative and NaN
// inputs produce NaN; -Inf never appears in the result.
func (s Series) Log10() Series {
	out := s.withValues(make([]float64, len(s.Values)))
	for i, v := range s.Values {
		l := math.Log10(v)
		if math.IsInf(l, 0) {
			l = math.NaN()
		}
		out.Values[i] = l
	}
	return out
}

// Shift adds c to every value.
func (s Series) Shift(c float64) Series {
	out := s.withValues(make([]float64, len(s.Values)))
	for i, v := range s.Values {
		out.Values[i] = v + c
	}
	return out
}

// MinMax returns the smallest and largest finite values.
// ok is false when the series has no finite value.
func (s Series) MinMax() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return lo, hi, true
}

// Step returns the spacing of the first two samples in date-number units.
// This is the bar width used when drawing resampled data. It is taken from
// the duration between the samples, which stays exact where a difference of
// two large date numbers would not.
func (s Series) Step() (float64, error) {
	if len(s.Index) < 2 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "series %q needs at least 2 samples for a step, got %d", s.Name, len(s.Index))
	}
	return Days(s.Index[1].Sub(s.Index[0])), nil
}

// DateNums returns the index as date numbers.
func (s Series) DateNums() []float64 { return DateNums(s.Index) }

// Resample averages the series into bins of width step.
// See [Frame.Resample] for the binning rules.
func (s Series) Resample(step time.Duration) (Series, error) {
	f := &Frame{Index: s.Index, Columns: []Column{{Name: s.Name, Values: s.Values}}}
	r, err := f.Resample(step)
	if err != nil {
		return Series{}, err
	}
	return r.Series(0), nil
}

func (s Series) withValues(v []float64) Series {
	return Series{Name: s.Name, Index: s.Index, Values: v}
}

// Normalize linearly maps [Vmin, Vmax] onto [0, 1].
type Normalize struct {
	Vmin, Vmax float64
}

// NewNormalize builds a Normalize spanning the finite values of s.
func NewNormalize(s Series) (Normalize, error) {
	lo, hi, ok := s.MinMax()
	if !ok {
		return Normalize{}, errors.New(errors.ErrCodeInvalidInput, "series %q has no finite values", s.Name)
	}
	return Normalize{Vmin: lo, Vmax: hi}, nil
}

// Apply maps v into [0, 1]. Values outside the range are not clipped.
// A degenerate range maps everything to 0; NaN stays NaN.
func (n Normalize) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if n.Vmax == n.Vmin {
		return 0
	}
	return (v - n.Vmin) / (n.Vmax - n.Vmin)
}
