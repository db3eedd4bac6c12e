package timeseries

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// epoch is the zero of the date-number scale.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// DateNum converts t to fractional days since 1970-01-01 UTC.
func DateNum(t time.Time) float64 {
	return float64(t.Sub(epoch)) / float64(day)
}

// FromDateNum converts a date number back into a UTC time.
// The result is rounded to the nearest microsecond.
func FromDateNum(d float64) time.Time {
	us := math.Round(d * float64(day/time.Microsecond))
	return epoch.Add(time.Duration(us) * time.Microsecond)
}

// DateNums converts every time in ts.
func DateNums(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = DateNum(t)
	}
	return out
}

// Days converts a duration into date-number units.
func Days(d time.Duration) float64 {
	return float64(d) / float64(day)
}

// Linspace returns n times evenly spaced over [start, end], both inclusive.
// With n == 1 it returns just start.
func Linspace(start, end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	if n == 1 {
		out[0] = start
		return out
	}
	span := end.Sub(start).Seconds()
	for i := range out {
		sec := span * float64(i) / float64(n-1)
		out[i] = start.Add(time.Duration(sec * float64(time.Second)))
	}
	out[n-1] = end
	return out
}
