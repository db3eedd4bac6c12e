package timeseries

import (
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// Column is one named channel of a Frame.
type Column struct {
	Name   string
	Values []float64
}

// Frame is a time index with aligned columns.
type Frame struct {
	Index   []time.Time
	Columns []Column
}

// NewFrame creates an empty frame with the given column names.
func NewFrame(names ...string) *Frame {
	f := &Frame{Columns: make([]Column, len(names))}
	for i, n := range names {
		f.Columns[i].Name = n
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// Append adds one row. len(values) must equal the number of columns.
func (f *Frame) Append(t time.Time, values ...float64) error {
	if len(values) != len(f.Columns) {
		return errors.New(errors.ErrCodeShapeMismatch, "row at %s has %d values, frame has %d columns",
			t.Format(time.RFC3339), len(values), len(f.Columns))
	}
	f.Index = append(f.Index, t)
	for i, v := range values {
		f.Columns[i].Values = append(f.Columns[i].Values, v)
	}
	return nil
}

// Validate checks that every column is aligned with the index.
func (f *Frame) Validate() error {
	for _, c := range f.Columns {
		if len(c.Values) != len(f.Index) {
			return errors.New(errors.ErrCodeShapeMismatch, "column %q has %d values, index has %d",
				c.Name, len(c.Values), len(f.Index))
		}
	}
	return nil
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Series returns column i as a Series sharing the frame's index.
func (f *Frame) Series(i int) Series {
	return Series{Name: f.Columns[i].Name, Index: f.Index, Values: f.Columns[i].Values}
}

// Column returns the named column.
func (f *Frame) Column(name string) (Series, bool) {
	for i, c := range f.Columns {
		if c.Name == name {
			return f.Series(i), true
		}
	}
	return Series{}, false
}

// InsertColumn inserts s at position pos. The series must share the frame's length.
func (f *Frame) InsertColumn(pos int, s Series) error {
	if len(s.Values) != len(f.Index) {
		return errors.New(errors.ErrCodeShapeMismatch, "column %q has %d values, index has %d",
			s.Name, len(s.Values), len(f.Index))
	}
	if pos < 0 || pos > len(f.Columns) {
		return errors.New(errors.ErrCodeOutOfRange, "column position %d out of range [0, %d]", pos, len(f.Columns))
	}
	col := Column{Name: s.Name, Values: s.Values}
	f.Columns = append(f.Columns, Column{})
	copy(f.Columns[pos+1:], f.Columns[pos:])
	f.Columns[pos] = col
	return nil
}

// RowSum sums each row, skipping NaN. A row without any finite value sums to 0.
func (f *Frame) RowSum() Series {
	out := Series{Name: "sum", Index: f.Index, Values: make([]float64, len(f.Index))}
	for _, c := range f.Columns {
		for i, v := range c.Values {
			if !math.IsNaN(v) {
				out.Values[i] += v
			}
		}
	}
	return out
}

// Magnitude returns sqrt(sum of squares) per row. NaN in any component
// contributes nothing; a row of only NaN yields 0.
func (f *Frame) Magnitude(name string) Series {
	out := Series{Name: name, Index: f.Index, Values: make([]float64, len(f.Index))}
	for _, c := range f.Columns {
		for i, v := range c.Values {
			if !math.IsNaN(v) {
				out.Values[i] += v * v
			}
		}
	}
	for i, v := range out.Values {
		out.Values[i] = math.Sqrt(v)
	}
	return out
}

// Between returns the rows with start <= t <= end.
func (f *Frame) Between(start, end time.Time) *Frame {
	out := NewFrame(f.Names()...)
	for i, t := range f.Index {
		if t.Before(start) || t.After(end) {
			continue
		}
		out.Index = append(out.Index, t)
		for j := range f.Columns {
			out.Columns[j].Values = append(out.Columns[j].Values, f.Columns[j].Values[i])
		}
	}
	return out
}

// Trim drops head rows from the start and tail rows from the end.
func (f *Frame) Trim(head, tail int) *Frame {
	n := len(f.Index)
	lo, hi := head, n-tail
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return NewFrame(f.Names()...)
	}
	out := &Frame{Index: f.Index[lo:hi], Columns: make([]Column, len(f.Columns))}
	for i, c := range f.Columns {
		out.Columns[i] = Column{Name: c.Name, Values: c.Values[lo:hi]}
	}
	return out
}

// Resample averages every column into bins of width step.
//
// Bins are closed on the left and labelled by their start. They are aligned
// to midnight UTC of the day of the earliest sample, so 5h bins start at
// 00:00, 05:00, 10:00 ... of that day. Bins span from the one holding the
// earliest sample to the one holding the latest; bins without finite values
// are NaN.
func (f *Frame) Resample(step time.Duration) (*Frame, error) {
	if step <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resample step must be positive, got %s", step)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(f.Index) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot resample an empty frame")
	}

	first, last := f.Index[0], f.Index[0]
	for _, t := range f.Index[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	y, m, d := first.UTC().Date()
	origin := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	bin := func(t time.Time) int { return int(t.Sub(origin) / step) }
	k0 := bin(first)
	nbins := bin(last) - k0 + 1

	out := &Frame{Index: make([]time.Time, nbins), Columns: make([]Column, len(f.Columns))}
	for b := range out.Index {
		out.Index[b] = origin.Add(time.Duration(k0+b) * step)
	}

	counts := make([]int, nbins)
	for j, c := range f.Columns {
		sums := make([]float64, nbins)
		clear(counts)
		for i, v := range c.Values {
			if math.IsNaN(v) {
				continue
			}
			b := bin(f.Index[i]) - k0
			sums[b] += v
			counts[b]++
		}
		for b := range sums {
			if counts[b] == 0 {
				sums[b] = math.NaN()
			} else {
				sums[b] /= float64(counts[b])
			}
		}
		out.Columns[j] = Column{Name: c.Name, Values: sums}
	}
	return out, nil
}
