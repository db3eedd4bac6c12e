package instrument

import (
	"strings"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// MAG component column names, in RTN order.
var MAGComponents = []string{"B_R", "B_T", "B_N"}

// LoadEPT reads EPT count rates restricted to [start, end].
// All channel columns are kept; the caller sums them per telescope.
func LoadEPT(path string, start, end time.Time) (*timeseries.Frame, error) {
	f, err := LoadFrame(path)
	if err != nil {
		return nil, err
	}
	out := f.Between(start, end)
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s has no EPT samples between %s and %s",
			path, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return out, nil
}

// LoadMAG reads the RTN magnetic field components restricted to [start, end].
// Column names are matched case-insensitively; other columns are dropped.
func LoadMAG(path string, start, end time.Time) (*timeseries.Frame, error) {
	f, err := LoadFrame(path)
	if err != nil {
		return nil, err
	}
	out, err := selectColumns(f, MAGComponents)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", path)
	}
	out = out.Between(start, end)
	if out.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s has no MAG samples between %s and %s",
			path, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return out, nil
}

func selectColumns(f *timeseries.Frame, names []string) (*timeseries.Frame, error) {
	out := &timeseries.Frame{Index: f.Index}
	for _, want := range names {
		found := false
		for _, c := range f.Columns {
			if strings.EqualFold(c.Name, want) {
				out.Columns = append(out.Columns, timeseries.Column{Name: want, Values: c.Values})
				found = true
				break
			}
		}
		if !found {
			return nil, errors.New(errors.ErrCodeInvalidInput, "missing column %q (have %v)", want, f.Names())
		}
	}
	return out, nil
}
