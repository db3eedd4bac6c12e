package plots

import (
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// MagnitudeColumn names the |B| column ConditionMAG inserts.
const MagnitudeColumn = "|B|"

// MAGOptions configures BuildMAG.
type MAGOptions struct {
	Layout

	Resample time.Duration
	// TrimBins drops partial bins at both ends after resampling.
	TrimBins  int
	LineScale float64
	LineWidth float64
}

// DefaultMAG reproduces the Solar Orbiter MAG overview figure.
func DefaultMAG() MAGOptions {
	l := DefaultLayout()
	l.Title = "Solar Orbiter MAG magnetic field — first orbit"
	l.Credit = "Data: Solar Orbiter/MAG (ESA & NASA) | Plot: Johan von Forstner, CAU Kiel"
	l.LabelDistance = 1.2
	return MAGOptions{
		Layout:    l,
		Resample:  5 * time.Hour,
		TrimBins:  1,
		LineScale: 0.01,
		LineWidth: 0.5,
	}
}

// ConditionMAG averages the field components into bins of step, drops trim
// bins at each end and prepends the field magnitude as column |B|.
func ConditionMAG(f *timeseries.Frame, step time.Duration, trim int) (*timeseries.Frame, error) {
	if f == nil || f.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no magnetic field samples")
	}
	binned, err := f.Resample(step)
	if err != nil {
		return nil, err
	}
	binned = binned.Trim(trim, trim)
	if binned.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "magnetic field data too short for %s bins", step)
	}
	if err := binned.InsertColumn(0, binned.Magnitude(MagnitudeColumn)); err != nil {
		return nil, err
	}
	return binned, nil
}

// BuildMAG draws |B| and the field components as thin lines along the orbit,
// one colour per column.
func BuildMAG(name string, o Orbit, data *timeseries.Frame, p style.Palette, opts MAGOptions) (*figure.Figure, error) {
	f, err := newOrbitFigure(name, o, p, opts.Layout)
	if err != nil {
		return nil, err
	}
	mag, err := ConditionMAG(data, opts.Resample, opts.TrimBins)
	if err != nil {
		return nil, err
	}

	lines, err := NewRibbon(o.Trajectory, opts.LineScale)
	if err != nil {
		return nil, err
	}
	for i := range mag.Columns {
		l, err := lines.Line(mag.Series(i), figure.Stroke{Color: p.CycleColor(i), Width: opts.LineWidth}, zData)
		if err != nil {
			return nil, err
		}
		f.Add(l)
	}

	if err := addMarkers(f, lines.WithScale(opts.MarkerScale), mag.Index[0], p, opts.Layout, zData); err != nil {
		return nil, err
	}
	return f, nil
}
