package plots

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// EPTData holds the raw sun-telescope count rates, one column per channel.
type EPTData struct {
	Ion      *timeseries.Frame
	Electron *timeseries.Frame
}

// EPTOptions configures BuildEPT.
type EPTOptions struct {
	Layout

	Resample time.Duration
	// Shifts are added after the log10 so the bars stay positive.
	IonShift      float64
	ElectronShift float64
	// Scales set bar height per log decade; their signs put ions and
	// electrons on opposite sides of the orbit.
	IonScale      float64
	ElectronScale float64

	Colormap style.Colormap

	// Logger receives a warning for each species drawn without bars.
	// Nil discards it.
	Logger *log.Logger
}

// DefaultEPT reproduces the Solar Orbiter EPT overview figure.
func DefaultEPT() EPTOptions {
	l := DefaultLayout()
	l.MarkerScale = -0.15
	return EPTOptions{
		Layout:        l,
		Resample:      time.Hour,
		IonShift:      0.8,
		ElectronShift: 1.1,
		IonScale:      0.15,
		ElectronScale: -0.15,
		Colormap:      style.Turbo,
	}
}

// Species labels next to the start marker, in strip-chart offsets. They are
// placed with the marker ribbon, so "e" lands on the electron side.
var eptSpeciesLabels = []struct {
	text   string
	offset float64
}{
	{"e", 0.35},
	{"ion", -0.9},
}

// eptLabelLead is how many days after the first bin the species labels sit.
const eptLabelLead = 5

// ConditionEPT sums the channels of one telescope, averages into bins of
// step, takes log10 and adds shift. Empty bins and zero rates become NaN.
func ConditionEPT(f *timeseries.Frame, name string, step time.Duration, shift float64) (timeseries.Series, error) {
	if f == nil || f.Len() == 0 {
		return timeseries.Series{}, errors.New(errors.ErrCodeInvalidInput, "no %s count rates", name)
	}
	sum := f.RowSum()
	sum.Name = name
	binned, err := sum.Resample(step)
	if err != nil {
		return timeseries.Series{}, err
	}
	return binned.Log10().Shift(shift), nil
}

// BuildEPT draws ion and electron count rates as colour-coded bars on
// either side of the orbit.
func BuildEPT(name string, o Orbit, data EPTData, p style.Palette, opts EPTOptions) (*figure.Figure, error) {
	f, err := newOrbitFigure(name, o, p, opts.Layout)
	if err != nil {
		return nil, err
	}
	base, err := NewRibbon(o.Trajectory, opts.IonScale)
	if err != nil {
		return nil, err
	}
	cmap := opts.Colormap
	if cmap == nil {
		cmap = style.Turbo
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ion, err := ConditionEPT(data.Ion, "ion", opts.Resample, opts.IonShift)
	if err != nil {
		return nil, err
	}
	electron, err := ConditionEPT(data.Electron, "electron", opts.Resample, opts.ElectronShift)
	if err != nil {
		return nil, err
	}

	for _, track := range []struct {
		s     timeseries.Series
		scale float64
	}{
		{ion, opts.IonScale},
		{electron, opts.ElectronScale},
	} {
		width, err := track.s.Step()
		if err != nil {
			return nil, err
		}
		if _, _, ok := track.s.MinMax(); !ok {
			// Every bin was empty or zero; the orbit and labels still draw.
			logger.Warn("no finite count rates, skipping bars", "species", track.s.Name, "bins", track.s.Len())
			continue
		}
		norm, err := timeseries.NewNormalize(track.s)
		if err != nil {
			return nil, err
		}
		bars, err := base.WithScale(track.scale).Bars(track.s, width, norm, cmap, zData)
		if err != nil {
			return nil, err
		}
		f.Add(bars...)
	}

	marker := base.WithScale(opts.MarkerScale)
	t0 := electron.Index[0]
	if err := addMarkers(f, marker, t0, p, opts.Layout, zAnnot); err != nil {
		return nil, err
	}
	for _, l := range eptSpeciesLabels {
		at, err := marker.At(timeseries.DateNum(t0)+eptLabelLead, l.offset)
		if err != nil {
			return nil, err
		}
		f.Add(&figure.Text{
			At:      at,
			Content: l.text,
			Color:   p.Foreground,
			HAlign:  figure.AlignLeft,
			VAlign:  figure.AlignBaseline,
			Z:       zText,
		})
	}
	return f, nil
}
