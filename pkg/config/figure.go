package config

import (
	"time"

	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/plots"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Default returns the configuration of the two Solar Orbiter overview
// figures from the first orbit after launch.
func Default() *Config {
	ept := plots.DefaultEPT()
	mag := plots.DefaultMAG()
	cfg := &Config{
		Style:     style.ESA,
		Formats:   []string{"pdf", "png"},
		OutputDir: ".",
		DPI:       300,
		Ephemeris: ephemeris.Source{Kind: ephemeris.KindKepler, Kepler: ephemeris.SolarOrbiter2020},
		Figures: []Figure{
			{
				Name:    "ept_orbit_plot",
				Kind:    KindEPT,
				Start:   utc(2020, 5, 1),
				End:     utc(2020, 12, 10),
				Samples: 1000,
				// The first arrow predates the trajectory and sits on its start.
				Arrows:      []time.Time{utc(2020, 3, 29), utc(2020, 5, 27), utc(2020, 9, 11)},
				Raised:      []time.Time{utc(2020, 12, 1)},
				MarkerScale: ept.MarkerScale,
				EPT: &EPT{
					IonFile:       "data/ept_ion.csv",
					ElectronFile:  "data/ept_electron.csv",
					Resample:      Duration{ept.Resample},
					IonShift:      ptr(ept.IonShift),
					ElectronShift: ptr(ept.ElectronShift),
					IonScale:      ept.IonScale,
					ElectronScale: ept.ElectronScale,
					Colormap:      "turbo",
				},
			},
			{
				Name:          "mag_orbit_plot",
				Kind:          KindMAG,
				Start:         utc(2020, 6, 1),
				End:           utc(2020, 12, 10),
				Samples:       5000,
				Title:         mag.Title,
				Credit:        mag.Credit,
				Arrows:        []time.Time{utc(2020, 9, 13)},
				LabelDistance: mag.LabelDistance,
				MarkerScale:   mag.MarkerScale,
				MAG: &MAG{
					File:      "data/mag_rtn.csv",
					Resample:  Duration{mag.Resample},
					TrimBins:  ptr(mag.TrimBins),
					LineScale: mag.LineScale,
					LineWidth: mag.LineWidth,
				},
			},
		},
	}
	for i := range cfg.Figures {
		cfg.Figures[i].setDefaults()
	}
	return cfg
}

func (f *Figure) setDefaults() {
	l := plots.DefaultLayout()
	if f.Size == [2]float64{} {
		f.Size = [2]float64{l.WidthIn, l.HeightIn}
	}
	if f.XLim == [2]float64{} {
		f.XLim = l.XLim
	}
	if f.YLim == [2]float64{} {
		f.YLim = l.YLim
	}
	if f.Samples == 0 {
		f.Samples = 1000
	}
	f.Start, f.End = f.Start.UTC(), f.End.UTC()
	f.Arrows = utcAll(f.Arrows)
	f.Raised = utcAll(f.Raised)

	switch f.Kind {
	case KindEPT:
		def := plots.DefaultEPT()
		if f.MarkerScale == 0 {
			f.MarkerScale = def.MarkerScale
		}
		if f.EPT == nil {
			f.EPT = &EPT{}
		}
		e := f.EPT
		if e.Resample.Duration == 0 {
			e.Resample.Duration = def.Resample
		}
		if e.IonShift == nil {
			e.IonShift = ptr(def.IonShift)
		}
		if e.ElectronShift == nil {
			e.ElectronShift = ptr(def.ElectronShift)
		}
		if e.IonScale == 0 {
			e.IonScale = def.IonScale
		}
		if e.ElectronScale == 0 {
			e.ElectronScale = def.ElectronScale
		}
		if e.Colormap == "" {
			e.Colormap = "turbo"
		}
	case KindMAG:
		def := plots.DefaultMAG()
		if f.MarkerScale == 0 {
			f.MarkerScale = def.MarkerScale
		}
		if f.MAG == nil {
			f.MAG = &MAG{}
		}
		m := f.MAG
		if m.TrimBins == nil {
			m.TrimBins = ptr(def.TrimBins)
		}
		if m.Resample.Duration == 0 {
			m.Resample.Duration = def.Resample
		}
		if m.LineScale == 0 {
			m.LineScale = def.LineScale
		}
		if m.LineWidth == 0 {
			m.LineWidth = def.LineWidth
		}
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func utcAll(ts []time.Time) []time.Time {
	for i, t := range ts {
		ts[i] = t.UTC()
	}
	return ts
}

// Validate checks one figure.
func (f Figure) Validate() error {
	if err := errors.ValidateFigureName(f.Name); err != nil {
		return err
	}
	if err := errors.ValidateTimeRange(f.Start, f.End); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "figure %q", f.Name)
	}
	if f.Samples < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q needs at least 2 samples, got %d", f.Name, f.Samples)
	}
	if !(f.Size[0] > 0) || !(f.Size[1] > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q size must be positive, got %v", f.Name, f.Size)
	}
	if !(f.XLim[1] > f.XLim[0]) || !(f.YLim[1] > f.YLim[0]) {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q limits must be increasing, got x=%v y=%v", f.Name, f.XLim, f.YLim)
	}

	switch f.Kind {
	case KindEPT:
		if f.EPT == nil || f.EPT.IonFile == "" || f.EPT.ElectronFile == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "figure %q needs [figure.ept] ion_file and electron_file", f.Name)
		}
		if f.EPT.Resample.Duration <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "figure %q resample must be positive", f.Name)
		}
		if _, err := style.ColormapByName(f.EPT.Colormap); err != nil {
			return err
		}
	case KindMAG:
		if f.MAG == nil || f.MAG.File == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "figure %q needs [figure.mag] file", f.Name)
		}
		if f.MAG.Resample.Duration <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "figure %q resample must be positive", f.Name)
		}
		if f.MAG.TrimBins != nil && *f.MAG.TrimBins < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "figure %q trim_bins must not be negative", f.Name)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q has unknown kind %q (must be one of: ept, mag)", f.Name, f.Kind)
	}
	return nil
}

// Layout converts the shared figure settings.
func (f Figure) Layout() plots.Layout {
	l := plots.DefaultLayout()
	l.WidthIn, l.HeightIn = f.Size[0], f.Size[1]
	l.XLim, l.YLim = f.XLim, f.YLim
	l.Title = f.Title
	l.Credit = f.Credit
	l.CreditAt = geom.Pt(f.XLim[1]-0.05, f.YLim[0]+0.05)
	l.Arrows = f.Arrows
	l.Raised = f.Raised
	l.LabelDistance = f.LabelDistance
	l.MarkerScale = f.MarkerScale
	return l
}

// EPTOptions converts an "ept" figure to builder options.
func (f Figure) EPTOptions() (plots.EPTOptions, error) {
	if f.EPT == nil {
		return plots.EPTOptions{}, errors.New(errors.ErrCodeInvalidConfig, "figure %q has no ept settings", f.Name)
	}
	cmap, err := style.ColormapByName(f.EPT.Colormap)
	if err != nil {
		return plots.EPTOptions{}, err
	}
	return plots.EPTOptions{
		Layout:        f.Layout(),
		Resample:      f.EPT.Resample.Duration,
		IonShift:      deref(f.EPT.IonShift),
		ElectronShift: deref(f.EPT.ElectronShift),
		IonScale:      f.EPT.IonScale,
		ElectronScale: f.EPT.ElectronScale,
		Colormap:      cmap,
	}, nil
}

// MAGOptions converts a "mag" figure to builder options.
func (f Figure) MAGOptions() (plots.MAGOptions, error) {
	if f.MAG == nil {
		return plots.MAGOptions{}, errors.New(errors.ErrCodeInvalidConfig, "figure %q has no mag settings", f.Name)
	}
	return plots.MAGOptions{
		Layout:    f.Layout(),
		Resample:  f.MAG.Resample.Duration,
		TrimBins:  deref(f.MAG.TrimBins),
		LineScale: f.MAG.LineScale,
		LineWidth: f.MAG.LineWidth,
	}, nil
}
