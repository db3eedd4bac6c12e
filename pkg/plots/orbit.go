package plots

import (
	"time"

	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/labeling"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// Z orders shared by the builders.
const (
	zGrid   = 1
	zAnnot  = 2
	zText   = 3
	zData   = 9
	zOrbit  = 10
	zMarker = 10
)

// Orbit is the trajectory a figure is drawn around.
type Orbit struct {
	Trajectory *ephemeris.Trajectory
	// Position locates date labels; it must agree with Trajectory.
	Position labeling.PositionFunc
}

func (o Orbit) validate() error {
	if o.Trajectory == nil || o.Trajectory.Len() < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "orbit needs a trajectory with at least 2 samples")
	}
	if o.Position == nil {
		return errors.New(errors.ErrCodeInvalidInput, "orbit needs a position function for date labels")
	}
	return nil
}

// Layout holds what every orbit figure shares.
type Layout struct {
	WidthIn  float64
	HeightIn float64
	XLim     [2]float64
	YLim     [2]float64

	Title    string
	Credit   string
	CreditAt geom.Point

	// Arrows mark the direction of travel; times outside the trajectory clamp
	// to its ends.
	Arrows    []time.Time
	ArrowBack time.Duration
	// MarkerScale is the ribbon scale of the start marker and the arrows.
	MarkerScale float64

	// Raised date labels are pushed further out.
	Raised        []time.Time
	LabelDistance float64

	Grid labeling.GridOptions
}

// DefaultLayout is a 6.5x5.5 inch page showing the inner heliosphere.
func DefaultLayout() Layout {
	return Layout{
		WidthIn:     6.5,
		HeightIn:    5.5,
		XLim:        [2]float64{-1.55, 1.1},
		YLim:        [2]float64{-1.2, 1.2},
		CreditAt:    geom.Pt(1.05, -1.15),
		ArrowBack:   48 * time.Hour,
		MarkerScale: 0.15,
		Grid:        labeling.DefaultGrid(),
	}
}

// newOrbitFigure draws the shared base: orbit line, grid, date labels,
// title and credit line.
func newOrbitFigure(name string, o Orbit, p style.Palette, l Layout) (*figure.Figure, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	tr := o.Trajectory

	f := figure.New(l.WidthIn, l.HeightIn)
	f.Name = name
	f.SetLimits(l.XLim[0], l.XLim[1], l.YLim[0], l.YLim[1])
	f.EqualAspect = true
	f.Background = p.Background
	f.FontFamily = p.FontFamily
	if err := f.Validate(); err != nil {
		return nil, err
	}

	line := make([]geom.Point, tr.Len())
	for i := range line {
		line[i] = geom.Pt(tr.X[i], tr.Y[i])
	}
	f.Add(&figure.Polyline{Points: line, Stroke: figure.Stroke{Color: p.Foreground, Width: 1}, Z: zOrbit})

	grid := l.Grid
	if len(grid.Radii) == 0 {
		grid = labeling.DefaultGrid()
	}
	f.Add(labeling.SolarSystemGrid(p, grid)...)

	dates, err := labeling.DateLabels(o.Position, tr.Start(), tr.End(), p, labeling.DateOptions{
		Distance: l.LabelDistance,
		Raised:   l.Raised,
	})
	if err != nil {
		return nil, err
	}
	f.Add(dates...)

	if l.Title != "" {
		f.Title = &figure.Text{
			At:      geom.Pt(0.5, 1),
			Coords:  figure.AxesCoords,
			Offset:  geom.Pt(0, 6),
			Content: l.Title,
			Color:   p.Foreground,
			Size:    figure.SizeLarge,
			Weight:  p.TitleWeight,
			HAlign:  figure.AlignCenter,
			VAlign:  figure.AlignBaseline,
		}
	}
	if l.Credit != "" {
		f.Add(&figure.Text{
			At:      l.CreditAt,
			Content: l.Credit,
			Color:   p.Foreground,
			Size:    figure.SizeXSmall,
			HAlign:  figure.AlignRight,
			VAlign:  figure.AlignBottom,
			Z:       zText,
		})
	}
	return f, nil
}

// addMarkers draws the start tick at t0 and the direction arrows.
func addMarkers(f *figure.Figure, r *Ribbon, t0 time.Time, p style.Palette, l Layout, tickZ float64) error {
	tick, err := r.Tick(timeseries.DateNum(t0), 0.5, figure.Stroke{Color: p.Foreground, Width: 2}, tickZ)
	if err != nil {
		return err
	}
	f.Add(tick)

	back := timeseries.Days(l.ArrowBack)
	for _, at := range l.Arrows {
		a, err := r.Arrow(timeseries.DateNum(at), back, 0.2, figure.Stroke{Color: p.Foreground, Width: 1.5}, zAnnot)
		if err != nil {
			return err
		}
		f.Add(a)
	}
	return nil
}
