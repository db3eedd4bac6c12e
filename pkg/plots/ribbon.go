package plots

import (
	"math"

	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
	"github.com/matzehuels/orbitribbon/pkg/transform"
)

// Ribbon maps strip-chart coordinates (date number, offset) onto the
// figure by following a trajectory.
type Ribbon struct {
	path *transform.Path
}

// NewRibbon follows tr with the given offset scale.
func NewRibbon(tr *ephemeris.Trajectory, scale float64) (*Ribbon, error) {
	p, err := transform.NewPathForTimes(tr.X, tr.Y, tr.Start(), tr.End(), scale)
	if err != nil {
		return nil, err
	}
	return &Ribbon{path: p}, nil
}

// WithScale returns a ribbon on the same trajectory with another scale.
func (r *Ribbon) WithScale(scale float64) *Ribbon {
	return &Ribbon{path: r.path.WithScale(scale)}
}

// Path exposes the underlying transform.
func (r *Ribbon) Path() *transform.Path { return r.path }

// Line draws a series as a polyline. NaN values leave gaps.
func (r *Ribbon) Line(s timeseries.Series, stroke figure.Stroke, z float64) (*figure.Polyline, error) {
	return r.Segment(s.DateNums(), s.Values, stroke, z)
}

// Segment draws a polyline through (ts[i], offsets[i]).
func (r *Ribbon) Segment(ts, offsets []float64, stroke figure.Stroke, z float64) (*figure.Polyline, error) {
	pts, err := r.path.Map(ts, offsets)
	if err != nil {
		return nil, err
	}
	return &figure.Polyline{Points: pts, Stroke: stroke, Z: z}, nil
}

// Bars draws one bar per sample, centred on its time, width wide in
// date-number units and coloured by cmap. Samples the colour map rejects
// (NaN) are skipped.
func (r *Ribbon) Bars(s timeseries.Series, width float64, norm timeseries.Normalize, cmap style.Colormap, z float64) ([]figure.Element, error) {
	n := s.Len()
	ts := make([]float64, 0, 4*n)
	offs := make([]float64, 0, 4*n)
	for i, t := range s.DateNums() {
		v := s.Values[i]
		lo, hi := t-width/2, t+width/2
		ts = append(ts, lo, hi, hi, lo)
		offs = append(offs, 0, 0, v, v)
	}
	pts, err := r.path.Map(ts, offs)
	if err != nil {
		return nil, err
	}

	els := make([]figure.Element, 0, n)
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		c, ok := cmap.At(norm.Apply(v))
		if !ok {
			continue
		}
		els = append(els, &figure.Polygon{Points: pts[4*i : 4*i+4 : 4*i+4], Fill: c, Z: z})
	}
	return els, nil
}

// Tick draws a line across the ribbon at t, from -half to +half.
func (r *Ribbon) Tick(t, half float64, stroke figure.Stroke, z float64) (*figure.Polyline, error) {
	return r.Segment([]float64{t, t}, []float64{-half, half}, stroke, z)
}

// Arrow draws a chevron pointing in the direction of travel with its tip
// on the trajectory at t and its arms back days earlier.
func (r *Ribbon) Arrow(t, back, half float64, stroke figure.Stroke, z float64) (*figure.Polyline, error) {
	return r.Segment([]float64{t - back, t, t - back}, []float64{-half, 0, half}, stroke, z)
}

// At maps a single strip-chart coordinate.
func (r *Ribbon) At(t, offset float64) (geom.Point, error) {
	pts, err := r.path.Map([]float64{t}, []float64{offset})
	if err != nil {
		return geom.Point{}, err
	}
	return pts[0], nil
}
