package transform

import (
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// Path anchors a strip chart to a sampled planar path.
//
// A Path is immutable after construction and safe for concurrent use.
type Path struct {
	x, y     []float64
	min, max float64
	scale    float64
}

// NewPath creates a path transform over the samples (pathX[i], pathY[i]).
// Sample i sits at domainMin + i/(N-1)*(domainMax-domainMin).
//
// It fails with errors.ErrCodeInvalidPath when fewer than two samples are
// given, the coordinate slices differ in length, a coordinate is not finite,
// or domainMax <= domainMin.
func NewPath(pathX, pathY []float64, domainMin, domainMax, scale float64) (*Path, error) {
	if len(pathX) != len(pathY) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path has %d x and %d y coordinates", len(pathX), len(pathY))
	}
	if len(pathX) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidPath, "path needs at least 2 points, got %d", len(pathX))
	}
	if err := errors.ValidateDomain(domainMin, domainMax); err != nil {
		return nil, err
	}
	for i := range pathX {
		if !geom.IsFinite(geom.Pt(pathX[i], pathY[i])) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path point %d is not finite", i)
		}
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be finite, got %g", scale)
	}
	return &Path{
		x:     append([]float64(nil), pathX...),
		y:     append([]float64(nil), pathY...),
		min:   domainMin,
		max:   domainMax,
		scale: scale,
	}, nil
}

// NewPathForTimes is NewPath with the domain given as a time range.
// Query values are then date numbers (see timeseries.DateNum).
func NewPathForTimes(pathX, pathY []float64, start, end time.Time, scale float64) (*Path, error) {
	return NewPath(pathX, pathY, timeseries.DateNum(start), timeseries.DateNum(end), scale)
}

// WithScale returns a transform over the same path with a different scale.
func (p *Path) WithScale(scale float64) *Path {
	return &Path{x: p.x, y: p.y, min: p.min, max: p.max, scale: scale}
}

// Len returns the number of path samples.
func (p *Path) Len() int { return len(p.x) }

// Scale returns the offset scale.
func (p *Path) Scale() float64 { return p.scale }

// Domain returns the domain bounds.
func (p *Path) Domain() (lo, hi float64) { return p.min, p.max }

// Sample returns path sample i.
func (p *Path) Sample(i int) geom.Point { return geom.Pt(p.x[i], p.y[i]) }

// Index returns the path sample used for t: the fractional index is
// truncated toward zero and clamped into [0, N-1]. NaN maps to 0.
func (p *Path) Index(t float64) int {
	last := len(p.x) - 1
	f := (t - p.min) / (p.max - p.min) * float64(last)
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= float64(last):
		return last
	}
	return int(f)
}

// Normal returns the unit normal at sample idx, the backward difference
// path[idx]-path[idx-1] rotated by -90 degrees.
//
// At idx 0 the previous sample is path[N-1], so the first normal comes from
// the segment joining the last sample to the first.
//
// When that segment has zero length the nearest preceding segment with
// non-zero length is used instead, walking backwards with the same
// wrap-around. If every segment is degenerate the normal is (0, 0) and
// offsets collapse onto the path sample.
func (p *Path) Normal(idx int) geom.Point {
	n := len(p.x)
	for k := 0; k < n; k++ {
		i := ((idx-k)%n + n) % n
		j := (i - 1 + n) % n
		dx := p.x[i] - p.x[j]
		dy := p.y[i] - p.y[j]
		norm := math.Hypot(dx, dy)
		if norm > 0 {
			return geom.Pt(dy/norm, -dx/norm)
		}
	}
	return geom.Point{}
}

// Map transforms the query points (ts[j], offsets[j]).
// It fails with errors.ErrCodeShapeMismatch when the slices differ in length.
// Values of t outside the domain clamp to the first or last sample.
// A NaN offset yields a NaN point, which sinks treat as a gap.
func (p *Path) Map(ts, offsets []float64) ([]geom.Point, error) {
	if len(ts) != len(offsets) {
		return nil, errors.New(errors.ErrCodeShapeMismatch, "batch has %d positions and %d offsets", len(ts), len(offsets))
	}
	out := make([]geom.Point, len(ts))
	for j, t := range ts {
		out[j] = p.mapOne(t, offsets[j])
	}
	return out, nil
}

// Apply implements Transform, reading each point as (t, offset).
func (p *Path) Apply(pts []geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, len(pts))
	for j, q := range pts {
		out[j] = p.mapOne(q.X, q.Y)
	}
	return out, nil
}

// Inverse always fails: many (t, offset) pairs share an output point.
func (p *Path) Inverse() (Transform, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "path transform is not invertible")
}

func (p *Path) mapOne(t, offset float64) geom.Point {
	idx := p.Index(t)
	base := geom.Pt(p.x[idx], p.y[idx])
	if offset == 0 {
		return base
	}
	return base.Add(p.Normal(idx).Mul(offset * p.scale))
}
