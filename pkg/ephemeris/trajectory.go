package ephemeris

import (
	"context"
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

// Trajectory is a sampled planar orbit in plot units.
type Trajectory struct {
	Times []time.Time `json:"times"`
	X     []float64   `json:"x"`
	Y     []float64   `json:"y"`
}

// Len returns the number of samples.
func (t *Trajectory) Len() int { return len(t.Times) }

// Start returns the first sample time.
func (t *Trajectory) Start() time.Time { return t.Times[0] }

// End returns the last sample time.
func (t *Trajectory) End() time.Time { return t.Times[len(t.Times)-1] }

// Sample evaluates eph at n evenly spaced times over [start, end] (both
// inclusive) and projects the positions onto the XY plane in units of unitKm.
func Sample(ctx context.Context, eph Ephemeris, start, end time.Time, n int, unitKm float64) (*Trajectory, error) {
	if err := errors.ValidateTimeRange(start, end); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "trajectory needs at least 2 samples, got %d", n)
	}
	if unitKm <= 0 || math.IsNaN(unitKm) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unit must be positive, got %g km", unitKm)
	}

	times := timeseries.Linspace(start, end, n)
	tr := &Trajectory{Times: times, X: make([]float64, n), Y: make([]float64, n)}
	for i, t := range times {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p, err := eph.Position(t)
		if err != nil {
			return nil, err
		}
		tr.X[i] = p.X / unitKm
		tr.Y[i] = p.Y / unitKm
	}
	return tr, nil
}

// PositionIn returns the XY position of eph at t in units of unitKm.
func PositionIn(eph Ephemeris, t time.Time, unitKm float64) (x, y float64, err error) {
	p, err := eph.Position(t)
	if err != nil {
		return 0, 0, err
	}
	return p.X / unitKm, p.Y / unitKm, nil
}
