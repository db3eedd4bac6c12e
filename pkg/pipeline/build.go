package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/plots"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// NewOrbit pairs a sampled trajectory with the ephemeris it came from, so
// date labels land exactly on the orbit.
func NewOrbit(tr *ephemeris.Trajectory, eph ephemeris.Ephemeris, unitKm float64) plots.Orbit {
	return plots.Orbit{
		Trajectory: tr,
		Position: func(t time.Time) (geom.Point, error) {
			x, y, err := ephemeris.PositionIn(eph, t, unitKm)
			return geom.Pt(x, y), err
		},
	}
}

// Build draws the figure for the configured kind.
func (r *Runner) Build(ctx context.Context, orbit plots.Orbit, data Data, opts Options) (*figure.Figure, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	palette, err := style.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	f := opts.Figure

	switch f.Kind {
	case config.KindEPT:
		eo, err := f.EPTOptions()
		if err != nil {
			return nil, err
		}
		eo.Logger = opts.Logger
		return plots.BuildEPT(f.Name, orbit, data.EPT, palette, eo)
	case config.KindMAG:
		mo, err := f.MAGOptions()
		if err != nil {
			return nil, err
		}
		return plots.BuildMAG(f.Name, orbit, data.MAG, palette, mo)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown figure kind %q", f.Kind)
}
