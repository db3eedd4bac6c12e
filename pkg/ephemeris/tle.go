package ephemeris

import (
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
)

// TLE propagates a two-line element set with SGP4. Positions are in the
// Earth-centred inertial frame, so plots should use an Earth-sized unit
// (see EarthRadiusKm).
type TLE struct {
	sat satellite.Satellite
}

// NewTLE parses the element set.
func NewTLE(line1, line2 string) (tle *TLE, err error) {
	line1, line2 = strings.TrimSpace(line1), strings.TrimSpace(line2)
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "TLE lines must start with \"1 \" and \"2 \"")
	}
	if len(line1) < 69 || len(line2) < 69 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "TLE lines must be 69 characters, got %d and %d", len(line1), len(line2))
	}
	// go-satellite panics on malformed numeric fields.
	defer func() {
		if r := recover(); r != nil {
			tle, err = nil, errors.New(errors.ErrCodeInvalidConfig, "parse TLE: %v", r)
		}
	}()
	return &TLE{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}, nil
}

// Position implements Ephemeris.
func (e *TLE) Position(t time.Time) (geom.Vec3, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(e.sat, year, int(month), day, hour, min, sec)
	v := geom.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		return geom.Vec3{}, errors.New(errors.ErrCodeOutOfRange, "SGP4 propagation failed at %s", t.Format(time.RFC3339))
	}
	return v, nil
}
