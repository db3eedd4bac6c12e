// Package ephemeris provides spacecraft positions for trajectory plots.
//
// # Sources
//
//   - [Kepler]: closed two-body orbit from osculating elements (heliocentric)
//   - [Table]: positions read from a CSV file and linearly interpolated
//   - [TLE]: SGP4 propagation of a two-line element set (Earth-centred)
//
// All sources return positions in kilometres. [Sample] turns a source into a
// [Trajectory] in plot units (AU by default) with evenly spaced samples.
package ephemeris

import (
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
)

// Distance units in kilometres.
const (
	AUKm          = 149597870.7
	EarthRadiusKm = 6371.0
)

// Source kinds.
const (
	KindKepler = "kepler"
	KindTable  = "table"
	KindTLE    = "tle"
)

// Ephemeris returns the position of a body at time t in kilometres.
type Ephemeris interface {
	Position(t time.Time) (geom.Vec3, error)
}

// Source describes where positions come from. It is the configuration form
// of an Ephemeris.
type Source struct {
	Kind   string         `toml:"kind" json:"kind"`
	File   string         `toml:"file,omitempty" json:"file,omitempty"`
	Line1  string         `toml:"tle1,omitempty" json:"tle1,omitempty"`
	Line2  string         `toml:"tle2,omitempty" json:"tle2,omitempty"`
	Kepler KeplerElements `toml:"kepler" json:"kepler"`

	// UnitKm converts kilometres into plot units. Zero means AU.
	UnitKm float64 `toml:"unit_km,omitempty" json:"unit_km,omitempty"`
}

// Unit returns the plot unit in kilometres.
func (s Source) Unit() float64 {
	if s.UnitKm > 0 {
		return s.UnitKm
	}
	return AUKm
}

// Open builds the Ephemeris described by s.
func (s Source) Open() (Ephemeris, error) {
	switch s.Kind {
	case "", KindKepler:
		return NewKepler(s.Kepler)
	case KindTable:
		return LoadTable(s.File)
	case KindTLE:
		return NewTLE(s.Line1, s.Line2)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown ephemeris kind: %q (must be one of: kepler, table, tle)", s.Kind)
}
