package ephemeris

import (
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
)

// GMSun is the heliocentric gravitational parameter in km^3/s^2.
const GMSun = 1.32712440018e11

// KeplerElements are osculating elements of a closed orbit.
type KeplerElements struct {
	PerihelionAU     float64   `toml:"perihelion_au" json:"perihelion_au"`
	Eccentricity     float64   `toml:"eccentricity" json:"eccentricity"`
	ArgPerihelionDeg float64   `toml:"arg_perihelion_deg" json:"arg_perihelion_deg"`
	InclinationDeg   float64   `toml:"inclination_deg" json:"inclination_deg"`
	NodeDeg          float64   `toml:"node_deg" json:"node_deg"`
	PerihelionTime   time.Time `toml:"perihelion_time" json:"perihelion_time"`

	// GM defaults to GMSun.
	GM float64 `toml:"gm,omitempty" json:"gm,omitempty"`
}

// SolarOrbiter2020 approximates the first Solar Orbiter orbit after launch:
// perihelion of 0.52 AU on 2020-06-15, aphelion near 1 AU. It is close
// enough for overview figures, not for navigation.
var SolarOrbiter2020 = KeplerElements{
	PerihelionAU:     0.5226,
	Eccentricity:     0.3204,
	ArgPerihelionDeg: 205,
	PerihelionTime:   time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
}

// Kepler evaluates a two-body orbit.
type Kepler struct {
	el       KeplerElements
	a        float64 // semi-major axis, km
	n        float64 // mean motion, rad/s
	cosW     float64
	sinW     float64
	cosI     float64
	sinI     float64
	cosO     float64
	sinO     float64
	sqrt1mE2 float64
}

// NewKepler validates the elements and precomputes the orbit constants.
func NewKepler(el KeplerElements) (*Kepler, error) {
	if el.PerihelionAU <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "perihelion distance must be positive, got %g AU", el.PerihelionAU)
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "eccentricity must be in [0, 1), got %g", el.Eccentricity)
	}
	if el.PerihelionTime.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "perihelion time is required")
	}
	gm := el.GM
	if gm == 0 {
		gm = GMSun
	}
	a := el.PerihelionAU * AUKm / (1 - el.Eccentricity)
	k := &Kepler{
		el:       el,
		a:        a,
		n:        math.Sqrt(gm / (a * a * a)),
		sqrt1mE2: math.Sqrt(1 - el.Eccentricity*el.Eccentricity),
	}
	k.sinW, k.cosW = math.Sincos(el.ArgPerihelionDeg * math.Pi / 180)
	k.sinI, k.cosI = math.Sincos(el.InclinationDeg * math.Pi / 180)
	k.sinO, k.cosO = math.Sincos(el.NodeDeg * math.Pi / 180)
	return k, nil
}

// Period returns the orbital period.
func (k *Kepler) Period() time.Duration {
	return time.Duration(2 * math.Pi / k.n * float64(time.Second))
}

// Position implements Ephemeris.
func (k *Kepler) Position(t time.Time) (geom.Vec3, error) {
	e := k.el.Eccentricity
	m := math.Remainder(k.n*t.Sub(k.el.PerihelionTime).Seconds(), 2*math.Pi)
	ea := solveKepler(m, e)

	sinE, cosE := math.Sincos(ea)
	xo := k.a * (cosE - e)
	yo := k.a * k.sqrt1mE2 * sinE

	// Rotate from the orbital plane: argument of perihelion, inclination, node.
	xw := xo*k.cosW - yo*k.sinW
	yw := xo*k.sinW + yo*k.cosW
	return geom.Vec3{
		X: xw*k.cosO - yw*k.cosI*k.sinO,
		Y: xw*k.sinO + yw*k.cosI*k.cosO,
		Z: yw * k.sinI,
	}, nil
}

// solveKepler solves E - e*sin(E) = M by Newton iteration.
func solveKepler(m, e float64) float64 {
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for range 50 {
		f := ea - e*math.Sin(ea) - m
		d := f / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-13 {
			break
		}
	}
	return ea
}
