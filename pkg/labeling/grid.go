// Package labeling adds the orientation aids shared by orbit figures: the
// Sun with concentric distance circles, and date labels along the orbit.
package labeling

import (
	"fmt"
	"math"

	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// GridOptions configures SolarSystemGrid.
type GridOptions struct {
	// Radii of the distance circles in plot units.
	Radii []float64
	// LabelAngle is the angle in degrees, measured from the negative x axis
	// towards positive y, at which circle labels sit.
	LabelAngle float64
	// Unit is appended to circle labels.
	Unit string
	// SunArea is the Sun marker area in square points.
	SunArea float64
}

// DefaultGrid returns circles at 0.2 to 1.0 AU, labelled at 56 degrees.
func DefaultGrid() GridOptions {
	return GridOptions{
		Radii:      []float64{0.2, 0.4, 0.6, 0.8, 1.0},
		LabelAngle: 56,
		Unit:       "AU",
		SunArea:    300,
	}
}

// SolarSystemGrid returns the Sun marker at the origin and a dashed circle
// with a rotated distance label for every radius.
func SolarSystemGrid(p style.Palette, opts GridOptions) []figure.Element {
	els := []figure.Element{&figure.Marker{
		At:        geom.Pt(0, 0),
		Area:      opts.SunArea,
		Face:      p.SunFace,
		Edge:      p.SunEdge,
		EdgeWidth: 1.5,
		Z:         1,
	}}

	s, c := math.Sincos(opts.LabelAngle * math.Pi / 180)
	for _, r := range opts.Radii {
		els = append(els,
			&figure.Circle{
				Center: geom.Pt(0, 0),
				Radius: r,
				Stroke: figure.Stroke{Color: p.Secondary, Width: 0.5, Alpha: 0.5, Dash: []float64{5, 5}},
				Z:      1,
			},
			&figure.Text{
				At:       geom.Pt(-r*c, r*s),
				Content:  fmt.Sprintf("%.1f %s", r, opts.Unit),
				Color:    p.Secondary,
				Size:     figure.SizeSmall,
				HAlign:   figure.AlignCenter,
				VAlign:   figure.AlignBottom,
				Rotation: 90 - opts.LabelAngle,
				Z:        3,
			},
		)
	}
	return els
}
