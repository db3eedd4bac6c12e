package transform

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
)

// Affine is a 2D affine map stored as a PDF-style matrix [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Affine matrix.Matrix

// Identity returns the identity map.
func Identity() Affine { return Affine(matrix.Identity) }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine { return Affine{1, 0, 0, 1, tx, ty} }

// Scale returns an axis-aligned scaling.
func Scale(sx, sy float64) Affine { return Affine{sx, 0, 0, sy, 0, 0} }

// Rotate returns a counter-clockwise rotation by rad radians.
func Rotate(rad float64) Affine {
	s, c := math.Sincos(rad)
	return Affine{c, s, -s, c, 0, 0}
}

// Matrix returns the map as a seehuhn.de/go/geom matrix.
func (a Affine) Matrix() matrix.Matrix { return matrix.Matrix(a) }

// Then returns the map that applies a first and b second.
func (a Affine) Then(b Affine) Affine {
	return Affine{
		b[0]*a[0] + b[2]*a[1],
		b[1]*a[0] + b[3]*a[1],
		b[0]*a[2] + b[2]*a[3],
		b[1]*a[2] + b[3]*a[3],
		b[0]*a[4] + b[2]*a[5] + b[4],
		b[1]*a[4] + b[3]*a[5] + b[5],
	}
}

// Point maps a single point.
func (a Affine) Point(p geom.Point) geom.Point {
	return geom.Pt(a[0]*p.X+a[2]*p.Y+a[4], a[1]*p.X+a[3]*p.Y+a[5])
}

// Vector maps a displacement, ignoring the translation.
func (a Affine) Vector(v geom.Point) geom.Point {
	return geom.Pt(a[0]*v.X+a[2]*v.Y, a[1]*v.X+a[3]*v.Y)
}

// Apply implements Transform.
func (a Affine) Apply(pts []geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = a.Point(p)
	}
	return out, nil
}

// ScaleFactor returns the mean linear scale of the map, used to convert
// lengths such as line widths.
func (a Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(a.det()))
}

func (a Affine) det() float64 { return a[0]*a[3] - a[1]*a[2] }

// Inverse returns the inverse map. Singular maps fail with errors.ErrCodeUnsupported.
func (a Affine) Inverse() (Affine, error) {
	det := a.det()
	if det == 0 || math.IsNaN(det) {
		return Affine{}, errors.New(errors.ErrCodeUnsupported, "affine map is singular")
	}
	inv := Affine{a[3] / det, -a[1] / det, -a[2] / det, a[0] / det, 0, 0}
	inv[4] = -(inv[0]*a[4] + inv[2]*a[5])
	inv[5] = -(inv[1]*a[4] + inv[3]*a[5])
	return inv, nil
}

// Viewport maps the data rectangle onto the pixel rectangle. With flipY the
// data y axis points up while pixel y grows downwards, so data.LLy lands on
// px.URy.
func Viewport(data, px geom.Rect, flipY bool) Affine {
	sx := geom.Width(px) / geom.Width(data)
	sy := geom.Height(px) / geom.Height(data)
	m := Translate(-data.LLx, -data.LLy).Then(Scale(sx, sy))
	if flipY {
		return m.Then(Affine{1, 0, 0, -1, 0, px.URy}).Then(Translate(px.LLx, 0))
	}
	return m.Then(Translate(px.LLx, px.LLy))
}
