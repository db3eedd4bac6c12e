// Package geom provides the planar and spatial vector types shared by the
// transforms, the labeling helpers and the figure sinks.
//
// Planar points and rectangles are the seehuhn.de/go/geom types, so values
// pass unchanged to code built on that library. Points use the vec.Vec2
// methods (Add, Sub, Mul, Dot, Length); the helpers here add what it leaves
// out.
package geom

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Point is a planar point or vector.
type Point = vec.Vec2

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return vec.Vec2{X: x, Y: y} }

// IsFinite reports whether both coordinates are finite numbers.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Angle returns the polar angle of p in radians.
func Angle(p Point) float64 { return math.Atan2(p.Y, p.X) }

// Rect is an axis-aligned rectangle from its lower-left corner (LLx, LLy)
// to its upper-right corner (URx, URy).
type Rect = rect.Rect

// R returns the rectangle spanning lo to hi.
func R(lo, hi Point) Rect {
	return rect.Rect{LLx: lo.X, LLy: lo.Y, URx: hi.X, URy: hi.Y}
}

// Width returns the horizontal extent of r.
func Width(r Rect) float64 { return r.URx - r.LLx }

// Height returns the vertical extent of r.
func Height(r Rect) float64 { return r.URy - r.LLy }

// Center returns the midpoint of r.
func Center(r Rect) Point { return Pt((r.LLx+r.URx)/2, (r.LLy+r.URy)/2) }

// Vec3 is a Cartesian position in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// XY drops the Z component.
func (v Vec3) XY() Point { return Pt(v.X, v.Y) }

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Lerp returns a + (b-a)*f.
func Lerp(a, b Vec3, f float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*f,
		Y: a.Y + (b.Y-a.Y)*f,
		Z: a.Z + (b.Z-a.Z)*f,
	}
}
