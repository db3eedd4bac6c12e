// Package transform provides the coordinate transforms used to bend strip
// charts along a trajectory.
//
// # Path-Following Transform
//
// [Path] maps (t, offset) pairs onto a sampled planar path: t selects a path
// sample by nearest-preceding index over a scalar domain, offset displaces
// that sample along the local normal by offset*scale. The normal is the
// direction of travel rotated by -90 degrees, so a positive offset*scale
// lands on the right-hand side of the path and flipping the sign of scale
// mirrors the ribbon onto the other side.
//
//	p, err := transform.NewPath(xs, ys, t0, t1, 0.15)
//	pts, err := p.Map(times, values)
//
// The lookup is deliberately not interpolated. Every mapped base point is an
// actual path sample, so callers should sample the path more densely than the
// data they draw along it.
//
// # Composition
//
// A [Path] is usually followed by an [Affine] projection into pixel space:
//
//	screen := transform.Viewport(dataRect, pixelRect, true)
//	t := transform.Chain(p, screen)
//	out, err := t.Apply(points)
//
// The path transform has no inverse; [Path.Inverse] always fails with
// errors.ErrCodeUnsupported.
package transform
