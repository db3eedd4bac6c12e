package transform

import "github.com/matzehuels/orbitribbon/pkg/geom"

// Transform maps a batch of points. Implementations must preserve order and
// length and must not modify the input slice.
type Transform interface {
	Apply(pts []geom.Point) ([]geom.Point, error)
}

// Func adapts a per-point function to the Transform interface.
type Func func(geom.Point) geom.Point

// Apply implements Transform.
func (f Func) Apply(pts []geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out, nil
}

type chain []Transform

// Chain composes transforms left to right: the first is applied first.
func Chain(ts ...Transform) Transform {
	flat := make(chain, 0, len(ts))
	for _, t := range ts {
		if c, ok := t.(chain); ok {
			flat = append(flat, c...)
			continue
		}
		if t != nil {
			flat = append(flat, t)
		}
	}
	return flat
}

// Apply implements Transform.
func (c chain) Apply(pts []geom.Point) ([]geom.Point, error) {
	out := pts
	for _, t := range c {
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, err
		}
	}
	if len(c) == 0 {
		out = append([]geom.Point(nil), pts...)
	}
	return out, nil
}
