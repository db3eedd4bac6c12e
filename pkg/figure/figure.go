package figure

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/transform"
)

// PointsPerInch is the typographic point conversion.
const PointsPerInch = 72.0

// Font sizes in points.
const (
	SizeXSmall = 10 * 0.694
	SizeSmall  = 10 * 0.833
	SizeMedium = 10.0
	SizeLarge  = 10 * 1.2
)

// DefaultAxes is the axes rectangle as figure fractions (left, bottom,
// right, top), the usual single-subplot placement.
var DefaultAxes = geom.R(geom.Pt(0.125, 0.11), geom.Pt(0.9, 0.88))

// Coords selects the coordinate system of a text anchor.
type Coords int

const (
	DataCoords Coords = iota
	AxesCoords
)

// HAlign is the horizontal text alignment relative to the anchor.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is the vertical text alignment relative to the anchor.
type VAlign string

const (
	AlignBottom   VAlign = "bottom"
	AlignMiddle   VAlign = "center"
	AlignTop      VAlign = "top"
	AlignBaseline VAlign = "baseline"
)

// Element is anything a figure can draw.
type Element interface {
	ZOrder() float64
}

// Stroke describes how a line is drawn.
type Stroke struct {
	Color style.Color
	Width float64 // points
	// Alpha is the opacity in (0, 1]; zero means opaque.
	Alpha float64
	// Dash alternates on and off lengths in multiples of Width.
	Dash []float64
}

// Polyline is an open line through Points.
type Polyline struct {
	Points []geom.Point
	Stroke
	Z float64
}

func (p *Polyline) ZOrder() float64 { return p.Z }

// Polygon is a closed, filled shape.
type Polygon struct {
	Points []geom.Point
	Fill   style.Color
	Alpha  float64
	Z      float64
}

func (p *Polygon) ZOrder() float64 { return p.Z }

// Circle is an unfilled circle with a radius in data units.
type Circle struct {
	Center geom.Point
	Radius float64
	Stroke
	Z float64
}

func (c *Circle) ZOrder() float64 { return c.Z }

// Marker is a filled disc whose area is given in square points.
type Marker struct {
	At        geom.Point
	Area      float64
	Face      style.Color
	Edge      style.Color
	EdgeWidth float64 // points; zero draws no edge
	Z         float64
}

func (m *Marker) ZOrder() float64 { return m.Z }

// Radius returns the disc radius in points.
func (m *Marker) Radius() float64 { return math.Sqrt(m.Area) / 2 }

// Text is a single-line label.
type Text struct {
	At      geom.Point
	Coords  Coords
	Offset  geom.Point // points, y up
	Content string
	Color   style.Color
	Size    float64 // points; zero means SizeMedium
	Weight  style.Weight
	HAlign  HAlign
	VAlign  VAlign
	// Rotation is counter-clockwise in degrees, about the anchor.
	Rotation float64
	Z        float64
}

func (t *Text) ZOrder() float64 { return t.Z }

// FontSize returns the size in points.
func (t *Text) FontSize() float64 {
	if t.Size > 0 {
		return t.Size
	}
	return SizeMedium
}

// Figure is a page with one set of axes.
type Figure struct {
	Name     string
	WidthIn  float64
	HeightIn float64

	// Axes is the axes rectangle in figure fractions.
	Axes geom.Rect
	// Limits are the requested data limits.
	Limits      geom.Rect
	EqualAspect bool

	Background style.Color
	FontFamily string
	Title      *Text
	Elements   []Element
}

// New creates a figure of the given size in inches with the default axes
// placement and unit data limits.
func New(widthIn, heightIn float64) *Figure {
	return &Figure{
		WidthIn:    widthIn,
		HeightIn:   heightIn,
		Axes:       DefaultAxes,
		Limits:     geom.R(geom.Pt(0, 0), geom.Pt(1, 1)),
		Background: style.MustHex("#ffffff"),
		FontFamily: "sans-serif",
	}
}

// Add appends elements. Nil elements are ignored.
func (f *Figure) Add(els ...Element) {
	for _, e := range els {
		if e != nil {
			f.Elements = append(f.Elements, e)
		}
	}
}

// SetLimits sets the requested data limits.
func (f *Figure) SetLimits(xmin, xmax, ymin, ymax float64) {
	f.Limits = geom.R(geom.Pt(xmin, ymin), geom.Pt(xmax, ymax))
}

// Validate checks the page geometry.
func (f *Figure) Validate() error {
	if !(f.WidthIn > 0) || !(f.HeightIn > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "figure size must be positive, got %gx%g in", f.WidthIn, f.HeightIn)
	}
	if !(geom.Width(f.Limits) > 0) || !(geom.Height(f.Limits) > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "figure limits must be increasing, got %+v", f.Limits)
	}
	if !(geom.Width(f.Axes) > 0) || !(geom.Height(f.Axes) > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "axes rectangle must be non-empty, got %+v", f.Axes)
	}
	return nil
}

// ViewLimits returns the data limits actually shown. With EqualAspect the
// shorter side is widened about its centre until both axes share a scale.
func (f *Figure) ViewLimits() geom.Rect {
	lim := f.Limits
	if !f.EqualAspect {
		return lim
	}
	boxW := geom.Width(f.Axes) * f.WidthIn
	boxH := geom.Height(f.Axes) * f.HeightIn
	want := boxW / boxH
	have := geom.Width(lim) / geom.Height(lim)
	switch {
	case have < want:
		cx, half := (lim.LLx+lim.URx)/2, geom.Height(lim)*want/2
		lim.LLx, lim.URx = cx-half, cx+half
	case have > want:
		cy, half := (lim.LLy+lim.URy)/2, geom.Width(lim)/want/2
		lim.LLy, lim.URy = cy-half, cy+half
	}
	return lim
}

// Sorted returns the elements ordered by Z, stable for equal Z.
func (f *Figure) Sorted() []Element {
	out := slices.Clone(f.Elements)
	slices.SortStableFunc(out, func(a, b Element) int {
		return cmp.Compare(a.ZOrder(), b.ZOrder())
	})
	return out
}

// canvas maps figure coordinates onto a device with the given resolution
// in pixels per inch. y grows downwards on the device.
type canvas struct {
	dpi    float64
	width  float64
	height float64
	data   transform.Affine
	axes   transform.Affine
	clip   geom.Rect
}

func (f *Figure) canvas(dpi float64) canvas {
	w, h := f.WidthIn*dpi, f.HeightIn*dpi
	box := geom.R(
		geom.Pt(f.Axes.LLx*w, (1-f.Axes.URy)*h),
		geom.Pt(f.Axes.URx*w, (1-f.Axes.LLy)*h),
	)
	unit := geom.R(geom.Pt(0, 0), geom.Pt(1, 1))
	return canvas{
		dpi:    dpi,
		width:  w,
		height: h,
		data:   transform.Viewport(f.ViewLimits(), box, true),
		axes:   transform.Viewport(unit, box, true),
		clip:   box,
	}
}

// pt converts points to device pixels.
func (c canvas) pt(v float64) float64 { return v * c.dpi / PointsPerInch }

// anchor returns the device position of a text anchor, offset included.
func (c canvas) anchor(t *Text) geom.Point {
	var p geom.Point
	if t.Coords == AxesCoords {
		p = c.axes.Point(t.At)
	} else {
		p = c.data.Point(t.At)
	}
	return geom.Pt(p.X+c.pt(t.Offset.X), p.Y-c.pt(t.Offset.Y))
}

// runs splits pts at non-finite points and maps each run to the device.
// Runs shorter than two points are dropped.
func (c canvas) runs(pts []geom.Point) [][]geom.Point {
	var out [][]geom.Point
	var cur []geom.Point
	flush := func() {
		if len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, p := range pts {
		if !geom.IsFinite(p) {
			flush()
			continue
		}
		cur = append(cur, c.data.Point(p))
	}
	flush()
	return out
}

// polygon maps a closed shape to the device; ok is false when any vertex is
// non-finite or there are fewer than three.
func (c canvas) polygon(pts []geom.Point) ([]geom.Point, bool) {
	if len(pts) < 3 {
		return nil, false
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		if !geom.IsFinite(p) {
			return nil, false
		}
		out[i] = c.data.Point(p)
	}
	return out, true
}

func opacity(a float64) float64 {
	if a <= 0 || a > 1 || math.IsNaN(a) {
		return 1
	}
	return a
}

// baselineShift returns the distance from the anchor down to the text
// baseline, in the unit of ascent and descent.
func baselineShift(v VAlign, ascent, descent float64) float64 {
	switch v {
	case AlignTop:
		return ascent
	case AlignMiddle:
		return (ascent - descent) / 2
	case AlignBottom:
		return -descent
	}
	return 0
}
