package figure

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/orbitribbon/pkg/fonts"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// Rasterize draws the figure into an RGBA image with dpi pixels per inch.
func Rasterize(f *Figure, dpi float64) (*image.RGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c := f.canvas(dpi)
	img := image.NewRGBA(image.Rect(0, 0, int(math.Round(c.width)), int(math.Round(c.height))))
	draw.Draw(img, img.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)

	r := &rasterizer{dst: img, c: c, clip: clipRect(c.clip, img.Bounds()), faces: map[faceKey]font.Face{}}
	defer r.close()

	for _, e := range f.Sorted() {
		var err error
		switch el := e.(type) {
		case *Polyline:
			for _, run := range c.runs(el.Points) {
				r.stroke(run, el.Stroke, false)
			}
		case *Polygon:
			if pts, ok := c.polygon(el.Points); ok {
				r.fill([][]geom.Point{pts}, rgba(el.Fill, el.Alpha), r.clip)
			}
		case *Circle:
			ctr := c.data.Point(el.Center)
			pts := ellipse(ctr, el.Radius*math.Abs(c.data[0]), el.Radius*math.Abs(c.data[3]))
			r.stroke(pts, el.Stroke, true)
		case *Marker:
			if geom.IsFinite(el.At) {
				r.marker(el)
			}
		case *Text:
			err = r.text(el)
		}
		if err != nil {
			return nil, err
		}
	}
	if f.Title != nil {
		if err := r.text(f.Title); err != nil {
			return nil, err
		}
	}
	return img, nil
}

type faceKey struct {
	bold bool
	size float64
}

type rasterizer struct {
	dst   *image.RGBA
	c     canvas
	clip  image.Rectangle
	faces map[faceKey]font.Face
}

func (r *rasterizer) close() {
	for _, f := range r.faces {
		f.Close()
	}
}

func (r *rasterizer) face(w style.Weight, sizePx float64) (font.Face, error) {
	k := faceKey{bold: w == style.Bold, size: sizePx}
	if f, ok := r.faces[k]; ok {
		return f, nil
	}
	f, err := fonts.NewFace(k.bold, sizePx)
	if err != nil {
		return nil, err
	}
	r.faces[k] = f
	return f, nil
}

// fill rasterizes polygons as one mask, restricted to the area bound.
func (r *rasterizer) fill(polys [][]geom.Point, col color.Color, area image.Rectangle) {
	bb := area.Intersect(bounds(polys))
	if bb.Empty() {
		return
	}
	z := vector.NewRasterizer(bb.Dx(), bb.Dy())
	ox, oy := float64(bb.Min.X), float64(bb.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		// The mask accumulates signed coverage; keep every polygon wound the
		// same way so overlaps add up instead of cancelling.
		if signedArea(poly) < 0 {
			poly = reversed(poly)
		}
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}
	z.Draw(r.dst, bb, image.NewUniform(col), image.Point{})
}

func (r *rasterizer) stroke(pts []geom.Point, s Stroke, closed bool) {
	w := r.c.pt(s.Width)
	if w <= 0 || len(pts) < 2 {
		return
	}
	subs := flattenPath(polylinePath(pts, closed))
	if len(s.Dash) > 0 {
		pattern := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			pattern[i] = d * w
		}
		subs = dashSegments(subs, pattern)
	}
	r.fill(strokeShapes(subs, w), rgba(s.Color, s.Alpha), r.clip)
}

func (r *rasterizer) marker(m *Marker) {
	ctr := r.c.data.Point(m.At)
	rad := r.c.pt(m.Radius())
	r.fill([][]geom.Point{ellipse(ctr, rad, rad)}, rgba(m.Face, 1), r.clip)
	if m.EdgeWidth > 0 {
		r.stroke(ellipse(ctr, rad, rad), Stroke{Color: m.Edge, Width: m.EdgeWidth}, true)
	}
}

func (r *rasterizer) text(t *Text) error {
	if !geom.IsFinite(t.At) || t.Content == "" {
		return nil
	}
	face, err := r.face(t.Weight, r.c.pt(t.FontSize()))
	if err != nil {
		return err
	}
	m := face.Metrics()
	asc, desc := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
	width := fixedToFloat(font.MeasureString(face, t.Content))

	var xoff float64
	switch t.HAlign {
	case AlignCenter:
		xoff = -width / 2
	case AlignRight:
		xoff = -width
	}
	by := baselineShift(t.VAlign, asc, desc)
	a := r.c.anchor(t)
	src := image.NewUniform(rgba(t.Color, 1))

	if t.Rotation == 0 {
		d := font.Drawer{Dst: r.dst, Src: src, Face: face, Dot: fixedPoint(a.X+xoff, a.Y+by)}
		d.DrawString(t.Content)
		return nil
	}

	// Draw upright into a scratch image, then rotate it onto the page about
	// the anchor.
	const pad = 2
	tmp := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(width))+2*pad, int(math.Ceil(asc+desc))+2*pad))
	d := font.Drawer{Dst: tmp, Src: src, Face: face, Dot: fixedPoint(pad, pad+asc)}
	d.DrawString(t.Content)

	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	lx, ly := xoff-pad, by-asc-pad
	s2d := f64.Aff3{
		cos, sin, cos*lx + sin*ly + a.X,
		-sin, cos, -sin*lx + cos*ly + a.Y,
	}
	draw.BiLinear.Transform(r.dst, s2d, tmp, tmp.Bounds(), draw.Over, nil)
	return nil
}

// polylinePath walks pts as a single subpath, closed on request.
func polylinePath(pts []geom.Point, closed bool) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) == 0 {
			return
		}
		if !yield(path.CmdMoveTo, []vec.Vec2{pts[0]}) {
			return
		}
		for _, p := range pts[1:] {
			if !yield(path.CmdLineTo, []vec.Vec2{p}) {
				return
			}
		}
		if closed {
			yield(path.CmdClose, nil)
		}
	}
}

type strokeSegment struct {
	A, B vec.Vec2
	T, N vec.Vec2 // unit tangent and unit normal (90° CCW)
}

func newSegment(a, b vec.Vec2) (strokeSegment, bool) {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return strokeSegment{}, false
	}
	t := d.Mul(1 / l)
	return strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}}, true
}

// flattenPath splits p into subpaths of non-degenerate line segments.
// Curves are replaced by their chord; figure elements only produce
// polylines.
func flattenPath(p path.Path) [][]strokeSegment {
	var (
		out       [][]strokeSegment
		cur       []strokeSegment
		pt, start vec.Vec2
		inSubpath bool
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	lineTo := func(b vec.Vec2) {
		if seg, ok := newSegment(pt, b); ok {
			cur = append(cur, seg)
		}
		pt = b
	}
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			flush()
			pt, start, inSubpath = pts[0], pts[0], true
		case path.CmdLineTo, path.CmdQuadTo, path.CmdCubeTo:
			if inSubpath {
				lineTo(pts[len(pts)-1])
			}
		case path.CmdClose:
			if inSubpath {
				if pt != start {
					lineTo(start)
				}
				flush()
				pt, inSubpath = start, false
			}
		}
	}
	flush()
	return out
}

// dashSegments cuts every subpath into the "on" pieces of a dash pattern
// given in pixels. The pattern restarts at each subpath.
func dashSegments(subs [][]strokeSegment, pattern []float64) [][]strokeSegment {
	total := 0.0
	for _, p := range pattern {
		total += math.Max(p, 0)
	}
	if total <= 0 {
		return subs
	}

	var out [][]strokeSegment
	for _, sub := range subs {
		idx, on := 0, true
		left := math.Max(pattern[0], 0)
		var dash []strokeSegment
		for _, seg := range sub {
			l := seg.B.Sub(seg.A).Length()
			pos := 0.0
			for l-pos > left {
				a := seg.A.Add(seg.T.Mul(pos))
				pos += left
				b := seg.A.Add(seg.T.Mul(pos))
				if on {
					if piece, ok := newSegment(a, b); ok {
						dash = append(dash, piece)
					}
					if len(dash) > 0 {
						out = append(out, dash)
					}
					dash = nil
				}
				on = !on
				idx = (idx + 1) % len(pattern)
				left = math.Max(pattern[idx], 0)
			}
			left -= l - pos
			if on {
				if piece, ok := newSegment(seg.A.Add(seg.T.Mul(pos)), seg.B); ok {
					dash = append(dash, piece)
				}
			}
		}
		if on && len(dash) > 0 {
			out = append(out, dash)
		}
	}
	return out
}

// strokeShapes outlines each subpath at width w as one quad per segment,
// offset along the segment normal, plus a disc at every interior vertex
// for round joins.
func strokeShapes(subs [][]strokeSegment, w float64) [][]geom.Point {
	half := w / 2
	var out [][]geom.Point
	for _, sub := range subs {
		for i, seg := range sub {
			n := seg.N.Mul(half)
			out = append(out, []geom.Point{seg.A.Add(n), seg.B.Add(n), seg.B.Sub(n), seg.A.Sub(n)})
			if i < len(sub)-1 && w >= 1.5 {
				out = append(out, ellipse(seg.B, half, half))
			}
		}
	}
	return out
}

// ellipse approximates an axis-aligned ellipse by a polygon.
func ellipse(c geom.Point, rx, ry float64) []geom.Point {
	n := int(math.Ceil(math.Pi * math.Max(rx, ry)))
	n = max(16, min(n, 720))
	pts := make([]geom.Point, n)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = geom.Pt(c.X+rx*co, c.Y+ry*s)
	}
	return pts
}

func signedArea(poly []geom.Point) float64 {
	var a float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func reversed(poly []geom.Point) []geom.Point {
	out := make([]geom.Point, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

func bounds(polys [][]geom.Point) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

func clipRect(r geom.Rect, img image.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.LLx)), int(math.Floor(r.LLy)),
		int(math.Ceil(r.URx)), int(math.Ceil(r.URy)),
	).Intersect(img)
}

func rgba(c style.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(opacity(alpha) * 255))}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func fixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}
