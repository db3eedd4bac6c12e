package figure

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// Approximate sans-serif metrics in em, used to place SVG text baselines
// without measuring glyphs.
const (
	svgAscent  = 0.76
	svgDescent = 0.24
)

const clipID = "axes-clip"

// RenderSVG renders the figure as an SVG document sized in points.
func RenderSVG(f *Figure) []byte {
	c := f.canvas(PointsPerInch)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%spt" height="%spt">`+"\n",
		num(c.width), num(c.height), num(c.width), num(c.height))
	fmt.Fprintf(&buf, `  <defs><clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath></defs>`+"\n",
		clipID, num(c.clip.LLx), num(c.clip.LLy), num(geom.Width(c.clip)), num(geom.Height(c.clip)))
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", f.Background.Hex())
	fmt.Fprintf(&buf, `  <g font-family="%s">`+"\n", html.EscapeString(f.FontFamily))

	for _, e := range f.Sorted() {
		switch el := e.(type) {
		case *Polyline:
			svgPolyline(&buf, c, el)
		case *Polygon:
			svgPolygon(&buf, c, el)
		case *Circle:
			svgCircle(&buf, c, el)
		case *Marker:
			svgMarker(&buf, c, el)
		case *Text:
			svgText(&buf, c, el)
		}
	}
	if f.Title != nil {
		svgText(&buf, c, f.Title)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func svgPolyline(buf *bytes.Buffer, c canvas, p *Polyline) {
	for _, run := range c.runs(p.Points) {
		fmt.Fprintf(buf, `    <polyline points="%s" fill="none"%s clip-path="url(#%s)"/>`+"\n",
			svgPoints(run), svgStroke(p.Stroke), clipID)
	}
}

func svgPolygon(buf *bytes.Buffer, c canvas, p *Polygon) {
	pts, ok := c.polygon(p.Points)
	if !ok {
		return
	}
	fmt.Fprintf(buf, `    <polygon points="%s" fill="%s"%s clip-path="url(#%s)"/>`+"\n",
		svgPoints(pts), p.Fill.Hex(), svgOpacity("fill-opacity", p.Alpha), clipID)
}

func svgCircle(buf *bytes.Buffer, c canvas, ci *Circle) {
	ctr := c.data.Point(ci.Center)
	rx := ci.Radius * math.Abs(c.data[0])
	ry := ci.Radius * math.Abs(c.data[3])
	fmt.Fprintf(buf, `    <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="none"%s clip-path="url(#%s)"/>`+"\n",
		num(ctr.X), num(ctr.Y), num(rx), num(ry), svgStroke(ci.Stroke), clipID)
}

func svgMarker(buf *bytes.Buffer, c canvas, m *Marker) {
	if !geom.IsFinite(m.At) {
		return
	}
	p := c.data.Point(m.At)
	fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" fill="%s"`, num(p.X), num(p.Y), num(m.Radius()), m.Face.Hex())
	if m.EdgeWidth > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, m.Edge.Hex(), num(m.EdgeWidth))
	}
	fmt.Fprintf(buf, ` clip-path="url(#%s)"/>`+"\n", clipID)
}

func svgText(buf *bytes.Buffer, c canvas, t *Text) {
	if !geom.IsFinite(t.At) || t.Content == "" {
		return
	}
	a := c.anchor(t)
	size := t.FontSize()
	dy := baselineShift(t.VAlign, svgAscent, svgDescent) * size

	fmt.Fprintf(buf, `    <text transform="translate(%s %s)`, num(a.X), num(a.Y))
	if t.Rotation != 0 {
		fmt.Fprintf(buf, ` rotate(%s)`, num(-t.Rotation))
	}
	fmt.Fprintf(buf, `" y="%s" font-size="%s" fill="%s" text-anchor="%s"`,
		num(dy), num(size), t.Color.Hex(), svgAnchor(t.HAlign))
	if t.Weight == style.Bold {
		buf.WriteString(` font-weight="bold"`)
	}
	fmt.Fprintf(buf, `>%s</text>`+"\n", html.EscapeString(t.Content))
}

func svgStroke(s Stroke) string {
	var b strings.Builder
	fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s" stroke-linejoin="round"`, s.Color.Hex(), num(s.Width))
	if len(s.Dash) > 0 {
		dash := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = num(d * s.Width)
		}
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(dash, ","))
	} else {
		b.WriteString(` stroke-linecap="square"`)
	}
	b.WriteString(svgOpacity("stroke-opacity", s.Alpha))
	return b.String()
}

func svgOpacity(attr string, a float64) string {
	if o := opacity(a); o < 1 {
		return fmt.Sprintf(` %s="%s"`, attr, num(o))
	}
	return ""
}

func svgAnchor(h HAlign) string {
	switch h {
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	}
	return "start"
}

func svgPoints(pts []geom.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(p.X))
		b.WriteByte(',')
		b.WriteString(num(p.Y))
	}
	return b.String()
}

// num formats a coordinate with two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
