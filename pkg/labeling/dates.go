package labeling

import (
	"math"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// DateLayout formats date labels, e.g. "01 Jun 2020".
const DateLayout = "02 Jan 2006"

// PositionFunc returns the plot position of the spacecraft at t.
type PositionFunc func(t time.Time) (geom.Point, error)

// DateOptions configures DateLabels.
type DateOptions struct {
	// Distance scales the label position away from the Sun. Zero means 1.15.
	Distance float64
	// RaisedDistance is used instead of Distance for Raised dates. Zero means 1.4.
	RaisedDistance float64
	// Raised lists dates whose labels would otherwise collide.
	Raised []time.Time
	// MarkerArea in square points. Zero means 40.
	MarkerArea float64
}

func (o DateOptions) withDefaults() DateOptions {
	if o.Distance == 0 {
		o.Distance = 1.15
	}
	if o.RaisedDistance == 0 {
		o.RaisedDistance = 1.4
	}
	if o.MarkerArea == 0 {
		o.MarkerArea = 40
	}
	return o
}

func (o DateOptions) raised(t time.Time) bool {
	for _, r := range o.Raised {
		if r.Equal(t) {
			return true
		}
	}
	return false
}

// MonthStarts returns the first day of every month after start's month that
// falls strictly before end, in UTC.
func MonthStarts(start, end time.Time) []time.Time {
	start, end = start.UTC(), end.UTC()
	var out []time.Time
	d := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	for d.Before(end) {
		out = append(out, d)
		d = d.AddDate(0, 1, 0)
	}
	return out
}

// DateLabels labels the first of each month between start and end. A start
// on the first of a month is labelled too but gets no marker, since the
// start marker of the track already sits there.
func DateLabels(pos PositionFunc, start, end time.Time, p style.Palette, opts DateOptions) ([]figure.Element, error) {
	opts = opts.withDefaults()
	dates := MonthStarts(start, end)
	firstIsStart := start.UTC().Day() == 1
	if firstIsStart {
		dates = append([]time.Time{start.UTC()}, dates...)
	}

	var els []figure.Element
	for i, d := range dates {
		at, err := pos(d)
		if err != nil {
			return nil, err
		}
		f := opts.Distance
		if opts.raised(d) {
			f = opts.RaisedDistance
		}
		ha, va := Align(at)
		els = append(els, &figure.Text{
			At:      at.Mul(f),
			Content: d.Format(DateLayout),
			Color:   p.Foreground,
			Weight:  p.DateLabelWeight,
			HAlign:  ha,
			VAlign:  va,
			Z:       3,
		})
		if i == 0 && firstIsStart {
			continue
		}
		els = append(els, &figure.Marker{
			At:        at,
			Area:      opts.MarkerArea,
			Face:      p.Foreground,
			Edge:      p.Foreground,
			EdgeWidth: 1.5,
			Z:         10,
		})
	}
	return els, nil
}

// Align picks text alignment so that a label placed outward from the Sun
// at pos grows away from the orbit.
func Align(pos geom.Point) (figure.HAlign, figure.VAlign) {
	s, c := math.Sincos(geom.Angle(pos))
	ha := figure.AlignRight
	switch {
	case c > 0.2:
		ha = figure.AlignLeft
	case c > -0.2:
		ha = figure.AlignCenter
	}
	va := figure.AlignTop
	switch {
	case s > 0.2:
		va = figure.AlignBottom
	case s > -0.2:
		va = figure.AlignMiddle
	}
	return ha, va
}
