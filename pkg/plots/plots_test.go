package plots

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/style"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

const orbitRadius = 0.8

var (
	start = time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2020, 7, 10, 0, 0, 0, 0, time.UTC)
)

// circleOrbit runs counter-clockwise around the Sun, three quarters of a
// turn over [start, end].
func circleOrbit(n int) Orbit {
	angle := func(t time.Time) float64 {
		return 1.5 * math.Pi * float64(t.Sub(start)) / float64(end.Sub(start))
	}
	tr := &ephemeris.Trajectory{Times: timeseries.Linspace(start, end, n), X: make([]float64, n), Y: make([]float64, n)}
	for i, t := range tr.Times {
		s, c := math.Sincos(angle(t))
		tr.X[i], tr.Y[i] = orbitRadius*c, orbitRadius*s
	}
	return Orbit{
		Trajectory: tr,
		Position: func(t time.Time) (geom.Point, error) {
			s, c := math.Sincos(angle(t))
			return geom.Pt(orbitRadius*c, orbitRadius*s), nil
		},
	}
}

func countRates(step time.Duration, phase float64) *timeseries.Frame {
	f := timeseries.NewFrame("c0", "c1")
	for t, i := start, 0; !t.After(end); t, i = t.Add(step), i+1 {
		v := 10 + 5*math.Sin(float64(i)/10+phase)
		_ = f.Append(t, v, 2*v)
	}
	return f
}

func collect[T figure.Element](f *figure.Figure) []T {
	var out []T
	for _, e := range f.Elements {
		if el, ok := e.(T); ok {
			out = append(out, el)
		}
	}
	return out
}

func TestConditionEPT(t *testing.T) {
	f := timeseries.NewFrame("c0", "c1")
	t0 := start
	_ = f.Append(t0, 5, 5)
	_ = f.Append(t0.Add(30*time.Minute), 45, 45)
	_ = f.Append(t0.Add(time.Hour), 0, math.NaN())

	s, err := ConditionEPT(f, "ion", time.Hour, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.Name != "ion" {
		t.Fatalf("got %d bins named %q, want 2 named ion", s.Len(), s.Name)
	}
	if want := math.Log10(50) + 0.8; math.Abs(s.Values[0]-want) > 1e-12 {
		t.Errorf("bin 0 = %v, want %v", s.Values[0], want)
	}
	if !math.IsNaN(s.Values[1]) {
		t.Errorf("zero rate should become NaN, got %v", s.Values[1])
	}

	if _, err := ConditionEPT(timeseries.NewFrame("c0"), "ion", time.Hour, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty frame err = %v", err)
	}
}

func TestConditionMAG(t *testing.T) {
	f := timeseries.NewFrame("B_R", "B_T", "B_N")
	for t := start; !t.After(start.AddDate(0, 0, 19)); t = t.Add(time.Hour) {
		_ = f.Append(t, 3, 4, 0)
	}
	mag, err := ConditionMAG(f, 5*time.Hour, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := mag.Names(); len(got) != 4 || got[0] != MagnitudeColumn || got[1] != "B_R" {
		t.Fatalf("Names = %v", got)
	}
	// 19 days of hourly samples fill 92 five-hour bins; both ends are dropped.
	if mag.Len() != 90 {
		t.Errorf("Len = %d, want 90", mag.Len())
	}
	if !mag.Index[0].Equal(start.Add(5 * time.Hour)) {
		t.Errorf("first bin = %v, want 05:00", mag.Index[0])
	}
	if v := mag.Columns[0].Values[0]; math.Abs(v-5) > 1e-12 {
		t.Errorf("|B| = %v, want 5", v)
	}

	short := timeseries.NewFrame("B_R")
	_ = short.Append(start, 1)
	if _, err := ConditionMAG(short, 5*time.Hour, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("short data err = %v", err)
	}
}

func TestBuildEPT(t *testing.T) {
	p, _ := style.Lookup(style.ESA)
	opts := DefaultEPT()
	opts.Arrows = []time.Time{start.AddDate(0, 0, -33), start.AddDate(0, 0, 26)}

	f, err := BuildEPT("ept", circleOrbit(1000), EPTData{
		Ion:      countRates(30*time.Minute, 0),
		Electron: countRates(30*time.Minute, 1),
	}, p, opts)
	if err != nil {
		t.Fatalf("BuildEPT: %v", err)
	}
	if f.Name != "ept" || !f.EqualAspect || f.Background != p.Background {
		t.Errorf("figure = %q equal=%v", f.Name, f.EqualAspect)
	}

	var outside, inside int
	for _, bar := range collect[*figure.Polygon](f) {
		if bar.Z != zData {
			t.Fatalf("bar z = %v", bar.Z)
		}
		base, top := bar.Points[0].Length(), bar.Points[2].Length()
		if math.Abs(base-orbitRadius) > 1e-12 {
			t.Fatalf("bar base at radius %v, want on the orbit", base)
		}
		switch {
		case top > orbitRadius:
			outside++
		case top < orbitRadius:
			inside++
		}
	}
	// Ions (positive scale) sit right of travel, outside a counter-clockwise
	// orbit; electrons (negative scale) inside.
	if outside == 0 || inside == 0 || outside != inside {
		t.Errorf("bars outside=%d inside=%d, want equal non-zero counts", outside, inside)
	}

	var species []string
	for _, tx := range collect[*figure.Text](f) {
		if tx.Content == "e" || tx.Content == "ion" {
			species = append(species, tx.Content)
			r := tx.At.Length()
			if tx.Content == "e" && r >= orbitRadius || tx.Content == "ion" && r <= orbitRadius {
				t.Errorf("%q label at radius %v is on the wrong side", tx.Content, r)
			}
		}
	}
	if len(species) != 2 {
		t.Errorf("species labels = %v", species)
	}

	var ticks, arrows int
	for _, l := range collect[*figure.Polyline](f) {
		switch {
		case l.Width == 2:
			ticks++
		case l.Width == 1.5 && len(l.Points) == 3:
			arrows++
		}
	}
	if ticks != 1 || arrows != 2 {
		t.Errorf("ticks=%d arrows=%d, want 1 and 2", ticks, arrows)
	}
}

func TestBuildEPTSkipsSpeciesWithoutRates(t *testing.T) {
	p, _ := style.Lookup(style.ESA)
	var buf bytes.Buffer
	opts := DefaultEPT()
	opts.Logger = log.New(&buf)

	zeros := timeseries.NewFrame("c0")
	for t := start; !t.After(end); t = t.Add(30 * time.Minute) {
		_ = zeros.Append(t, 0)
	}
	f, err := BuildEPT("ept", circleOrbit(1000), EPTData{
		Ion:      countRates(30*time.Minute, 0),
		Electron: zeros,
	}, p, opts)
	if err != nil {
		t.Fatalf("BuildEPT: %v", err)
	}

	bars := collect[*figure.Polygon](f)
	if len(bars) == 0 {
		t.Fatal("ion bars missing")
	}
	for _, bar := range bars {
		if bar.Points[2].Length() < orbitRadius {
			t.Fatalf("found an electron bar inside the orbit at %v", bar.Points[2])
		}
	}

	var labels int
	for _, tx := range collect[*figure.Text](f) {
		if tx.Content == "e" || tx.Content == "ion" {
			labels++
		}
	}
	var ticks int
	for _, l := range collect[*figure.Polyline](f) {
		if l.Width == 2 {
			ticks++
		}
	}
	if labels != 2 || ticks != 1 {
		t.Errorf("labels=%d ticks=%d, want 2 and 1", labels, ticks)
	}
	if got := buf.String(); !strings.Contains(got, "electron") || !strings.Contains(got, "skipping bars") {
		t.Errorf("log = %q, want a warning naming electron", got)
	}
}

func TestBuildMAG(t *testing.T) {
	p, _ := style.Lookup(style.Plain)
	f := timeseries.NewFrame("B_R", "B_T", "B_N")
	for t, i := start, 0; t.Before(end); t, i = t.Add(time.Hour), i+1 {
		if i%50 == 7 {
			_ = f.Append(t, math.NaN(), math.NaN(), math.NaN())
			continue
		}
		_ = f.Append(t, 3, 4*math.Sin(float64(i)/20), 1)
	}

	fig, err := BuildMAG("mag", circleOrbit(5000), f, p, DefaultMAG())
	if err != nil {
		t.Fatalf("BuildMAG: %v", err)
	}
	if fig.Title == nil || fig.Title.Weight != style.Bold || fig.Title.Coords != figure.AxesCoords {
		t.Errorf("title = %+v", fig.Title)
	}

	var lines []*figure.Polyline
	for _, l := range collect[*figure.Polyline](fig) {
		if l.Width == 0.5 && l.Z == zData {
			lines = append(lines, l)
		}
	}
	if len(lines) != 4 {
		t.Fatalf("got %d data lines, want 4", len(lines))
	}
	for i, l := range lines {
		if l.Color != p.CycleColor(i) {
			t.Errorf("line %d colour = %s, want %s", i, l.Color.Hex(), p.CycleColor(i).Hex())
		}
	}

	var credit bool
	for _, tx := range collect[*figure.Text](fig) {
		if tx.HAlign == figure.AlignRight && tx.Size == figure.SizeXSmall {
			credit = tx.At == geom.Pt(1.05, -1.15)
		}
	}
	if !credit {
		t.Errorf("credit line missing")
	}
}

func TestBuildRequiresPosition(t *testing.T) {
	o := circleOrbit(10)
	o.Position = nil
	_, err := BuildMAG("mag", o, timeseries.NewFrame("B_R"), style.Palette{}, DefaultMAG())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRibbonArrowClampsBeforeStart(t *testing.T) {
	o := circleOrbit(100)
	r, err := NewRibbon(o.Trajectory, 0.15)
	if err != nil {
		t.Fatal(err)
	}
	a, err := r.Arrow(timeseries.DateNum(start)-40, 2, 0.2, figure.Stroke{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// All three points share the first path sample as base.
	base := r.Path().Sample(0)
	if a.Points[1] != base {
		t.Errorf("tip = %+v, want first sample %+v", a.Points[1], base)
	}
	if d0, d2 := a.Points[0].Sub(base).Length(), a.Points[2].Sub(base).Length(); math.Abs(d0-0.03) > 1e-12 || math.Abs(d2-0.03) > 1e-12 {
		t.Errorf("arm lengths = %v, %v, want 0.03", d0, d2)
	}
}
