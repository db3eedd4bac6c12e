package transform

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/geom"
	"github.com/matzehuels/orbitribbon/pkg/timeseries"
)

const eps = 1e-12

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func straight(t *testing.T, scale float64) *Path {
	t.Helper()
	p, err := NewPath([]float64{0, 1, 2}, []float64{0, 0, 0}, 0, 2, scale)
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	return p
}

// circle returns n samples of the unit circle, counter-clockwise.
func circle(n int) (xs, ys []float64) {
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		xs = append(xs, math.Cos(a))
		ys = append(ys, math.Sin(a))
	}
	return xs, ys
}

func TestNewPathValidation(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
		lo, hi float64
		code   errors.Code
	}{
		{"single point", []float64{0}, []float64{0}, 0, 1, errors.ErrCodeInvalidPath},
		{"empty", nil, nil, 0, 1, errors.ErrCodeInvalidPath},
		{"length mismatch", []float64{0, 1}, []float64{0}, 0, 1, errors.ErrCodeInvalidPath},
		{"equal bounds", []float64{0, 1}, []float64{0, 0}, 1, 1, errors.ErrCodeInvalidPath},
		{"reversed bounds", []float64{0, 1}, []float64{0, 0}, 2, 1, errors.ErrCodeInvalidPath},
		{"nan coordinate", []float64{0, math.NaN()}, []float64{0, 0}, 0, 1, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPath(tt.xs, tt.ys, tt.lo, tt.hi, 1)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewPath error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNewPathCopiesInput(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 0, 0}
	p, err := NewPath(xs, ys, 0, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	xs[1] = 99
	if got := p.Sample(1); got != geom.Pt(1, 0) {
		t.Errorf("path aliased caller slice: sample 1 = %v", got)
	}
}

func TestWorkedExample(t *testing.T) {
	p := straight(t, 1.0)

	out, err := p.Map([]float64{1, 1}, []float64{1, -1})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if !near(out[0], geom.Pt(1, -1)) {
		t.Errorf("(t=1, offset=1) = %v, want (1, -1)", out[0])
	}
	if !near(out[1], geom.Pt(1, 1)) {
		t.Errorf("(t=1, offset=-1) = %v, want (1, 1)", out[1])
	}
}

func TestShapeMismatch(t *testing.T) {
	p := straight(t, 1)
	_, err := p.Map(make([]float64, 5), make([]float64, 4))
	if !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("Map error = %v, want SHAPE_MISMATCH", err)
	}
}

func TestIndexTruncatesAndClamps(t *testing.T) {
	xs, ys := circle(11)
	p, err := NewPath(xs, ys, 0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		t    float64
		want int
	}{
		{-1000, 0},
		{-0.5, 0},
		{0, 0},
		{0.99, 0},
		{1, 1},
		{4.7, 4},
		{9.999, 9},
		{10, 10},
		{1010, 10},
		{math.NaN(), 0},
		{math.Inf(1), 10},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := p.Index(tt.t); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestBasePointIsSample(t *testing.T) {
	xs, ys := circle(37)
	p, err := NewPath(xs, ys, 100, 200, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	for q := 90.0; q <= 210; q += 0.37 {
		out, _ := p.Map([]float64{q}, []float64{0})
		idx := p.Index(q)
		if out[0] != p.Sample(idx) {
			t.Fatalf("t=%v: base %v is not sample %d (%v)", q, out[0], idx, p.Sample(idx))
		}
	}
}

func TestMonotonicIndices(t *testing.T) {
	xs, ys := circle(50)
	p, err := NewPath(xs, ys, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	prev := -1
	for q := -0.2; q < 1.2; q += 0.0013 {
		idx := p.Index(q)
		if idx < prev {
			t.Fatalf("index decreased at t=%v: %d < %d", q, idx, prev)
		}
		prev = idx
	}
}

func TestZeroOffsetIgnoresScale(t *testing.T) {
	xs, ys := circle(8)
	for _, scale := range []float64{-3, 0, 0.15, 42} {
		p, err := NewPath(xs, ys, 0, 7, scale)
		if err != nil {
			t.Fatal(err)
		}
		out, _ := p.Map([]float64{3}, []float64{0})
		if out[0] != p.Sample(3) {
			t.Errorf("scale %v: zero offset moved point to %v", scale, out[0])
		}
	}
}

func TestScaleSignSymmetry(t *testing.T) {
	xs, ys := circle(16)
	pos, err := NewPath(xs, ys, 0, 15, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	neg := pos.WithScale(-0.2)

	for q := 0.0; q <= 15; q += 0.5 {
		a, _ := pos.Map([]float64{q}, []float64{1.7})
		b, _ := neg.Map([]float64{q}, []float64{1.7})
		base := pos.Sample(pos.Index(q))
		mid := a[0].Add(b[0]).Mul(0.5)
		if !near(mid, base) {
			t.Errorf("t=%v: outputs %v and %v not mirrored about %v", q, a[0], b[0], base)
		}
	}
}

func TestPositiveOffsetDrawsRightOfTravel(t *testing.T) {
	// Travelling along +x, the normal (dy, -dx) points to -y, the right-hand side.
	p := straight(t, 1)
	out, _ := p.Map([]float64{2}, []float64{1})
	if out[0].Y >= 0 {
		t.Errorf("expected -y displacement, got %v", out[0])
	}
}

func TestNormalWrapsAtStart(t *testing.T) {
	// idx 0 uses path[N-1] as its predecessor.
	p, err := NewPath([]float64{0, 1, 2, 2}, []float64{0, 0, 0, 2}, 0, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	// d = (0,0) - (2,2) = (-2,-2) -> normal (-2, 2)/|.|
	want := geom.Pt(-1/math.Sqrt2, 1/math.Sqrt2)
	if got := p.Normal(0); !near(got, want) {
		t.Errorf("Normal(0) = %v, want %v", got, want)
	}
}

func TestDegenerateNormalFallsBack(t *testing.T) {
	// Samples 1 and 2 coincide; sample 2 reuses the normal of segment 0->1.
	p, err := NewPath([]float64{0, 1, 1, 2}, []float64{0, 0, 0, 0}, 0, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Normal(2); !near(got, geom.Pt(0, -1)) {
		t.Errorf("Normal(2) = %v, want (0, -1)", got)
	}

	// Closed loop: first and last sample coincide, so idx 0 walks back.
	closed, err := NewPath([]float64{0, 1, 0}, []float64{0, 0, 0}, 0, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := closed.Normal(0); !geom.IsFinite(got) || got.Length() == 0 {
		t.Errorf("closed loop Normal(0) = %v, want finite unit vector", got)
	}

	// Every segment degenerate: zero normal, never NaN.
	flat, err := NewPath([]float64{5, 5, 5}, []float64{1, 1, 1}, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := flat.Map([]float64{0, 0.5, 1}, []float64{3, -3, 1})
	for i, q := range out {
		if q != geom.Pt(5, 1) {
			t.Errorf("point %d = %v, want (5, 1)", i, q)
		}
	}
}

func TestNaNOffsetIsGap(t *testing.T) {
	p := straight(t, 1)
	out, _ := p.Map([]float64{1}, []float64{math.NaN()})
	if geom.IsFinite(out[0]) {
		t.Errorf("NaN offset produced %v", out[0])
	}
}

func TestApplyMatchesMap(t *testing.T) {
	xs, ys := circle(20)
	p, _ := NewPath(xs, ys, 0, 19, 0.5)
	pts := []geom.Point{geom.Pt(2, 1), geom.Pt(7.3, -0.5), geom.Pt(30, 2)}
	a, err := p.Apply(pts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.Map([]float64{2, 7.3, 30}, []float64{1, -0.5, 2})
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Apply[%d] = %v, Map = %v", i, a[i], b[i])
		}
	}
}

func TestInverseUnsupported(t *testing.T) {
	_, err := straight(t, 1).Inverse()
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Inverse error = %v, want UNSUPPORTED", err)
	}
}

func TestNewPathForTimes(t *testing.T) {
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 6, 11, 0, 0, 0, 0, time.UTC)
	xs, ys := circle(11)
	p, err := NewPathForTimes(xs, ys, start, end, 1)
	if err != nil {
		t.Fatal(err)
	}
	mid := timeseries.DateNum(start.Add(5*24*time.Hour + time.Hour))
	if got := p.Index(mid); got != 5 {
		t.Errorf("Index(day 5 + 1h) = %d, want 5", got)
	}
	if _, err := NewPathForTimes(xs, ys, end, start, 1); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("reversed times: %v", err)
	}
}
