package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

func at(h, m int) time.Time {
	return time.Date(2020, 6, 1, h, m, 0, 0, time.UTC)
}

func TestDateNum(t *testing.T) {
	if got := DateNum(time.Date(1970, 1, 2, 12, 0, 0, 0, time.UTC)); got != 1.5 {
		t.Errorf("DateNum = %v, want 1.5", got)
	}
	ref := time.Date(2020, 5, 27, 6, 30, 0, 0, time.UTC)
	if got := FromDateNum(DateNum(ref)); !got.Equal(ref) {
		t.Errorf("FromDateNum(DateNum(%v)) = %v", ref, got)
	}
	if got := Days(36 * time.Hour); got != 1.5 {
		t.Errorf("Days = %v", got)
	}
}

func TestLinspace(t *testing.T) {
	start := at(0, 0)
	end := at(10, 0)
	ts := Linspace(start, end, 11)
	if len(ts) != 11 {
		t.Fatalf("len = %d", len(ts))
	}
	if !ts[0].Equal(start) || !ts[10].Equal(end) {
		t.Errorf("endpoints = %v, %v", ts[0], ts[10])
	}
	if !ts[3].Equal(at(3, 0)) {
		t.Errorf("ts[3] = %v", ts[3])
	}
	if got := Linspace(start, end, 0); got != nil {
		t.Errorf("n=0 should be nil, got %v", got)
	}
}

func TestResampleMean(t *testing.T) {
	f := NewFrame("a")
	_ = f.Append(at(0, 10), 1)
	_ = f.Append(at(0, 50), 3)
	_ = f.Append(at(2, 5), 10)
	_ = f.Append(at(2, 40), math.NaN())

	r, err := f.Resample(time.Hour)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("bins = %d, want 3", r.Len())
	}
	if !r.Index[0].Equal(at(0, 0)) || !r.Index[2].Equal(at(2, 0)) {
		t.Errorf("bin labels = %v", r.Index)
	}
	vals := r.Columns[0].Values
	if vals[0] != 2 {
		t.Errorf("bin 0 = %v, want 2", vals[0])
	}
	if !math.IsNaN(vals[1]) {
		t.Errorf("empty bin = %v, want NaN", vals[1])
	}
	if vals[2] != 10 {
		t.Errorf("bin 2 = %v, want 10", vals[2])
	}
}

func TestResampleAlignsToDayStart(t *testing.T) {
	f := NewFrame("b")
	_ = f.Append(at(7, 0), 1)
	_ = f.Append(at(12, 0), 2)

	r, err := f.Resample(5 * time.Hour)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	// 07:00 falls in [05:00, 10:00), 12:00 in [10:00, 15:00)
	if !r.Index[0].Equal(at(5, 0)) {
		t.Errorf("first bin = %v, want 05:00", r.Index[0])
	}
	if r.Len() != 2 {
		t.Errorf("bins = %d, want 2", r.Len())
	}
}

func TestResampleErrors(t *testing.T) {
	if _, err := NewFrame("a").Resample(time.Hour); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty frame: %v", err)
	}
	f := NewFrame("a")
	_ = f.Append(at(0, 0), 1)
	if _, err := f.Resample(0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero step: %v", err)
	}
}

func TestRowSumAndLog10(t *testing.T) {
	f := NewFrame("c1", "c2")
	_ = f.Append(at(0, 0), 40, 60)
	_ = f.Append(at(1, 0), math.NaN(), 10)
	_ = f.Append(at(2, 0), math.NaN(), math.NaN())

	sum := f.RowSum()
	want := []float64{100, 10, 0}
	for i, w := range want {
		if sum.Values[i] != w {
			t.Errorf("sum[%d] = %v, want %v", i, sum.Values[i], w)
		}
	}

	l := sum.Log10()
	if l.Values[0] != 2 || l.Values[1] != 1 {
		t.Errorf("log10 = %v", l.Values)
	}
	if !math.IsNaN(l.Values[2]) {
		t.Errorf("log10(0) = %v, want NaN", l.Values[2])
	}

	s := l.Shift(0.8)
	if math.Abs(s.Values[0]-2.8) > 1e-12 {
		t.Errorf("shift = %v", s.Values[0])
	}
	if !math.IsNaN(s.Values[2]) {
		t.Error("shift should keep NaN")
	}
}

func TestMagnitudeAndInsert(t *testing.T) {
	f := NewFrame("B_R", "B_T", "B_N")
	_ = f.Append(at(0, 0), 2, 3, 6)

	mag := f.Magnitude("|B|")
	if mag.Values[0] != 7 {
		t.Errorf("|B| = %v, want 7", mag.Values[0])
	}
	if err := f.InsertColumn(0, mag); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	names := f.Names()
	if names[0] != "|B|" || names[1] != "B_R" || len(names) != 4 {
		t.Errorf("names = %v", names)
	}
	if err := f.InsertColumn(9, mag); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("bad position: %v", err)
	}
}

func TestTrimAndBetween(t *testing.T) {
	f := NewFrame("v")
	for h := 0; h < 5; h++ {
		_ = f.Append(at(h, 0), float64(h))
	}

	tr := f.Trim(1, 1)
	if tr.Len() != 3 || tr.Columns[0].Values[0] != 1 || tr.Columns[0].Values[2] != 3 {
		t.Errorf("Trim = %v", tr.Columns[0].Values)
	}
	if f.Trim(3, 3).Len() != 0 {
		t.Error("over-trim should be empty")
	}

	b := f.Between(at(1, 0), at(3, 0))
	if b.Len() != 3 {
		t.Errorf("Between len = %d, want 3", b.Len())
	}
}

func TestMinMaxNormalizeStep(t *testing.T) {
	s := Series{
		Name:   "x",
		Index:  []time.Time{at(0, 0), at(1, 0), at(2, 0)},
		Values: []float64{math.NaN(), 2, 4},
	}
	lo, hi, ok := s.MinMax()
	if !ok || lo != 2 || hi != 4 {
		t.Errorf("MinMax = %v, %v, %v", lo, hi, ok)
	}
	n, err := NewNormalize(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Apply(3); got != 0.5 {
		t.Errorf("Apply(3) = %v", got)
	}
	if !math.IsNaN(n.Apply(math.NaN())) {
		t.Error("Apply(NaN) should be NaN")
	}
	if got := (Normalize{Vmin: 1, Vmax: 1}).Apply(5); got != 0 {
		t.Errorf("degenerate Apply = %v", got)
	}

	step, err := s.Step()
	if err != nil || step != 1.0/24 {
		t.Errorf("Step = %v, %v, want exactly 1/24", step, err)
	}
	if _, err := (Series{}).Step(); err == nil {
		t.Error("Step on empty series should fail")
	}
}
