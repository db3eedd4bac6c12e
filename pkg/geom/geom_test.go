package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(1, 2)
	q := Pt(3, -1)

	if got := p.Add(q); got != Pt(4, 1) {
		t.Errorf("Add = %v", got)
	}
	if got := p.Sub(q); got != Pt(-2, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := p.Mul(-2); got != Pt(-2, -4) {
		t.Errorf("Mul = %v", got)
	}
	if got := Pt(3, 4).Length(); got != 5 {
		t.Errorf("Length = %v", got)
	}
	if got := p.Dot(q); got != 1 {
		t.Errorf("Dot = %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"finite", Pt(0, 1), true},
		{"nan", Pt(math.NaN(), 0), false},
		{"inf", Pt(0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.p); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect(t *testing.T) {
	r := R(Pt(-1, 2), Pt(3, 5))
	if r.LLx != -1 || r.LLy != 2 || r.URx != 3 || r.URy != 5 {
		t.Fatalf("R = %+v", r)
	}
	if Width(r) != 4 || Height(r) != 3 {
		t.Errorf("size = %v x %v, want 4 x 3", Width(r), Height(r))
	}
	if got := Center(r); got != Pt(1, 3.5) {
		t.Errorf("Center = %v", got)
	}
}

func TestAngle(t *testing.T) {
	if got := Angle(Pt(0, 2)); math.Abs(got-math.Pi/2) > 1e-15 {
		t.Errorf("Angle = %v, want pi/2", got)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -10, 4}
	if got := Lerp(a, b, 0.25); got != (Vec3{2.5, -2.5, 1}) {
		t.Errorf("Lerp = %v", got)
	}
}
