package errors

import (
	"math"
	"testing"
	"time"
)

func TestValidateFigureName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "ept_orbit_plot", false},
		{"with dash", "mag-orbit", false},
		{"with dot", "mag.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"control char", "foo\x01bar", true},
		{"leading dot", ".hidden", true},
		{"space", "my plot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFigureName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFigureName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateFigureName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	start := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 10, 0, 0, 0, 0, time.UTC)

	if err := ValidateTimeRange(start, end); err != nil {
		t.Errorf("valid range: %v", err)
	}
	if err := ValidateTimeRange(end, start); err == nil {
		t.Error("reversed range should fail")
	}
	if err := ValidateTimeRange(start, start); err == nil {
		t.Error("empty range should fail")
	}
	if err := ValidateTimeRange(time.Time{}, end); err == nil {
		t.Error("zero start should fail")
	}
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  float64
		wantErr bool
	}{
		{"increasing", 0, 2, false},
		{"negative", -5, -1, false},
		{"equal", 1, 1, true},
		{"decreasing", 2, 0, true},
		{"nan", math.NaN(), 1, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomain(tt.lo, tt.hi)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDomain(%g, %g) error = %v, wantErr %v", tt.lo, tt.hi, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateDomain returned wrong code: %v", err)
			}
		})
	}
}
