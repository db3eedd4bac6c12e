package errors

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// figureNameRegex matches figure names that are safe as file stems and URL segments.
var figureNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateFigureName validates a figure name for use in output file names and
// preview URLs. It rejects anything that could escape the output directory.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateFigureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "figure name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "figure name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "figure name contains invalid control characters")
		}
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "figure name cannot contain path traversal sequences (..)")
	}
	if !figureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid figure name: %q", name)
	}
	return nil
}

// ValidateTimeRange checks that start lies strictly before end.
func ValidateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return New(ErrCodeInvalidInput, "time range needs both start and end")
	}
	if !end.After(start) {
		return New(ErrCodeInvalidInput, "time range end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

// ValidateDomain checks that [lo, hi] is a finite, strictly increasing interval.
// The path transform relies on this to keep its index arithmetic well defined.
func ValidateDomain(lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return New(ErrCodeInvalidPath, "domain bounds must be finite, got [%g, %g]", lo, hi)
	}
	if hi <= lo {
		return New(ErrCodeInvalidPath, "domain max %g must be greater than domain min %g", hi, lo)
	}
	return nil
}
