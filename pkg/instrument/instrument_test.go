package instrument

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

func TestReadFrame(t *testing.T) {
	in := `# EPT sun telescope, ions
time,ch0,ch1
2020-06-01T00:00:00Z,1.5,2
2020-06-01 01:00:00,,nan
2020-06-01T02:00:00,3,4e2
`
	f, err := ReadFrame(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Len() != 3 {
		t.Fatalf("Len = %d, want 3", f.Len())
	}
	if got := f.Names(); len(got) != 2 || got[0] != "ch0" || got[1] != "ch1" {
		t.Errorf("Names = %v", got)
	}
	want := time.Date(2020, 6, 1, 1, 0, 0, 0, time.UTC)
	if !f.Index[1].Equal(want) {
		t.Errorf("Index[1] = %v, want %v", f.Index[1], want)
	}
	if !math.IsNaN(f.Columns[0].Values[1]) || !math.IsNaN(f.Columns[1].Values[1]) {
		t.Errorf("empty and nan cells should read as NaN, got %v", f.Columns)
	}
	if f.Columns[1].Values[2] != 400 {
		t.Errorf("ch1[2] = %v, want 400", f.Columns[1].Values[2])
	}
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only time", "time\n"},
		{"bad time", "time,a\nyesterday,1\n"},
		{"bad value", "time,a\n2020-06-01,abc\n"},
		{"short row", "time,a,b\n2020-06-01,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestReadFrameReportsLine(t *testing.T) {
	in := "time,a\n2020-06-01,1\n2020-06-02,oops\n"
	_, err := ReadFrame(strings.NewReader(in))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("err = %v, want mention of line 3", err)
	}
}

func TestLoadFrameMissing(t *testing.T) {
	_, err := LoadFrame(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEPT(t *testing.T) {
	path := writeFile(t, "time,c0,c1\n2020-05-01,1,2\n2020-05-02,3,4\n2020-05-03,5,6\n")
	start := time.Date(2020, 5, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)

	f, err := LoadEPT(path, start, end)
	if err != nil {
		t.Fatalf("LoadEPT: %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2", f.Len())
	}

	_, err = LoadEPT(path, end, end.AddDate(0, 1, 0))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty range err = %v, want INVALID_INPUT", err)
	}
}

func TestLoadMAG(t *testing.T) {
	path := writeFile(t, "time,b_n,extra,b_r,b_t\n2020-06-01,3,9,1,2\n")
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	f, err := LoadMAG(path, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("LoadMAG: %v", err)
	}
	names := f.Names()
	if len(names) != 3 || names[0] != "B_R" || names[1] != "B_T" || names[2] != "B_N" {
		t.Fatalf("Names = %v, want RTN order", names)
	}
	for i, want := range []float64{1, 2, 3} {
		if got := f.Columns[i].Values[0]; got != want {
			t.Errorf("%s = %v, want %v", names[i], got, want)
		}
	}
}

func TestLoadMAGMissingColumn(t *testing.T) {
	path := writeFile(t, "time,B_R,B_T\n2020-06-01,1,2\n")
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := LoadMAG(path, start, start.AddDate(0, 0, 1))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
