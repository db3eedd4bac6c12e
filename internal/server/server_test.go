package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/observability"
	"github.com/matzehuels/orbitribbon/pkg/pipeline"
)

const testConfig = `
[[figure]]
name = "mag_test"
kind = "mag"
start = 2020-06-01T00:00:00Z
end = 2020-06-06T00:00:00Z
samples = 100

[figure.mag]
file = "mag.csv"
`

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("time,B_R,B_T,B_N\n")
	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		h := float64(i)
		fmt.Fprintf(&b, "%s,%.3f,%.3f,0.5\n", start.Add(time.Duration(i)*time.Hour).Format(time.RFC3339), 20+math.Sin(h/10), math.Cos(h/7))
	}
	if err := os.WriteFile(filepath.Join(dir, "mag.csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	return New(cfg, pipeline.NewRunner(nil, nil, logger), logger, opts...).Handler()
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rr := get(h, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", rr.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDReused(t *testing.T) {
	h := newTestServer(t)
	id := uuid.NewString()
	if got := get(h, "/healthz", RequestIDHeader, id).Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
	if got := get(h, "/healthz", RequestIDHeader, "not-a-uuid").Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid incoming request id should be replaced")
	}
}

func TestListFigures(t *testing.T) {
	rr := get(newTestServer(t), "/figures")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var figures []figureInfo
	if err := json.NewDecoder(rr.Body).Decode(&figures); err != nil {
		t.Fatal(err)
	}
	if len(figures) != 1 || figures[0].Name != "mag_test" || figures[0].URL != "/figures/mag_test.svg" {
		t.Errorf("figures = %+v", figures)
	}
}

func TestFigure(t *testing.T) {
	h := newTestServer(t)
	rr := get(h, "/figures/mag_test.svg")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}

	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	if rr := get(h, "/figures/mag_test.svg", "If-None-Match", etag); rr.Code != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", rr.Code)
	}
	if rr := get(h, "/figures/mag_test.svg?style=plain"); rr.Code != http.StatusOK || rr.Header().Get("ETag") == etag {
		t.Errorf("style override: status %d, etag %q", rr.Code, rr.Header().Get("ETag"))
	}
}

func TestFigureErrors(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/figures/unknown.svg", http.StatusNotFound, "FIGURE_NOT_FOUND"},
		{"/figures/mag_test.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/figures/mag_test", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/figures/mag_test.svg?style=neon", http.StatusBadRequest, "INVALID_STYLE"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(h, tt.target)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var body errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code || body.RequestID == "" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeFigureNotFound, http.StatusNotFound},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeOutOfRange, http.StatusBadRequest},
		{errors.ErrCodeInvalidStyle, http.StatusBadRequest},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInvalidConfig, http.StatusInternalServerError},
		{errors.ErrCodeShapeMismatch, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := errors.Wrap(tt.code, stderrors.New("cause"), "wrapped")
			if got := statusFor(err); got != tt.want {
				t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
	if got := statusFor(stderrors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("statusFor(plain) = %d, want 500", got)
	}
}

func TestSplitFile(t *testing.T) {
	tests := []struct {
		file, name, format string
		wantErr            bool
	}{
		{"mag.svg", "mag", "svg", false},
		{"orbit.v2.PNG", "orbit.v2", "png", false},
		{".svg", "", "", true},
		{"mag", "", "", true},
		{"mag.txt", "", "", true},
	}
	for _, tt := range tests {
		name, format, err := splitFile(tt.file)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitFile(%q) err = %v", tt.file, err)
			continue
		}
		if name != tt.name || format != tt.format {
			t.Errorf("splitFile(%q) = %q, %q", tt.file, name, format)
		}
	}
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	m, err := observability.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	m.Install()

	h := newTestServer(t, WithMetrics(m.Handler()))
	get(h, "/figures/mag_test.svg")
	get(h, "/healthz")
	get(h, "/no/such/route")
	get(h, "/another/missing/route")

	rr := get(h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "/no/such/route") {
		t.Error("unrouted path leaked into a metric label")
	}
	for _, want := range []string{
		`route="/figures/{file}"`,
		`route="/healthz"`,
		`route="unmatched"`,
		`orbitribbon_pipeline_stages_total{result="ok",stage="render"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}
