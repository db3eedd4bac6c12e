// Package server serves configured figures over HTTP for quick previews.
//
// Routes:
//
//	GET /healthz                 liveness and build version
//	GET /figures                 configured figures as JSON
//	GET /figures/{name}.{format} rendered figure; ?style= overrides the palette
//	GET /metrics                 Prometheus metrics, when enabled
//
// Every response carries an X-Request-ID header.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orbitribbon/pkg/buildinfo"
	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/pipeline"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// Server renders figures on request through a shared pipeline runner.
type Server struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics http.Handler
	native  bool
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithNativePNG rasterizes PNG without rsvg-convert.
func WithNativePNG() Option {
	return func(s *Server) { s.native = true }
}

// New creates a server for the figures in cfg.
func New(cfg *config.Config, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/figures", s.handleList)
	r.Get("/figures/{file}", s.handleFigure)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// figureInfo describes one configured figure.
type figureInfo struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Formats []string  `json:"formats"`
	URL     string    `json:"url"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	out := make([]figureInfo, 0, len(s.cfg.Figures))
	for _, f := range s.cfg.Figures {
		out = append(out, figureInfo{
			Name:    f.Name,
			Kind:    f.Kind,
			Start:   f.Start,
			End:     f.End,
			Formats: figure.Formats,
			URL:     "/figures/" + f.Name + "." + figure.FormatSVG,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	name, format, err := splitFile(chi.URLParam(r, "file"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := pipeline.OptionsFromConfig(s.cfg, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.NativePNG = s.native
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))
	if st := r.URL.Query().Get("style"); st != "" {
		if _, err := style.Lookup(st); err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Style = st
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := `"` + res.FigureHash + "-" + format + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

var contentTypes = map[string]string{
	figure.FormatSVG: "image/svg+xml",
	figure.FormatPNG: "image/png",
	figure.FormatPDF: "application/pdf",
}

// splitFile splits "name.format" at the last dot.
func splitFile(file string) (name, format string, err error) {
	i := strings.LastIndexByte(file, '.')
	if i <= 0 {
		return "", "", errors.New(errors.ErrCodeInvalidFormat, "missing format in %q (want name.svg, name.png or name.pdf)", file)
	}
	format, err = figure.ParseFormat(file[i+1:])
	if err != nil {
		return "", "", err
	}
	return file[:i], format, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCodeOr(err, errors.ErrCodeInternal)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// statusFor maps error codes to HTTP status codes. The figure configuration
// belongs to the server, so INVALID_CONFIG is a server fault and is logged
// with the other 5xx errors.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeFigureNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidName,
		errors.ErrCodeInvalidInput, errors.ErrCodeOutOfRange:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
