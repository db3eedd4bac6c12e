// Package pipeline turns a configured figure into rendered files.
//
// The CLI and the preview server share this package so both produce the
// same output and hit the same cache entries.
//
// # Architecture
//
// A run has four stages:
//
//  1. Trajectory: sample the ephemeris over the figure's time range (cached)
//  2. Load: read the instrument CSV files for the figure kind
//  3. Build: bend the data along the orbit into a [figure.Figure]
//  4. Render: encode the figure as SVG, PNG or PDF (cached per format)
//
// # Usage
//
//	cfg, _ := config.Load("orbitribbon.toml")
//	opts, err := pipeline.OptionsFromConfig(cfg, "mag_orbit_plot")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitribbon/pkg/cache"
	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultStyle is the palette used when none is given.
const DefaultStyle = style.ESA

// DefaultFormats are rendered when no format is given.
var DefaultFormats = []string{figure.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains everything one pipeline run needs.
type Options struct {
	// Figure is the figure to build. Its data file paths are passed
	// through ResolvePath before loading.
	Figure    config.Figure
	Ephemeris ephemeris.Source

	Style   string
	Formats []string
	DPI     float64
	// NativePNG rasterizes PNG without rsvg-convert.
	NativePNG bool
	// Refresh ignores cached entries and overwrites them.
	Refresh bool

	ResolvePath func(string) string
	Logger      *log.Logger

	validated bool
}

// OptionsFromConfig selects the named figure from cfg.
func OptionsFromConfig(cfg *config.Config, name string) (Options, error) {
	f, err := cfg.Figure(name)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Figure:      f,
		Ephemeris:   cfg.EphemerisSource(),
		Style:       cfg.Style,
		Formats:     cfg.Formats,
		DPI:         cfg.DPI,
		ResolvePath: cfg.Path,
	}, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Figure     *figure.Figure
	Trajectory *ephemeris.Trajectory

	// FigureHash is the hash of the figure's SVG; artifacts are keyed by it.
	FigureHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Samples        int
	Rows           int
	Elements       int
	TrajectoryTime time.Duration
	LoadTime       time.Duration
	BuildTime      time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	TrajectoryHit bool // Whether the trajectory came from cache
	RenderHit     bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.DPI == 0 {
		o.DPI = figure.DefaultDPI
	}
	if o.ResolvePath == nil {
		o.ResolvePath = func(p string) string { return p }
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if _, err := style.Lookup(o.Style); err != nil {
		return err
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		format, err := figure.ParseFormat(f)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}
	o.Formats = formats
	if !(o.DPI > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %g", o.DPI)
	}
	if err := o.Figure.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// TrajectoryKeyOpts returns cache key options for the trajectory stage.
func (o *Options) TrajectoryKeyOpts() cache.TrajectoryKeyOpts {
	return cache.TrajectoryKeyOpts{
		Start:   o.Figure.Start,
		End:     o.Figure.End,
		Samples: o.Figure.Samples,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Style: o.Style}
	if format == figure.FormatPNG {
		opts.DPI = o.DPI
		opts.Native = o.NativePNG
	}
	return opts
}

// RenderOptions returns the figure render options.
func (o *Options) RenderOptions() []figure.Option {
	opts := []figure.Option{figure.WithDPI(o.DPI)}
	if o.NativePNG {
		opts = append(opts, figure.WithNativeRaster())
	}
	return opts
}
