// Package config loads the TOML file that describes which figures to render.
//
// # File Layout
//
// Global settings come first, followed by the ephemeris and one [[figure]]
// table per figure:
//
//	style = "esa"
//	formats = ["pdf", "png"]
//
//	[ephemeris]
//	kind = "kepler"
//
//	[[figure]]
//	name = "mag_orbit_plot"
//	kind = "mag"
//	start = 2020-06-01T00:00:00Z
//	end = 2020-12-10T00:00:00Z
//	samples = 5000
//
//	[figure.mag]
//	file = "data/mag_rtn.csv"
//	resample = "5h"
//
// Fields left out take the values of [Default], which reproduces the Solar
// Orbiter EPT and MAG overview figures. Relative file paths resolve against
// the directory of the config file.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orbitribbon/pkg/ephemeris"
	"github.com/matzehuels/orbitribbon/pkg/errors"
	"github.com/matzehuels/orbitribbon/pkg/figure"
	"github.com/matzehuels/orbitribbon/pkg/style"
)

// FileName is the config file looked up in the working directory.
const FileName = "orbitribbon.toml"

// Figure kinds.
const (
	KindEPT = "ept"
	KindMAG = "mag"
)

// Config is the top-level configuration.
type Config struct {
	Style     string           `toml:"style"`
	Formats   []string         `toml:"formats"`
	OutputDir string           `toml:"output_dir"`
	DPI       float64          `toml:"dpi"`
	Ephemeris ephemeris.Source `toml:"ephemeris"`
	Figures   []Figure         `toml:"figure"`

	// BaseDir is where relative paths resolve; set by Load.
	BaseDir string `toml:"-"`
}

// Figure describes one orbit figure.
type Figure struct {
	Name    string    `toml:"name"`
	Kind    string    `toml:"kind"`
	Start   time.Time `toml:"start"`
	End     time.Time `toml:"end"`
	Samples int       `toml:"samples"`

	Size [2]float64 `toml:"size"`
	XLim [2]float64 `toml:"xlim"`
	YLim [2]float64 `toml:"ylim"`

	Title  string `toml:"title,omitempty"`
	Credit string `toml:"credit,omitempty"`

	Arrows        []time.Time `toml:"arrows,omitempty"`
	Raised        []time.Time `toml:"raised,omitempty"`
	LabelDistance float64     `toml:"label_distance,omitempty"`
	MarkerScale   float64     `toml:"marker_scale,omitempty"`

	EPT *EPT `toml:"ept,omitempty"`
	MAG *MAG `toml:"mag,omitempty"`
}

// EPT holds the particle data settings of an "ept" figure.
type EPT struct {
	IonFile       string   `toml:"ion_file"`
	ElectronFile  string   `toml:"electron_file"`
	Resample      Duration `toml:"resample"`
	IonShift      *float64 `toml:"ion_shift,omitempty"`
	ElectronShift *float64 `toml:"electron_shift,omitempty"`
	IonScale      float64  `toml:"ion_scale"`
	ElectronScale float64  `toml:"electron_scale"`
	Colormap      string   `toml:"colormap,omitempty"`
}

// MAG holds the magnetometer settings of a "mag" figure.
type MAG struct {
	File      string   `toml:"file"`
	Resample  Duration `toml:"resample"`
	TrimBins  *int     `toml:"trim_bins,omitempty"`
	LineScale float64  `toml:"line_scale"`
	LineWidth float64  `toml:"line_width"`
}

// Duration is a time.Duration written as a Go duration string ("5h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", b)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads a config file, fills defaults and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = filepath.Dir(path)
	return cfg, nil
}

// Decode parses TOML from r, fills defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// SetDefaults fills unset fields from Default. Figures inherit per kind.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Style == "" {
		c.Style = def.Style
	}
	if len(c.Formats) == 0 {
		c.Formats = def.Formats
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.DPI == 0 {
		c.DPI = def.DPI
	}
	if c.Ephemeris.Kind == "" {
		c.Ephemeris.Kind = ephemeris.KindKepler
	}
	if c.Ephemeris.Kind == ephemeris.KindKepler && c.Ephemeris.Kepler.PerihelionAU == 0 {
		c.Ephemeris.Kepler = ephemeris.SolarOrbiter2020
	}
	if c.Figures == nil {
		c.Figures = def.Figures
	}
	for i := range c.Figures {
		c.Figures[i].setDefaults()
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if _, err := style.Lookup(c.Style); err != nil {
		return err
	}
	for _, f := range c.Formats {
		if _, err := figure.ParseFormat(f); err != nil {
			return err
		}
	}
	if !(c.DPI > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %g", c.DPI)
	}
	switch c.Ephemeris.Kind {
	case ephemeris.KindKepler, ephemeris.KindTable, ephemeris.KindTLE:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown ephemeris kind: %q (must be one of: kepler, table, tle)", c.Ephemeris.Kind)
	}
	if len(c.Figures) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no figures configured")
	}
	seen := make(map[string]bool, len(c.Figures))
	for _, f := range c.Figures {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate figure name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Figure returns the named figure.
func (c *Config) Figure(name string) (Figure, error) {
	i := slices.IndexFunc(c.Figures, func(f Figure) bool { return f.Name == name })
	if i < 0 {
		return Figure{}, errors.New(errors.ErrCodeFigureNotFound, "figure %q not found (have: %s)", name, strings.Join(c.Names(), ", "))
	}
	return c.Figures[i], nil
}

// Names lists the configured figure names in file order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Figures))
	for i, f := range c.Figures {
		names[i] = f.Name
	}
	return names
}

// Path resolves p against BaseDir unless it is absolute.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// EphemerisSource returns the ephemeris with its table path resolved.
func (c *Config) EphemerisSource() ephemeris.Source {
	src := c.Ephemeris
	src.File = c.Path(src.File)
	return src
}
