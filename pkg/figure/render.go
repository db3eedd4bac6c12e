package figure

import (
	"bytes"
	"image/png"
	"slices"
	"strings"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF}

// DefaultDPI is the PNG resolution.
const DefaultDPI = 300

// ParseFormat normalizes a format name.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// Option configures raster output.
type Option func(*renderOptions)

type renderOptions struct {
	dpi    float64
	native bool
}

// WithDPI sets the PNG resolution in pixels per inch.
func WithDPI(dpi float64) Option {
	return func(o *renderOptions) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithNativeRaster skips rsvg-convert and uses the built-in rasterizer.
func WithNativeRaster() Option {
	return func(o *renderOptions) { o.native = true }
}

func newRenderOptions(opts []Option) renderOptions {
	o := renderOptions{dpi: DefaultDPI}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render renders the figure in the given format.
func Render(f *Figure, format string, opts ...Option) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return RenderSVG(f), nil
	case FormatPNG:
		return RenderPNG(f, opts...)
	case FormatPDF:
		return RenderPDF(f)
	}
	_, err := ParseFormat(format)
	return nil, err
}

// RenderPNG renders the figure as PNG. It converts the SVG with rsvg-convert
// when available and falls back to the native rasterizer otherwise.
func RenderPNG(f *Figure, opts ...Option) ([]byte, error) {
	o := newRenderOptions(opts)
	if !o.native && HaveRSVG() {
		return ToPNG(RenderSVG(f), o.dpi)
	}
	img, err := Rasterize(f, o.dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RenderPDF renders the figure as PDF via rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(f *Figure) ([]byte, error) {
	return ToPDF(RenderSVG(f))
}
