package figure

import (
	"bytes"
	"os/exec"
	"strconv"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// HaveRSVG reports whether rsvg-convert is on PATH.
func HaveRSVG() bool {
	_, err := lookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG at the given resolution. The SVG is sized
// in points, so dpi is the pixel density of the result.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, dpi float64) ([]byte, error) {
	d := strconv.FormatFloat(dpi, 'f', -1, 64)
	return rsvgConvert(svg, "png", "--dpi-x", d, "--dpi-y", d)
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HaveRSVG() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
