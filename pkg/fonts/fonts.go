// Package fonts provides the embedded fonts used by the native rasterizer.
//
// The Go font family ships with golang.org/x/image, so PNG output works
// without any fonts installed on the host. SVG output names fonts by family
// and leaves the lookup to the viewer.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name of the embedded fonts.
const FontFamily = "Go"

// Parsed fonts (computed once on first access).
var (
	regular, bold *opentype.Font
	parseErr      error
	parseOnce     sync.Once
)

func parse() {
	if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
		return
	}
	bold, parseErr = opentype.Parse(gobold.TTF)
}

// NewFace returns a face of the regular or bold Go font at sizePx pixels.
// Faces are not safe for concurrent use; callers create one per render and
// close it when done.
func NewFace(isBold bool, sizePx float64) (font.Face, error) {
	parseOnce.Do(parse)
	if parseErr != nil {
		return nil, parseErr
	}
	f := regular
	if isBold {
		f = bold
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
