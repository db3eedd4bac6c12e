package style

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// Colormap maps a normalised value in [0, 1] to a colour.
// Values outside the range are clipped; ok is false for NaN.
type Colormap interface {
	At(v float64) (c Color, ok bool)
}

// ColormapFunc adapts a function to the Colormap interface.
type ColormapFunc func(v float64) Color

// At implements Colormap.
func (f ColormapFunc) At(v float64) (Color, bool) {
	if math.IsNaN(v) {
		return Color{}, false
	}
	return f(clip01(v)), true
}

// Turbo is Google's turbo rainbow map, evaluated with its published
// polynomial approximation.
var Turbo Colormap = ColormapFunc(func(x float64) Color {
	r := 0.13572138 + x*(4.61539260+x*(-42.66032258+x*(132.13108234+x*(-152.94239396+x*59.28637943))))
	g := 0.09140261 + x*(2.19418839+x*(4.84296658+x*(-14.18503333+x*(4.27729857+x*2.82956604))))
	b := 0.10667330 + x*(12.64194608+x*(-60.58204836+x*(110.36276771+x*(-89.90310912+x*27.34824973))))
	return colorful.Color{R: clip01(r), G: clip01(g), B: clip01(b)}
})

// Blend returns a two-colour map interpolated in CIE L*a*b*, which keeps
// perceived lightness changing evenly along the ramp.
func Blend(from, to Color) Colormap {
	return ColormapFunc(func(x float64) Color {
		return from.BlendLab(to, x).Clamped()
	})
}

// ColormapByName returns a colour map by name: "turbo", "gray" or "solar".
func ColormapByName(name string) (Colormap, error) {
	switch name {
	case "", "turbo":
		return Turbo, nil
	case "gray":
		return Blend(MustHex("#000000"), MustHex("#ffffff")), nil
	case "solar":
		return Blend(MustHex("#7a0403"), MustHex("#fffd7a")), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown colour map: %q (must be one of: turbo, gray, solar)", name)
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
