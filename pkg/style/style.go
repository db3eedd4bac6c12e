// Package style holds the palettes and colour maps shared by all figures.
//
// Two palettes exist: "esa" (dark blue background, white strokes) and "plain"
// (the default white-background look). Figures look colours up by role
// (foreground, secondary, sun) rather than hard-coding them, so switching the
// palette restyles every element.
package style

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// Palette names.
const (
	ESA   = "esa"
	Plain = "plain"
)

// Weight is a font weight.
type Weight string

// Font weights.
const (
	Regular Weight = "normal"
	Bold    Weight = "bold"
)

// Color is an opaque RGB colour.
type Color = colorful.Color

// Palette is the set of colours and fonts a figure is drawn with.
type Palette struct {
	Name       string
	Background Color
	Foreground Color
	Secondary  Color
	SunFace    Color
	SunEdge    Color

	// Cycle is the line colour cycle for multi-component plots.
	Cycle []Color

	FontFamily      string
	DateLabelWeight Weight
	TitleWeight     Weight
}

// CycleColor returns the i-th colour of the cycle, wrapping around.
func (p Palette) CycleColor(i int) Color {
	if len(p.Cycle) == 0 {
		return p.Foreground
	}
	return p.Cycle[i%len(p.Cycle)]
}

var palettes = map[string]Palette{
	ESA: {
		Name:       ESA,
		Background: MustHex("#003247"),
		Foreground: MustHex("#ffffff"),
		Secondary:  MustHex("#ffffff"),
		SunFace:    MustHex("#fffd7a"),
		SunEdge:    MustHex("#ffffba"),
		Cycle: hexes("#8dd3c7", "#feffb3", "#bfbbd9", "#fa8174", "#81b1d2",
			"#fdb462", "#b3de69", "#bc82bd", "#ccebc4", "#ffed6f"),
		FontFamily:      "NotesEsa, 'DejaVu Sans', sans-serif",
		DateLabelWeight: Bold,
		TitleWeight:     Regular,
	},
	Plain: {
		Name:       Plain,
		Background: MustHex("#ffffff"),
		Foreground: MustHex("#000000"),
		Secondary:  MustHex("#808080"),
		SunFace:    MustHex("#ffff00"),
		SunEdge:    MustHex("#000000"),
		Cycle: hexes("#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"),
		FontFamily:      "'DejaVu Sans', sans-serif",
		DateLabelWeight: Regular,
		TitleWeight:     Bold,
	},
}

// Lookup returns the named palette.
func Lookup(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style: %q (must be one of: esa, plain)", name)
	}
	return p, nil
}

// Names lists the palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MustHex parses a "#rrggbb" colour and panics on malformed input.
// Use it for compile-time constants only.
func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor parses a "#rrggbb" colour from configuration.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "invalid colour %q", s)
	}
	return c, nil
}

func hexes(ss ...string) []Color {
	out := make([]Color, len(ss))
	for i, s := range ss {
		out[i] = MustHex(s)
	}
	return out
}
