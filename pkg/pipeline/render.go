package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/orbitribbon/pkg/figure"
)

// Render encodes f in every requested format. svg is the figure's SVG
// encoding when already available; nil renders it.
func Render(ctx context.Context, f *figure.Figure, svg []byte, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if format == figure.FormatSVG && svg != nil {
			artifacts[format] = svg
			continue
		}
		data, err := figure.Render(f, format, opts.RenderOptions()...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
