// Package figure is a small retained-mode figure model and its output sinks.
//
// # Overview
//
// A [Figure] holds drawing elements in data coordinates together with the
// page size, the axes placement and the visible data limits. Builders in
// pkg/plots fill a figure; sinks turn it into bytes:
//
//   - [RenderSVG]: hand-written SVG, one element per primitive
//   - [RenderPNG]: rsvg-convert when installed, otherwise the native rasterizer
//   - [RenderPDF]: rsvg-convert
//
// # Coordinates
//
// Element positions are data coordinates unless a [Text] asks for
// [AxesCoords]. Sizes that should not scale with the data (line widths,
// marker areas, font sizes) are in points, 1/72 inch. With EqualAspect set
// the limits are widened so one data unit has the same length on both axes,
// the way an "equal" axis with datalim adjustment behaves.
//
// # Elements
//
//   - [Polyline]: open line; non-finite points split it into runs
//   - [Polygon]: filled shape; skipped if any vertex is non-finite
//   - [Circle]: stroked circle with a data-unit radius
//   - [Marker]: filled disc with an area in square points
//   - [Text]: anchored, optionally rotated label
//
// Elements are drawn by ascending Z; ties keep insertion order. Everything
// except text is clipped to the axes rectangle.
package figure
