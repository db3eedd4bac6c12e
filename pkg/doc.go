// Package pkg provides the core libraries for orbitribbon.
//
// # Overview
//
// Orbitribbon bends strip-chart instrument data along a spacecraft
// trajectory. Each measurement is drawn as an offset from the point of the
// orbit where it was taken, so the time series reads as a ribbon around the
// path. The packages fall into three groups:
//
//  1. Geometry: [geom], [transform]
//  2. Data: [ephemeris], [instrument], [timeseries]
//  3. Drawing: [plots], [figure], [labeling], [style], [fonts]
//
// [pipeline] ties them together with [config], [cache] and [observability].
//
// # Architecture
//
// The typical data flow:
//
//	config (TOML)
//	     ↓
//	ephemeris → trajectory (cached)
//	     ↓
//	instrument CSV → timeseries frame (resampled)
//	     ↓
//	plots: path transform → figure elements
//	     ↓
//	figure: SVG, PNG or PDF (cached)
//
// # Quick Start
//
//	cfg, err := config.Load("orbitribbon.toml")
//	if err != nil {
//	    return err
//	}
//	opts, err := pipeline.OptionsFromConfig(cfg, "mag_orbit_plot")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("mag_orbit_plot.svg", res.Artifacts["svg"], 0o644)
package pkg
