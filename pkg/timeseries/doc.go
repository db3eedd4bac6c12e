// Package timeseries provides the signal conditioning applied to instrument
// data before it is drawn along a trajectory.
//
// # Overview
//
// A [Frame] is a time index with any number of named float64 columns. Missing
// values are NaN throughout. The operations mirror the steps of the figure
// scripts:
//
//   - [Frame.RowSum]: collapse all channels of a telescope into one count rate
//   - [Frame.Resample] / [Series.Resample]: mean over fixed bins (1h, 5h, ...)
//   - [Series.Log10]: logarithmic data, with -Inf mapped to NaN
//   - [Series.Shift]: constant offset so ribbons stay on one side of the path
//   - [Frame.Magnitude]: |B| from vector components
//   - [Frame.Trim]: drop partial bins at either end
//
// # Date Numbers
//
// The path transform works on a scalar domain. Times are converted with
// [DateNum], which counts days (as float64) since 1970-01-01T00:00:00Z.
//
//	t0 := timeseries.DateNum(start)
//	w := series.Step() // bar width in days
package timeseries
