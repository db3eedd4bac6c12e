// Package instrument loads spacecraft instrument time series from CSV.
//
// # File Format
//
// Every file starts with a header row. The first column is the timestamp,
// all remaining columns are numeric channels:
//
//	time,ch0,ch1,ch2
//	2020-06-01T00:00:00Z,12.5,3.0,
//	2020-06-01T00:01:00Z,11.0,nan,0.5
//
// Timestamps are RFC 3339 or "2006-01-02 15:04:05" (UTC). Empty cells and
// "nan" are read as NaN. Lines starting with '#' are comments.
//
// # Instruments
//
//   - [LoadEPT]: Energetic Particle Telescope count rates, one column per energy channel
//   - [LoadMAG]: magnetometer RTN components B_R, B_T, B_N
package instrument
