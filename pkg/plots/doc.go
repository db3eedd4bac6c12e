// Package plots builds the orbit figures.
//
// Every figure shares the same base: the trajectory drawn as a line, the
// Sun with distance circles, monthly date labels, equal axes and fixed
// limits. On top of that a builder bends instrument data along the orbit
// with a [Ribbon]:
//
//   - [BuildEPT]: ion and electron count rates as coloured bars on either
//     side of the orbit, log scaled
//   - [BuildMAG]: magnetic field magnitude and RTN components as thin lines
//
// Builders only assemble a [figure.Figure]; rendering happens in
// pkg/figure and orchestration in pkg/pipeline.
package plots
