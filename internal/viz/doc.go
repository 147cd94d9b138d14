// Package viz draws sampled curves in the terminal.
//
//   - [Render]: line charts of one or more [Series] via asciigraph
//   - [AreaChart]: braille [Canvas] plot with the integrated region shaded
//   - [Theme]: color schemes shared by charts and the explorer
//
// Samples are resampled onto the chart's columns with [Resample]; columns
// that fall in a gap left by dropped (non-finite) samples stay empty rather
// than being bridged.
package viz
