// Package scale maps chart data onto a drawing surface.
//
// # Overview
//
// A bar chart needs three pieces of arithmetic before anything is drawn:
//
//   - [InnerExtents]: the drawable area left after subtracting margins
//   - [Linear]: a proportional mapping from population to horizontal pixels
//   - [Band]: a mapping from country keys to equal, padded vertical bands
//
// plus [FormatTick], which turns a population value into an axis label such
// as "1.2B".
//
// Everything here is pure: no function touches a rendering surface, and each
// call allocates its own result. Scales are safe to share between goroutines
// once built.
//
// # Errors
//
// Two failures are possible, both reported as coded errors from
// [github.com/matzehuels/popchart/pkg/errors]:
//
//   - INVALID_GEOMETRY: the margins leave no positive drawing area
//   - DEGENERATE_DOMAIN: a band scale was asked to split zero categories
//
// A linear scale over an all-zero (or empty) dataset is not an error; every
// value maps to pixel 0.
//
// # Example
//
//	w, h, err := scale.InnerExtents(scale.Surface{
//	    Width: 900, Height: 600,
//	    Margins: scale.Margins{Top: 70, Right: 20, Bottom: 50, Left: 250},
//	})
//	x := scale.NewLinear(populations, w)
//	y, err := scale.NewBand(countries, h, 0.3)
//	label := scale.FormatTick(1.2e9) // "1.2B"
package scale
