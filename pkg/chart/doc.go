// Package chart positions the elements of a horizontal population bar chart.
//
// # Layout
//
// [Build] combines a [dataset.Dataset] with a drawing surface and returns a
// [Layout]: one [Bar] per record, x-axis ticks with SI labels, one y-axis tick
// per country, a title and an x-axis label. Everything is expressed in the
// coordinate system of the inner plot group, whose origin sits at the
// (Left, Top) margin corner:
//
//	l, err := chart.Build(ds, chart.DefaultOptions())
//	for _, b := range l.Bars {
//	    fmt.Printf("%s %.1f×%.1f at y=%.1f\n", b.Country, b.Width, b.Height, b.Y)
//	}
//
// A Layout is plain data. The sinks in [sink] turn it into SVG, PNG, PDF,
// JSON or HTML without recomputing any scale.
//
// # Hover
//
// [Tooltip] holds the hover state of one chart view. It is created by the
// caller and updated with [Tooltip.Over] and [Tooltip.Out]; nothing in this
// package keeps global state.
package chart
