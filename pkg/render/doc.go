// Package render converts SVG documents to other formats.
//
// [ToPDF] and [ToPNG] pipe an SVG through the external rsvg-convert tool
// (librsvg). The chart sinks use ToPDF for vector output; PNG is normally
// drawn natively, and ToPNG serves as the high-fidelity alternative when the
// exact SVG styling must be preserved:
//
//	svg := sink.RenderSVG(layout)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
