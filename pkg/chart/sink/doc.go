// Package sink turns a [chart.Layout] into output files.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG, optionally with hover interaction
//   - [RenderPNG]: raster image drawn natively with go-chart's renderer
//   - [RenderPDF]: vector PDF, converted from the SVG by rsvg-convert
//   - [RenderJSON]: the positioned layout for external renderers
//   - [RenderHTML]: an interactive ECharts page
//
// Sinks never recompute scales: every coordinate comes from the layout, so
// all formats agree on bar geometry and tick placement.
//
// # Interaction
//
// With [WithInteraction], the SVG embeds a small script that dims the
// hovered bar to [chart.HoverOpacity] and shows a tooltip offset by
// ([chart.TooltipOffsetX], [chart.TooltipOffsetY]) from the pointer.
package sink
