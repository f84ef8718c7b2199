// Package pkg provides the libraries behind popchart, a population bar chart
// generator.
//
// # Overview
//
// popchart reads a country/population CSV and draws one horizontal bar per
// country: bar length comes from a linear scale over the population domain,
// bar position from a band scale over the countries.
//
// # Architecture
//
// The data flow:
//
//	CSV file or URL
//	     ↓
//	[dataset] package (parse, fetch, multiplier)
//	     ↓
//	[scale] package (inner extents, linear and band scales, ticks)
//	     ↓
//	[chart] package (positioned layout, hover model)
//	     ↓
//	[chart/sink] package (SVG, PNG, PDF, JSON, HTML)
//
// [pipeline] orchestrates these stages with caching ([cache]) and
// observability hooks ([observability]).
//
// # Quick Start
//
//	ds, _ := dataset.Load("population_2019.csv", dataset.ParseOptions{})
//	l, _ := chart.Build(ds, chart.DefaultOptions())
//	svg := sink.RenderSVG(l, sink.WithInteraction())
//
// # Main Packages
//
//   - [scale]: surface geometry, linear and band scales, tick formatting
//   - [dataset]: CSV parsing and HTTP fetching of datasets
//   - [chart]: layout construction and the tooltip model
//   - [chart/sink]: output encoders
//   - [render]: SVG to PDF/PNG conversion through rsvg-convert
//   - [pipeline]: load, layout and render with caching
//   - [cache]: file, Redis and null caches with key schemes
//   - [httputil]: on-disk HTTP body cache and retry helpers
//   - [errors]: coded errors and input validation
//   - [observability]: pipeline, cache and HTTP hooks
//   - [buildinfo]: version information set at build time
package pkg
