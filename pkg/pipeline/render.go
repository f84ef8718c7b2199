package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/chart/sink"
)

// Render produces each format in opts.Formats from l without caching.
func Render(ctx context.Context, l chart.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithScale(opts.PNGScale), sink.WithPNGBarColor(opts.BarColor))
		case FormatPDF:
			// PDF is static; hover scripts are dropped.
			data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(sink.WithBarColor(opts.BarColor)))
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONSource(opts.Source), sink.WithJSONBarColor(barColor(opts)))
		case FormatHTML:
			data, err = sink.RenderHTML(l, sink.WithHTMLBarColor(opts.BarColor))
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithBarColor(opts.BarColor)}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

func barColor(opts Options) string {
	if opts.BarColor != "" {
		return opts.BarColor
	}
	return sink.DefaultBarColor
}
