package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/pipeline"
	"github.com/matzehuels/popchart/pkg/scale"
)

// chartFlags holds the flags shared by every command that builds a chart.
// Values only take effect when the flag was set explicitly, so a --config
// file can supply them otherwise.
type chartFlags struct {
	config  string
	formats string
	flagged pipeline.Options
	padding float64
	margins scale.Margins
}

// addChartFlags registers the data and layout flags on cmd.
func addChartFlags(cmd *cobra.Command, cf *chartFlags) {
	f := cmd.Flags()
	f.StringVar(&cf.config, "config", "", "TOML chart config file (flags override its values)")

	f.Float64Var(&cf.flagged.Multiplier, "multiplier", dataset.DefaultMultiplier, "factor applied to every population value")
	f.StringVar(&cf.flagged.CountryColumn, "country-column", dataset.DefaultCountryColumn, "CSV header of the country column")
	f.StringVar(&cf.flagged.PopulationColumn, "population-column", dataset.DefaultPopulationColumn, "CSV header of the population column")

	f.Float64Var(&cf.flagged.Width, "width", chart.DefaultWidth, "chart width in pixels")
	f.Float64Var(&cf.flagged.Height, "height", chart.DefaultHeight, "chart height in pixels")
	f.Float64Var(&cf.margins.Top, "margin-top", chart.DefaultMargins.Top, "top margin")
	f.Float64Var(&cf.margins.Right, "margin-right", chart.DefaultMargins.Right, "right margin")
	f.Float64Var(&cf.margins.Bottom, "margin-bottom", chart.DefaultMargins.Bottom, "bottom margin")
	f.Float64Var(&cf.margins.Left, "margin-left", chart.DefaultMargins.Left, "left margin")
	f.Float64Var(&cf.padding, "padding", chart.DefaultPadding, "band padding in [0, 1)")
	f.StringVar(&cf.flagged.Title, "title", chart.DefaultTitle, "chart title")
	f.StringVar(&cf.flagged.XLabel, "x-label", chart.DefaultXLabel, "x axis label")
	f.IntVar(&cf.flagged.TickCount, "ticks", chart.DefaultTickCount, "approximate number of x axis ticks")

	_ = cmd.MarkFlagFilename("config", "toml")
	cmd.ValidArgsFunction = completeSource
}

// resolveOptions merges defaults, the --config file and explicitly set
// flags, in increasing priority, and validates the result.
func resolveOptions(ctx context.Context, cmd *cobra.Command, args []string, cf *chartFlags) (pipeline.Options, error) {
	var opts pipeline.Options
	if cf.config != "" {
		var err error
		if opts, err = pipeline.LoadConfig(cf.config); err != nil {
			return opts, err
		}
	}
	if len(args) > 0 {
		opts.Source = args[0]
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("multiplier", func() { opts.Multiplier = cf.flagged.Multiplier })
	set("country-column", func() { opts.CountryColumn = cf.flagged.CountryColumn })
	set("population-column", func() { opts.PopulationColumn = cf.flagged.PopulationColumn })
	set("width", func() { opts.Width = cf.flagged.Width })
	set("height", func() { opts.Height = cf.flagged.Height })
	set("title", func() { opts.Title = cf.flagged.Title })
	set("x-label", func() { opts.XLabel = cf.flagged.XLabel })
	set("ticks", func() { opts.TickCount = cf.flagged.TickCount })
	set("padding", func() {
		p := cf.padding
		opts.Padding = &p
	})

	if f.Changed("margin-top") || f.Changed("margin-right") || f.Changed("margin-bottom") || f.Changed("margin-left") {
		if opts.Margins == nil {
			m := chart.DefaultMargins
			opts.Margins = &m
		}
		set("margin-top", func() { opts.Margins.Top = cf.margins.Top })
		set("margin-right", func() { opts.Margins.Right = cf.margins.Right })
		set("margin-bottom", func() { opts.Margins.Bottom = cf.margins.Bottom })
		set("margin-left", func() { opts.Margins.Left = cf.margins.Left })
	}

	// Render flags only exist on some commands.
	set("format", func() { opts.Formats = pipeline.ParseFormats(cf.formats) })
	set("color", func() { opts.BarColor = cf.flagged.BarColor })
	set("interactive", func() { opts.Interactive = cf.flagged.Interactive })
	set("png-scale", func() { opts.PNGScale = cf.flagged.PNGScale })
	set("refresh", func() { opts.Refresh = cf.flagged.Refresh })

	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// addRenderFlags registers output styling flags on cmd.
func addRenderFlags(cmd *cobra.Command, cf *chartFlags) {
	f := cmd.Flags()
	f.StringVarP(&cf.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, pdf, json, html (comma-separated)")
	f.StringVar(&cf.flagged.BarColor, "color", "", "bar fill color as #rgb or #rrggbb")
	f.BoolVar(&cf.flagged.Interactive, "interactive", false, "add hover highlighting and tooltips to SVG output")
	f.Float64Var(&cf.flagged.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// addRefreshFlag registers --refresh, which bypasses the download cache.
func addRefreshFlag(cmd *cobra.Command, cf *chartFlags) {
	cmd.Flags().BoolVar(&cf.flagged.Refresh, "refresh", false, "re-download remote CSV sources")
}
