package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/observability"
	"github.com/matzehuels/popchart/pkg/pipeline"
)

// stdioPath names stdin as a source and stdout as an output.
const stdioPath = "-"

// defaultBaseName is used when a URL source has no usable file name.
const defaultBaseName = "chart"

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		cf      chartFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a population CSV to SVG, PNG, PDF, JSON or HTML",
		Long: `Render a population CSV as a horizontal bar chart.

The source is a CSV file path, "-" for stdin, or an http(s) URL. The CSV
needs a header row with Country and Population columns; populations are
given in thousands and multiplied by --multiplier.

One file is written per format. Without -o the files are named after the
source; with several formats -o is used as the base path.

Layouts and rendered charts are cached locally, keyed by the data and
every option that affects the output.`,
		Example: `  popchart render population_2019.csv
  popchart render population_2019.csv -f svg,png,html --interactive
  popchart render https://example.com/pop.csv -o chart.svg --padding 0.2
  popchart render --config chart.toml -o - | gzip > chart.svg.gz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := resolveOptions(ctx, cmd, args, &cf)
			if err != nil {
				return err
			}
			return c.runRender(ctx, opts, output, noCache)
		},
	}

	addChartFlags(cmd, &cf)
	addRenderFlags(cmd, &cf)
	addRefreshFlag(cmd, &cf)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (single format), base path (several), or "-" for stdout`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := output == stdioPath
	if toStdout && len(opts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.Formats))
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Source))
	spinner.Start()
	observability.SetPipelineHooks(spinner)
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered chart", "formats", opts.Formats)

	if toStdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(opts.Formats, opts.Source, output)
	printSuccess("Rendered %s", StyleHighlight.Render(result.Layout.Title.Text))
	printStats(result.Stats.Records, result.Stats.Population, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		data := result.Artifacts[format]
		p := paths[format]
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
		logger.Debug("wrote artifact", "format", format, "path", p, "bytes", len(data))
		printFile(p, len(data))
	}
	if !errors.IsURL(opts.Source) && opts.Source != stdioPath {
		printNewline()
		printNextStep("Browse it in the terminal", "popchart preview "+opts.Source)
	}
	return nil
}

// outputPaths maps each format to its destination file.
//
// A single format with an explicit output uses that path as given. Otherwise
// the base is output (minus a known format extension) or, when output is
// empty, the source name with its extension stripped.
func outputPaths(formats []string, source, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, source)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and source.
func basePath(output, source string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if errors.IsURL(source) {
		name := defaultBaseName
		if u, err := url.Parse(source); err == nil {
			if b := path.Base(u.Path); b != "." && b != "/" {
				name = strings.TrimSuffix(b, path.Ext(b))
			}
		}
		return name
	}
	if source == stdioPath {
		return defaultBaseName
	}
	return strings.TrimSuffix(source, filepath.Ext(source))
}
