package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/pipeline"
)

// scaleCommand creates the scale command, which prints the computed scales
// without rendering anything.
func (c *CLI) scaleCommand() *cobra.Command {
	var (
		cf      chartFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "scale [source]",
		Short: "Print the inner extents, bands and ticks computed for a dataset",
		Long: `Print the scales computed for a dataset.

The output lists the inner drawing area, the linear population domain,
the band step and bandwidth, one row per country with its band and bar
geometry, and the x axis ticks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := resolveOptions(ctx, cmd, args, &cf)
			if err != nil {
				return err
			}
			return c.runScale(ctx, opts, noCache)
		},
	}

	addChartFlags(cmd, &cf)
	addRefreshFlag(cmd, &cf)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runScale(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	l, hit, err := runner.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return err
	}

	printSuccess("%s", StyleHighlight.Render(l.Title.Text))
	printStats(len(ds), ds.Total(), hit)
	printNewline()
	for _, kv := range scaleSummary(l) {
		printKeyValue(kv[0], kv[1])
	}
	printNewline()
	fmt.Fprintln(stdout, bandTable(l))
	printNewline()
	fmt.Fprintln(stdout, tickTable(l))
	return nil
}

// scaleSummary returns the labelled scale parameters of l.
func scaleSummary(l chart.Layout) [][2]string {
	m := l.Surface.Margins
	return [][2]string{
		{"Surface", fmt.Sprintf("%g × %g", l.Surface.Width, l.Surface.Height)},
		{"Margins", fmt.Sprintf("top %g, right %g, bottom %g, left %g", m.Top, m.Right, m.Bottom, m.Left)},
		{"Inner area", fmt.Sprintf("%g × %g", l.InnerWidth, l.InnerHeight)},
		{"Domain", fmt.Sprintf("[0, %s]", humanize.Comma(int64(l.DomainMax)))},
		{"Band step", fmt.Sprintf("%.2f", l.Step)},
		{"Bandwidth", fmt.Sprintf("%.2f", l.Bandwidth)},
		{"Padding", fmt.Sprintf("%g", l.Padding)},
	}
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

func newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col > 0 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		})
}

// bandTable renders one row per bar: its band and its extent.
func bandTable(l chart.Layout) string {
	t := newTable("Country", "Population", "Band y", "Center", "Bar width")
	for i, b := range l.Bars {
		center := b.Y + b.Height/2
		if i < len(l.YTicks) && l.YTicks[i].Label == b.Country {
			center = l.YTicks[i].Pos
		}
		t.Row(
			b.Country,
			humanize.Comma(int64(b.Population)),
			fmt.Sprintf("%.2f", b.Y),
			fmt.Sprintf("%.2f", center),
			fmt.Sprintf("%.2f", b.Width),
		)
	}
	return t.Render()
}

// tickTable renders the x axis ticks.
func tickTable(l chart.Layout) string {
	t := newTable("Tick", "Value", "Position")
	for _, tk := range l.XTicks {
		t.Row(tk.Label, humanize.Comma(int64(tk.Value)), fmt.Sprintf("%.2f", tk.Pos))
	}
	return t.Render()
}
