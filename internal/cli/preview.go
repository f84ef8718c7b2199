package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/pipeline"
	"github.com/matzehuels/popchart/pkg/scale"
)

const (
	previewHeaderLines = 3  // title, help line, blank
	previewMinBarCols  = 10 // narrowest bar area before the view stops shrinking
	previewLabelMax    = 28 // country labels are truncated past this width
	previewBarRune     = "█"
)

var (
	previewBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("67"))
	previewHoverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("67")).Faint(true)
	previewLabelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	previewActiveLabel = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	previewTooltip     = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim).Padding(0, 1)
)

// previewCommand creates the preview command, an interactive terminal chart.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		cf      chartFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview [source]",
		Short: "Browse the chart interactively in the terminal",
		Long: `Browse the chart interactively in the terminal.

Bars use the same linear population scale as the rendered chart, fitted
to the terminal width. Move the cursor (↑/↓, j/k, or the mouse) to hover a
bar: it is dimmed and its population is shown in the tooltip line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := resolveOptions(ctx, cmd, args, &cf)
			if err != nil {
				return err
			}
			return c.runPreview(ctx, opts, noCache)
		},
	}

	addChartFlags(cmd, &cf)
	addRefreshFlag(cmd, &cf)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	l, err := runner.Layout(ctx, ds, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newPreviewModel(l), tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// previewModel is the bubbletea model for the terminal chart. The cursor row
// plays the role of the pointer in the SVG chart.
type previewModel struct {
	layout  chart.Layout
	records dataset.Dataset
	tooltip *chart.Tooltip
	cursor  int
	offset  int
	width   int
	height  int
}

func newPreviewModel(l chart.Layout) previewModel {
	records := make(dataset.Dataset, len(l.Bars))
	for i, b := range l.Bars {
		records[i] = dataset.Record{Country: b.Country, Population: b.Population}
	}
	m := previewModel{
		layout:  l,
		records: records,
		tooltip: chart.NewTooltip(),
		cursor:  -1,
		width:   80,
		height:  24,
	}
	return m.hover(0)
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			return m.hover(m.cursor - 1), nil
		case "down", "j":
			return m.hover(m.cursor + 1), nil
		case "home", "g":
			return m.hover(0), nil
		case "end", "G":
			return m.hover(len(m.records) - 1), nil
		}
	case tea.MouseMsg:
		row := msg.Y - previewHeaderLines + m.offset
		if row >= m.offset && row < m.offset+m.visibleRows() && row < len(m.records) {
			return m.hover(row), nil
		}
		return m.leave(), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.scrollTo(m.cursor), nil
	}
	return m, nil
}

// hover moves the pointer to row i, leaving the previous bar first.
func (m previewModel) hover(i int) previewModel {
	if len(m.records) == 0 {
		return m
	}
	i = max(0, min(i, len(m.records)-1))
	m = m.leave()
	m.cursor = i
	rec := m.records[i]
	m.tooltip.Over(rec, chart.Point{X: float64(m.labelWidth() + m.barLength(rec.Population)), Y: float64(i)})
	return m.scrollTo(i)
}

// leave moves the pointer off the current bar.
func (m previewModel) leave() previewModel {
	if m.cursor >= 0 && m.cursor < len(m.records) {
		m.tooltip.Out(m.records[m.cursor])
	}
	m.cursor = -1
	return m
}

func (m previewModel) scrollTo(i int) previewModel {
	rows := m.visibleRows()
	if i < 0 {
		return m
	}
	if i < m.offset {
		m.offset = i
	} else if i >= m.offset+rows {
		m.offset = i - rows + 1
	}
	return m
}

// visibleRows is the number of bar rows that fit between header and footer.
func (m previewModel) visibleRows() int {
	return max(1, m.height-previewHeaderLines-3)
}

func (m previewModel) labelWidth() int {
	w := 0
	for _, r := range m.records {
		w = max(w, lipgloss.Width(r.Country))
	}
	return min(w, previewLabelMax) + 1
}

// barCols is the terminal width available to the longest bar.
func (m previewModel) barCols() int {
	return max(previewMinBarCols, m.width-m.labelWidth()-2)
}

// barLength maps pop to a cell count with the chart's linear scale.
func (m previewModel) barLength(pop float64) int {
	x := scale.LinearFor(m.records, float64(m.barCols()))
	return int(math.Round(x.Map(pop)))
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.layout.Title.Text))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ hover  g/G first/last  q quit"))
	b.WriteString("\n\n")

	lw := m.labelWidth()
	end := min(len(m.records), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		rec := m.records[i]
		label := truncate(rec.Country, lw-1)
		pad := strings.Repeat(" ", lw-lipgloss.Width(label))
		bar := strings.Repeat(previewBarRune, m.barLength(rec.Population))

		labelStyle, barStyle := previewLabelStyle, previewBarStyle
		if m.tooltip.BarOpacity(rec.Country) < 1 {
			labelStyle, barStyle = previewActiveLabel, previewHoverStyle
		}
		b.WriteString(pad + labelStyle.Render(label) + " " + barStyle.Render(bar))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.axisLine(lw))
	b.WriteString("\n")
	if m.tooltip.Visible {
		rec := m.records[m.cursor]
		b.WriteString(strings.Repeat(" ", lw+1))
		b.WriteString(previewTooltip.Render(rec.Country + "  " + m.tooltip.Text))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %s people", humanize.Comma(int64(rec.Population)))))
	}
	return b.String()
}

// axisLine places the x tick labels under the bars, skipping labels that
// would overlap the previous one.
func (m previewModel) axisLine(lw int) string {
	cols := m.barCols()
	line := []rune(strings.Repeat(" ", lw+1+cols+8))
	x := scale.LinearFor(m.records, float64(cols))
	next := 0
	for _, tk := range m.layout.XTicks {
		pos := lw + 1 + int(math.Round(x.Map(tk.Value)))
		if pos < next || pos+len(tk.Label) > len(line) {
			continue
		}
		copy(line[pos:], []rune(tk.Label))
		next = pos + len(tk.Label) + 1
	}
	return StyleDim.Render(strings.TrimRight(string(line), " "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
