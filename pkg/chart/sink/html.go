package sink

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/errors"
)

// axisFormatterJS labels the ticks ECharts picks the way scale.FormatTick
// does for values of one and above: round to two significant digits, then
// pick the prefix, with billions written as B.
const axisFormatterJS = `function (v) {
  if (v === 0) { return '0.0'; }
  var units = ['', 'k', 'M', 'B', 'T'], i = 0;
  var a = Number(Math.abs(v).toPrecision(2));
  while (a >= 1000 && i < units.length - 1) { a /= 1000; i++; }
  var s = a >= 10 ? String(Math.round(a)) : a.toFixed(1);
  return (v < 0 ? '-' : '') + s + units[i];
}`

// HTMLOption configures [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	barColor  string
	pageTitle string
}

// WithHTMLBarColor sets the bar fill.
func WithHTMLBarColor(c string) HTMLOption {
	return func(r *htmlRenderer) {
		if c != "" {
			r.barColor = c
		}
	}
}

// WithPageTitle sets the browser tab title. It defaults to the chart title.
func WithPageTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.pageTitle = t } }

// RenderHTML builds a standalone ECharts page with the layout's bars in
// dataset order, top to bottom.
func RenderHTML(l chart.Layout, options ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{barColor: DefaultBarColor, pageTitle: l.Title.Text}
	for _, opt := range options {
		opt(&r)
	}

	m := l.Surface.Margins
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: r.pageTitle,
			Width:     fmt.Sprintf("%.0fpx", l.Surface.Width),
			Height:    fmt.Sprintf("%.0fpx", l.Surface.Height),
		}),
		charts.WithTitleOpts(opts.Title{Title: l.Title.Text, Left: fmt.Sprintf("%.0f", m.Left+l.Title.X)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithGridOpts(opts.Grid{
			Top:    fmt.Sprintf("%.0f", m.Top),
			Right:  fmt.Sprintf("%.0f", m.Right),
			Bottom: fmt.Sprintf("%.0f", m.Bottom),
			Left:   fmt.Sprintf("%.0f", m.Left),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      l.AxisLabel.Text,
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Show: true, Formatter: opts.FuncOpts(axisFormatterJS)},
		}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)

	// Category axes grow upwards, so feed the rows bottom first.
	n := len(l.Bars)
	countries := make([]string, n)
	items := make([]opts.BarData, n)
	for i, b := range l.Bars {
		countries[n-1-i] = b.Country
		items[n-1-i] = opts.BarData{Name: b.Country, Value: b.Population}
	}

	bar.SetXAxis(countries).
		AddSeries(l.AxisLabel.Text, items, charts.WithItemStyleOpts(opts.ItemStyle{Color: r.barColor})).
		XYReversal()

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render html")
	}
	return buf.Bytes(), nil
}
