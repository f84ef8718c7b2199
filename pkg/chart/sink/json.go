package sink

import (
	"encoding/json"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/scale"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	barColor string
	source   string
}

// WithJSONBarColor records the bar fill used by the other sinks.
func WithJSONBarColor(c string) JSONOption { return func(r *jsonRenderer) { r.barColor = c } }

// WithJSONSource records where the dataset was loaded from.
func WithJSONSource(s string) JSONOption { return func(r *jsonRenderer) { r.source = s } }

type jsonOutput struct {
	Source      string        `json:"source,omitempty"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Margins     scale.Margins `json:"margins"`
	InnerWidth  float64       `json:"inner_width"`
	InnerHeight float64       `json:"inner_height"`
	Padding     float64       `json:"padding"`
	Step        float64       `json:"step"`
	Bandwidth   float64       `json:"bandwidth"`
	DomainMax   float64       `json:"domain_max"`
	BarColor    string        `json:"bar_color"`
	Title       chart.Text    `json:"title"`
	AxisLabel   chart.Text    `json:"axis_label"`
	Bars        []chart.Bar   `json:"bars"`
	XTicks      []chart.Tick  `json:"x_ticks"`
	YTicks      []chart.Tick  `json:"y_ticks"`
}

// RenderJSON exports the positioned layout as indented JSON.
func RenderJSON(l chart.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{barColor: DefaultBarColor}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Source:      r.source,
		Width:       l.Surface.Width,
		Height:      l.Surface.Height,
		Margins:     l.Surface.Margins,
		InnerWidth:  l.InnerWidth,
		InnerHeight: l.InnerHeight,
		Padding:     l.Padding,
		Step:        l.Step,
		Bandwidth:   l.Bandwidth,
		DomainMax:   l.DomainMax,
		BarColor:    r.barColor,
		Title:       l.Title,
		AxisLabel:   l.AxisLabel,
		Bars:        l.Bars,
		XTicks:      l.XTicks,
		YTicks:      l.YTicks,
	}
	return json.MarshalIndent(out, "", "  ")
}
