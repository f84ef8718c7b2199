package chart

import (
	"strconv"

	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/scale"
)

const (
	DefaultWidth     = 900
	DefaultHeight    = 600
	DefaultPadding   = 0.3
	DefaultTickCount = 10
	DefaultTitle     = "World Population in 2019"
	DefaultXLabel    = "Population"
)

// DefaultMargins leave room for long country names on the left.
var DefaultMargins = scale.Margins{Top: 70, Right: 20, Bottom: 50, Left: 250}

const (
	titleYOffset     = -20
	axisLabelYOffset = 30
)

// Options controls chart geometry and labelling.
type Options struct {
	Surface   scale.Surface
	Padding   float64
	Title     string
	XLabel    string
	TickCount int
}

// DefaultOptions returns a 900×600 chart with the standard title.
func DefaultOptions() Options {
	return Options{
		Surface:   scale.Surface{Width: DefaultWidth, Height: DefaultHeight, Margins: DefaultMargins},
		Padding:   DefaultPadding,
		Title:     DefaultTitle,
		XLabel:    DefaultXLabel,
		TickCount: DefaultTickCount,
	}
}

// Bar is one horizontal bar, anchored at the y axis.
type Bar struct {
	Country    string  `json:"country"`
	Population float64 `json:"population"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Tooltip    string  `json:"tooltip"`
}

// Tick is an axis tick. Pos is measured along its axis.
type Tick struct {
	Value float64 `json:"value,omitempty"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Text is a positioned label.
type Text struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Layout is a fully positioned chart.
//
// Bars, YTicks and Title are relative to the inner group at
// (TranslateX, TranslateY). XTicks and AxisLabel are relative to the x-axis
// group, which is further translated down by InnerHeight.
type Layout struct {
	Surface     scale.Surface `json:"surface"`
	InnerWidth  float64       `json:"inner_width"`
	InnerHeight float64       `json:"inner_height"`
	TranslateX  float64       `json:"translate_x"`
	TranslateY  float64       `json:"translate_y"`
	DomainMax   float64       `json:"domain_max"`
	Step        float64       `json:"step"`
	Bandwidth   float64       `json:"bandwidth"`
	Padding     float64       `json:"padding"`
	Bars        []Bar         `json:"bars"`
	XTicks      []Tick        `json:"x_ticks"`
	YTicks      []Tick        `json:"y_ticks"`
	GridSize    float64       `json:"grid_size"`
	Title       Text          `json:"title"`
	AxisLabel   Text          `json:"axis_label"`
}

// Build lays out ds on the surface described by opts. It fails with
// INVALID_GEOMETRY for a surface without a positive inner area and with
// DEGENERATE_DOMAIN for an empty dataset.
func Build(ds dataset.Dataset, opts Options) (Layout, error) {
	innerWidth, innerHeight, err := scale.InnerExtents(opts.Surface)
	if err != nil {
		return Layout{}, err
	}
	if len(ds) == 0 {
		return Layout{}, errors.New(errors.ErrCodeDegenerateDomain, "dataset has no records to chart")
	}

	x := scale.LinearFor(ds, innerWidth)
	y, err := scale.BandFor(ds, innerHeight, opts.Padding)
	if err != nil {
		return Layout{}, err
	}

	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTickCount
	}

	_, domainMax := x.Domain()
	l := Layout{
		Surface:     opts.Surface,
		InnerWidth:  innerWidth,
		InnerHeight: innerHeight,
		TranslateX:  opts.Surface.Margins.Left,
		TranslateY:  opts.Surface.Margins.Top,
		DomainMax:   domainMax,
		Step:        y.Step(),
		Bandwidth:   y.Bandwidth(),
		Padding:     y.Padding(),
		GridSize:    -innerHeight,
		Title:       Text{Text: opts.Title, X: innerWidth / 4, Y: titleYOffset},
		AxisLabel:   Text{Text: opts.XLabel, X: innerWidth / 2, Y: axisLabelYOffset},
	}

	l.Bars = make([]Bar, 0, len(ds))
	for _, r := range ds {
		start, _ := y.Start(r.Country)
		l.Bars = append(l.Bars, Bar{
			Country:    r.Country,
			Population: r.Population,
			Y:          start,
			Width:      x.Map(r.Population),
			Height:     y.Bandwidth(),
			Tooltip:    TooltipText(r),
		})
	}

	for _, v := range x.Ticks(tickCount) {
		l.XTicks = append(l.XTicks, Tick{Value: v, Pos: x.Map(v), Label: scale.FormatTick(v)})
	}
	for _, c := range y.Domain() {
		center, _ := y.Center(c)
		l.YTicks = append(l.YTicks, Tick{Pos: center, Label: c})
	}
	return l, nil
}

// TooltipText is the hover text for r: the head count as a plain integer.
func TooltipText(r dataset.Record) string {
	return strconv.FormatFloat(r.Population, 'f', 0, 64)
}
