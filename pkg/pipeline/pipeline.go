// Package pipeline runs the load → layout → render chain behind every
// popchart entry point.
//
// The CLI's render command, the HTTP server and the tests all go through
// [Runner], so defaults, validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Load: read a local CSV (or stdin) or fetch an http(s) URL
//  2. Layout: compute scales, bars and ticks ([chart.Build])
//  3. Render: produce each requested format ([sink])
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "population.csv",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	ds, err := runner.Load(ctx, opts)
//	l, err := runner.Layout(ctx, ds, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// Layouts and artifacts are cached by content: the key covers the dataset
// hash and every option that changes the output, so editing the CSV or any
// option produces a fresh render.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popchart/pkg/cache"
	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/scale"
)

// DefaultPNGScale renders PNGs at twice the surface resolution.
const DefaultPNGScale = 2.0

// MaxDimension bounds the surface width and height in pixels.
const MaxDimension = 10000

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatHTML = "html"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatHTML: true,
}

// Options configures a pipeline run. Zero fields take the defaults listed on
// each field; the struct doubles as the TOML chart config schema.
type Options struct {
	// Load options
	Source           string  `json:"source" toml:"source"`
	Multiplier       float64 `json:"multiplier,omitempty" toml:"multiplier"` // default 1000
	CountryColumn    string  `json:"country_column,omitempty" toml:"country_column"`
	PopulationColumn string  `json:"population_column,omitempty" toml:"population_column"`
	Refresh          bool    `json:"refresh,omitempty" toml:"-"`

	// Layout options
	Width     float64       `json:"width,omitempty" toml:"width"`     // default 900
	Height    float64       `json:"height,omitempty" toml:"height"`   // default 600
	Margins   *scale.Margins `json:"margins,omitempty" toml:"margins"` // default {70, 20, 50, 250}
	Padding   *float64      `json:"padding,omitempty" toml:"padding"` // default 0.3
	Title     string        `json:"title,omitempty" toml:"title"`
	XLabel    string        `json:"x_label,omitempty" toml:"x_label"`
	TickCount int           `json:"ticks,omitempty" toml:"ticks"` // default 10

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"` // default svg
	BarColor    string   `json:"bar_color,omitempty" toml:"bar_color"`
	Interactive bool     `json:"interactive,omitempty" toml:"interactive"`
	PNGScale    float64  `json:"png_scale,omitempty" toml:"png_scale"` // default 2

	Logger *log.Logger `json:"-" toml:"-"`

	validated bool
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Dataset   dataset.Dataset
	DataHash  string
	Layout    chart.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records sizes and stage timings.
type Stats struct {
	Records    int
	Population float64
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, html)", format)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming blanks. An empty
// string yields nil.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults fills unset fields and validates the result. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset load and layout fields.
func (o *Options) SetLayoutDefaults() {
	if o.Multiplier == 0 {
		o.Multiplier = dataset.DefaultMultiplier
	}
	if o.Width == 0 {
		o.Width = chart.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = chart.DefaultHeight
	}
	if o.Margins == nil {
		m := chart.DefaultMargins
		o.Margins = &m
	}
	if o.Padding == nil {
		p := chart.DefaultPadding
		o.Padding = &p
	}
	if o.Title == "" {
		o.Title = chart.DefaultTitle
	}
	if o.XLabel == "" {
		o.XLabel = chart.DefaultXLabel
	}
	if o.TickCount == 0 {
		o.TickCount = chart.DefaultTickCount
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// SetRenderDefaults fills unset render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateSurface checks that width and height are in (0, MaxDimension].
func (o *Options) ValidateSurface() error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", o.Width}, {"height", o.Height}} {
		if !(d.v > 0 && d.v <= MaxDimension) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be in (0, %d], got %g", d.name, MaxDimension, d.v)
		}
	}
	return nil
}

// ValidateForRender checks render options after defaults are applied.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.ValidateSurface(); err != nil {
		return err
	}
	if o.BarColor != "" {
		if err := errors.ValidateHexColor(o.BarColor); err != nil {
			return err
		}
	}
	if o.TickCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ticks must be positive, got %d", o.TickCount)
	}
	if o.PNGScale < 0 || o.PNGScale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be in (0, 8], got %g", o.PNGScale)
	}
	return nil
}

// ParseOptions returns the dataset parsing options.
func (o *Options) ParseOptions() dataset.ParseOptions {
	return dataset.ParseOptions{
		Multiplier:       o.Multiplier,
		CountryColumn:    o.CountryColumn,
		PopulationColumn: o.PopulationColumn,
	}
}

// ChartOptions returns the layout options. Call SetLayoutDefaults first.
func (o *Options) ChartOptions() chart.Options {
	var padding float64
	if o.Padding != nil {
		padding = *o.Padding
	}
	var margins scale.Margins
	if o.Margins != nil {
		margins = *o.Margins
	}
	return chart.Options{
		Surface:   scale.Surface{Width: o.Width, Height: o.Height, Margins: margins},
		Padding:   padding,
		Title:     o.Title,
		XLabel:    o.XLabel,
		TickCount: o.TickCount,
	}
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.ChartOptions()
	m := c.Surface.Margins
	return cache.LayoutKeyOpts{
		Width:     c.Surface.Width,
		Height:    c.Surface.Height,
		Margins:   [4]float64{m.Top, m.Right, m.Bottom, m.Left},
		Padding:   c.Padding,
		Title:     c.Title,
		XLabel:    c.XLabel,
		TickCount: c.TickCount,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		LayoutKeyOpts: o.LayoutKeyOpts(),
		Format:        format,
		BarColor:      o.BarColor,
		Interactive:   o.Interactive,
	}
	if format == FormatPNG {
		k.Format = fmt.Sprintf("%s@%gx", format, o.PNGScale)
	}
	return k
}
