package sink

import (
	"bytes"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/popchart/pkg/chart"
	"github.com/matzehuels/popchart/pkg/errors"
)

// maxRasterPixels bounds the output image area (a 256 MB RGBA buffer).
const maxRasterPixels = 64 << 20

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale    float64
	barColor string
}

// WithScale multiplies the output resolution (default 2 for 2x).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBarColor sets the bar fill as #rgb or #rrggbb.
func WithPNGBarColor(color string) PNGOption {
	return func(r *pngRenderer) {
		if color != "" {
			r.barColor = color
		}
	}
}

// RenderPNG rasterizes l with go-chart's PNG renderer. Coordinates come from
// the layout; only text metrics are measured by the renderer.
func RenderPNG(l chart.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2, barColor: DefaultBarColor}
	for _, opt := range opts {
		opt(&r)
	}

	width := int(math.Round(l.Surface.Width * r.scale))
	height := int(math.Round(l.Surface.Height * r.scale))
	if area := l.Surface.Width * l.Surface.Height * r.scale * r.scale; !(area <= maxRasterPixels) || width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"png size %dx%d must be positive and at most %d pixels in area", width, height, maxRasterPixels)
	}
	rr, err := gochart.PNG(width, height)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create png renderer")
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	rr.SetFont(font)

	p := painter{r: rr, scale: r.scale, ox: l.TranslateX, oy: l.TranslateY}
	p.rect(-l.TranslateX, -l.TranslateY, l.Surface.Width, l.Surface.Height, drawing.ColorWhite)

	text := hexColor(axisColor)
	for _, t := range l.XTicks {
		p.line(t.Pos, l.InnerHeight, t.Pos, l.InnerHeight+l.GridSize, hexColor(gridColor))
		p.text(t.Label, t.Pos, l.InnerHeight+21, 12, text, alignCenter)
	}
	for _, t := range l.YTicks {
		p.text(t.Label, -9, t.Pos+5, 14, text, alignEnd)
	}
	p.text(l.Title.Text, l.Title.X, l.Title.Y, 28, text, alignStart)
	p.text(l.AxisLabel.Text, l.AxisLabel.X, l.InnerHeight+l.AxisLabel.Y+7, 20, text, alignCenter)

	fill := hexColor(r.barColor)
	for _, b := range l.Bars {
		p.rect(b.X, b.Y, b.Width, b.Height, fill)
	}

	var buf bytes.Buffer
	if err := rr.Save(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

type textAlign int

const (
	alignStart textAlign = iota
	alignCenter
	alignEnd
)

// painter maps inner-group coordinates to scaled device pixels.
type painter struct {
	r      gochart.Renderer
	scale  float64
	ox, oy float64
}

func (p painter) px(x, y float64) (int, int) {
	return int(math.Round((x + p.ox) * p.scale)), int(math.Round((y + p.oy) * p.scale))
}

func (p painter) rect(x, y, w, h float64, c drawing.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := p.px(x, y)
	x1, y1 := p.px(x+w, y+h)
	p.r.SetFillColor(c)
	p.r.SetStrokeColor(c)
	p.r.SetStrokeWidth(0)
	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y0)
	p.r.LineTo(x1, y1)
	p.r.LineTo(x0, y1)
	p.r.Close()
	p.r.Fill()
}

func (p painter) line(x0, y0, x1, y1 float64, c drawing.Color) {
	ax, ay := p.px(x0, y0)
	bx, by := p.px(x1, y1)
	p.r.SetStrokeColor(c)
	p.r.SetStrokeWidth(p.scale)
	p.r.MoveTo(ax, ay)
	p.r.LineTo(bx, by)
	p.r.Stroke()
}

func (p painter) text(s string, x, y, size float64, c drawing.Color, align textAlign) {
	if s == "" {
		return
	}
	p.r.SetFontColor(c)
	p.r.SetFontSize(size * p.scale * 0.75)
	tx, ty := p.px(x, y)
	switch w := p.r.MeasureText(s).Width(); align {
	case alignCenter:
		tx -= w / 2
	case alignEnd:
		tx -= w
	}
	p.r.Text(s, tx, ty)
}

// hexColor parses #rgb or #rrggbb. Named colors are not supported and fall
// back to the default bar color.
func hexColor(s string) drawing.Color {
	if errors.ValidateHexColor(s) != nil {
		s = DefaultBarColor
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return drawing.ColorFromHex(hex)
}
