package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/popchart/pkg/chart"
)

// DefaultBarColor is the fill used when no color is configured.
const DefaultBarColor = "#4682b4"

const (
	fontFamily  = "sans-serif"
	gridColor   = "#d9d9d9"
	axisColor   = "#333333"
	tooltipFill = "#ffffff"
)

const chartCSS = `
    .tick text { font: 12px %[1]s; fill: %[2]s; }
    .tick line { stroke: %[3]s; }
    .y-axis .tick text { font-size: 14px; }
    .title { font: bold 28px %[1]s; fill: %[2]s; }
    .axis-label { font: 20px %[1]s; fill: %[2]s; }`

const interactionCSS = `
    .bar { transition: opacity %[1]dms; }
    #tooltip { opacity: 0; pointer-events: none; transition: opacity %[1]dms; }
    #tooltip rect { fill: %[2]s; stroke: %[3]s; }
    #tooltip text { font: 12px %[4]s; }`

const interactionJS = `
    (function () {
      var tip = document.getElementById('tooltip');
      var label = tip.querySelector('text');
      var box = tip.querySelector('rect');
      function pointer(svg, e) {
        var p = svg.createSVGPoint();
        p.x = e.clientX; p.y = e.clientY;
        return p.matrixTransform(svg.getScreenCTM().inverse());
      }
      document.querySelectorAll('.bar').forEach(function (bar) {
        bar.addEventListener('mouseover', function (e) {
          var p = pointer(bar.ownerSVGElement, e);
          bar.style.opacity = %[1]g;
          label.textContent = bar.getAttribute('data-tooltip');
          box.setAttribute('width', label.getComputedTextLength() + 12);
          tip.setAttribute('transform', 'translate(' + (p.x + %[2]d) + ',' + (p.y + %[3]d) + ')');
          tip.style.opacity = 1;
        });
        bar.addEventListener('mouseout', function () {
          bar.style.opacity = 1;
          tip.style.opacity = 0;
        });
      });
    })();`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	barColor    string
	interactive bool
}

// WithInteraction embeds the hover tooltip script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithBarColor sets the bar fill. An empty color keeps the default.
func WithBarColor(color string) SVGOption {
	return func(r *svgRenderer) {
		if color != "" {
			r.barColor = color
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{barColor: DefaultBarColor}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l chart.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := l.Surface.Width, l.Surface.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>"+chartCSS, fontFamily, axisColor, gridColor)
	if r.interactive {
		fmt.Fprintf(&buf, interactionCSS, chart.TransitionMillis, tooltipFill, axisColor, fontFamily)
	}
	buf.WriteString("\n  </style>\n")

	fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f)">`+"\n", l.TranslateX, l.TranslateY)
	renderYAxis(&buf, l)
	renderXAxis(&buf, l)
	fmt.Fprintf(&buf, `    <text class="title" x="%.2f" y="%.2f">%s</text>`+"\n", l.Title.X, l.Title.Y, escapeXML(l.Title.Text))
	for _, b := range l.Bars {
		renderBar(&buf, b, r.barColor)
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderYAxis(buf *bytes.Buffer, l chart.Layout) {
	buf.WriteString(`    <g class="y-axis" text-anchor="end">` + "\n")
	for _, t := range l.YTicks {
		fmt.Fprintf(buf, `      <g class="tick" transform="translate(0,%.2f)"><text x="-9" dy="0.32em">%s</text></g>`+"\n",
			t.Pos, escapeXML(t.Label))
	}
	buf.WriteString("    </g>\n")
}

func renderXAxis(buf *bytes.Buffer, l chart.Layout) {
	fmt.Fprintf(buf, `    <g class="x-axis" text-anchor="middle" transform="translate(0,%.2f)">`+"\n", l.InnerHeight)
	for _, t := range l.XTicks {
		fmt.Fprintf(buf, `      <g class="tick" transform="translate(%.2f,0)"><line y2="%.2f"/><text y="9" dy="0.71em">%s</text></g>`+"\n",
			t.Pos, l.GridSize, escapeXML(t.Label))
	}
	fmt.Fprintf(buf, `      <text class="axis-label" x="%.2f" y="%.2f">%s</text>`+"\n",
		l.AxisLabel.X, l.AxisLabel.Y, escapeXML(l.AxisLabel.Text))
	buf.WriteString("    </g>\n")
}

func renderBar(buf *bytes.Buffer, b chart.Bar, fill string) {
	fmt.Fprintf(buf, `    <rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-country="%s" data-tooltip="%s"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, escapeXML(fill), escapeXML(b.Country), escapeXML(b.Tooltip))
}

func renderInteraction(buf *bytes.Buffer) {
	buf.WriteString(`  <g id="tooltip"><rect x="-6" y="-16" width="80" height="22" rx="3"/><text>` + "</text></g>\n")
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA["+interactionJS+"\n  ]]></script>\n",
		chart.HoverOpacity, chart.TooltipOffsetX, chart.TooltipOffsetY)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
