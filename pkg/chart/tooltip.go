package chart

import "github.com/matzehuels/popchart/pkg/dataset"

// Hover presentation constants shared by every interactive sink.
const (
	HoverOpacity     = 0.85
	TooltipOffsetX   = 10
	TooltipOffsetY   = -15
	TransitionMillis = 50
)

// Point is a pointer position in page coordinates.
type Point struct {
	X, Y float64
}

// Tooltip is the hover state of one chart view.
type Tooltip struct {
	Visible bool
	Opacity float64
	X, Y    float64
	Text    string
	// Active is the country whose bar is under the pointer, or "".
	Active string
}

// NewTooltip returns a hidden tooltip.
func NewTooltip() *Tooltip {
	return &Tooltip{}
}

// Over shows the tooltip for rec next to p and marks its bar active.
func (t *Tooltip) Over(rec dataset.Record, p Point) {
	t.Active = rec.Country
	t.Text = TooltipText(rec)
	t.X = p.X + TooltipOffsetX
	t.Y = p.Y + TooltipOffsetY
	t.Opacity = 1
	t.Visible = true
}

// Out hides the tooltip and restores rec's bar. Active is cleared only when
// it is rec, so a late leave from a previous bar keeps the newer highlight.
func (t *Tooltip) Out(rec dataset.Record) {
	if t.Active == rec.Country {
		t.Active = ""
	}
	t.Opacity = 0
	t.Visible = false
}

// BarOpacity returns the fill opacity for country's bar.
func (t *Tooltip) BarOpacity(country string) float64 {
	if t.Active != "" && t.Active == country {
		return HoverOpacity
	}
	return 1
}
