package scale

import (
	"math"

	"github.com/matzehuels/popchart/pkg/errors"
)

// Margins is the space reserved around the plot area for axes and titles.
type Margins struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Surface is the full drawing area handed over by the renderer.
type Surface struct {
	Width   float64 `json:"width" toml:"width"`
	Height  float64 `json:"height" toml:"height"`
	Margins Margins `json:"margins" toml:"margins"`
}

// InnerExtents returns the drawable width and height left after subtracting
// the margins from s. It fails with INVALID_GEOMETRY when either extent is not
// positive, when a margin is negative, or when any input is not finite.
func InnerExtents(s Surface) (innerWidth, innerHeight float64, err error) {
	m := s.Margins
	for _, v := range []float64{s.Width, s.Height, m.Top, m.Right, m.Bottom, m.Left} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, errors.New(errors.ErrCodeInvalidGeometry, "surface dimensions must be finite")
		}
	}
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidGeometry, "margins must be non-negative: %+v", m)
	}

	innerWidth = s.Width - m.Left - m.Right
	innerHeight = s.Height - m.Top - m.Bottom
	if innerWidth <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidGeometry,
			"inner width %g is not positive (width %g, left %g, right %g)", innerWidth, s.Width, m.Left, m.Right)
	}
	if innerHeight <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidGeometry,
			"inner height %g is not positive (height %g, top %g, bottom %g)", innerHeight, s.Height, m.Top, m.Bottom)
	}
	return innerWidth, innerHeight, nil
}
