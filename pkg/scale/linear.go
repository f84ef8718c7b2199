package scale

import "math"

// Linear maps values in [0, max] proportionally onto [0, width].
// The zero value is a degenerate scale that maps everything to 0.
type Linear struct {
	domainMax float64
	rangeMax  float64
}

// NewLinear builds a scale whose domain is [0, max(values)] and whose range is
// [0, innerWidth]. Negative and NaN values are ignored when finding the max.
func NewLinear(values []float64, innerWidth float64) Linear {
	var hi float64
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	return Linear{domainMax: hi, rangeMax: innerWidth}
}

// Map returns the pixel offset for v. A degenerate scale (domain max 0)
// returns 0 for every input instead of dividing by zero.
func (l Linear) Map(v float64) float64 {
	if l.domainMax <= 0 {
		return 0
	}
	return v / l.domainMax * l.rangeMax
}

// Domain returns the [min, max] input interval.
func (l Linear) Domain() (float64, float64) { return 0, l.domainMax }

// Range returns the [min, max] output interval.
func (l Linear) Range() (float64, float64) { return 0, l.rangeMax }

// Degenerate reports whether the domain collapsed to a single point.
func (l Linear) Degenerate() bool { return l.domainMax <= 0 }

// Ticks returns roughly count evenly spaced, human-friendly values covering
// the domain. Steps are 1, 2 or 5 times a power of ten. A degenerate scale
// yields the single tick 0.
func (l Linear) Ticks(count int) []float64 {
	if count <= 0 {
		return nil
	}
	if l.Degenerate() {
		return []float64{0}
	}

	step := tickIncrement(0, l.domainMax, count)
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return nil
	}

	// The domain always starts at 0, so tick i is simply i steps in.
	var ticks []float64
	if step > 0 {
		n := int(math.Floor(l.domainMax/step)) + 1
		ticks = make([]float64, n)
		for i := 0; i < n; i++ {
			ticks[i] = float64(i) * step
		}
	} else {
		// Negative increments encode 1/step for sub-unit spacing.
		inv := -step
		n := int(math.Floor(l.domainMax*inv)) + 1
		ticks = make([]float64, n)
		for i := 0; i < n; i++ {
			ticks[i] = float64(i) / inv
		}
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement picks the nice step for count ticks over [start, stop].
// Steps below 1 are returned as the negated reciprocal so that tick values
// can be computed by division without accumulating float error.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
