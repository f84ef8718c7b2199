package scale

import (
	"math"

	"github.com/matzehuels/popchart/pkg/errors"
)

// Band splits [0, innerHeight] into one equal step per category key. Each
// step holds a band of Bandwidth pixels centered in it, with the remaining
// padding fraction split evenly above and below.
type Band struct {
	keys      []string
	index     map[string]int
	step      float64
	bandwidth float64
	padding   float64
	extent    float64
}

// NewBand builds a band scale over the distinct keys in order of first
// appearance. Duplicate keys collapse onto the first band. It fails with
// DEGENERATE_DOMAIN for an empty domain and with INVALID_INPUT for a padding
// outside [0, 1) or a non-positive extent.
func NewBand(keys []string, innerHeight, padding float64) (Band, error) {
	if math.IsNaN(padding) || padding < 0 || padding >= 1 {
		return Band{}, errors.New(errors.ErrCodeInvalidInput, "padding must be in [0, 1), got %g", padding)
	}
	if math.IsNaN(innerHeight) || innerHeight <= 0 {
		return Band{}, errors.New(errors.ErrCodeInvalidGeometry, "band extent must be positive, got %g", innerHeight)
	}

	index := make(map[string]int, len(keys))
	distinct := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = len(distinct)
		distinct = append(distinct, k)
	}
	if len(distinct) == 0 {
		return Band{}, errors.New(errors.ErrCodeDegenerateDomain, "band scale needs at least one category")
	}

	step := innerHeight / float64(len(distinct))
	return Band{
		keys:      distinct,
		index:     index,
		step:      step,
		bandwidth: step * (1 - padding),
		padding:   padding,
		extent:    innerHeight,
	}, nil
}

// Start returns the top edge of key's band.
func (b Band) Start(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return float64(i)*b.step + b.step*b.padding/2, true
}

// Center returns the midpoint of key's band, where axis labels sit.
func (b Band) Center(key string) (float64, bool) {
	start, ok := b.Start(key)
	if !ok {
		return 0, false
	}
	return start + b.bandwidth/2, true
}

// Domain returns the distinct keys in band order. The slice is a copy.
func (b Band) Domain() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Len returns the number of bands.
func (b Band) Len() int { return len(b.keys) }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Bandwidth returns the height of every band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Padding returns the fraction of each step left empty.
func (b Band) Padding() float64 { return b.padding }

// Extent returns the total range the bands were laid out over.
func (b Band) Extent() float64 { return b.extent }
