package scale

import (
	"math"
	"slices"
	"sort"
	"testing"

	"github.com/matzehuels/popchart/pkg/errors"
)

const tolerance = 1e-9

func TestBandTwoCountries(t *testing.T) {
	b, err := NewBand([]string{"China", "India"}, 480, 0.3)
	if err != nil {
		t.Fatalf("NewBand() error: %v", err)
	}

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if math.Abs(b.Bandwidth()-168) > tolerance {
		t.Errorf("Bandwidth() = %g, want 168", b.Bandwidth())
	}
	if b.Step() != 240 {
		t.Errorf("Step() = %g, want 240", b.Step())
	}

	gaps := b.Extent() - float64(b.Len())*b.Bandwidth()
	if math.Abs(gaps-144) > tolerance {
		t.Errorf("gaps = %g, want 144", gaps)
	}

	china, _ := b.Start("China")
	india, _ := b.Start("India")
	if math.Abs(china-36) > tolerance {
		t.Errorf("Start(China) = %g, want 36", china)
	}
	if math.Abs(india-276) > tolerance {
		t.Errorf("Start(India) = %g, want 276", india)
	}
}

func TestBandDisjointAndContained(t *testing.T) {
	keys := []string{"China", "India", "United States of America", "Indonesia", "Pakistan", "Brazil", "Nigeria"}

	for _, padding := range []float64{0, 0.1, 0.3, 0.5, 0.99} {
		b, err := NewBand(keys, 480, padding)
		if err != nil {
			t.Fatalf("NewBand(padding=%g) error: %v", padding, err)
		}

		type span struct{ lo, hi float64 }
		spans := make([]span, 0, len(keys))
		for _, k := range keys {
			start, ok := b.Start(k)
			if !ok {
				t.Fatalf("Start(%q) not found", k)
			}
			s := span{start, start + b.Bandwidth()}
			if s.lo < -tolerance || s.hi > 480+tolerance {
				t.Errorf("padding %g: band %q = [%g, %g] outside [0, 480]", padding, k, s.lo, s.hi)
			}
			spans = append(spans, s)
		}

		sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
		for i := 1; i < len(spans); i++ {
			if spans[i].lo < spans[i-1].hi-tolerance {
				t.Errorf("padding %g: bands overlap: %v and %v", padding, spans[i-1], spans[i])
			}
		}

		gapTotal := float64(len(keys)) * b.Step() * padding
		if total := float64(len(keys))*b.Bandwidth() + gapTotal; math.Abs(total-480) > 1e-6 {
			t.Errorf("padding %g: bandwidths + gaps = %g, want 480", padding, total)
		}
	}
}

func TestBandEmpty(t *testing.T) {
	_, err := NewBand(nil, 480, 0.3)
	if !errors.Is(err, errors.ErrCodeDegenerateDomain) {
		t.Fatalf("NewBand(nil) error = %v, want DEGENERATE_DOMAIN", err)
	}
}

func TestBandDuplicatesCollapse(t *testing.T) {
	b, err := NewBand([]string{"China", "India", "China"}, 480, 0)
	if err != nil {
		t.Fatalf("NewBand() error: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
	if got := b.Domain(); !slices.Equal(got, []string{"China", "India"}) {
		t.Errorf("Domain() = %v, want [China India]", got)
	}
}

func TestBandInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		height  float64
		padding float64
		code    errors.Code
	}{
		{"padding one", 480, 1, errors.ErrCodeInvalidInput},
		{"negative padding", 480, -0.1, errors.ErrCodeInvalidInput},
		{"nan padding", 480, math.NaN(), errors.ErrCodeInvalidInput},
		{"zero height", 0, 0.3, errors.ErrCodeInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBand([]string{"China"}, tt.height, tt.padding)
			if !errors.Is(err, tt.code) {
				t.Errorf("NewBand() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBandLookup(t *testing.T) {
	b, _ := NewBand([]string{"China"}, 100, 0.2)

	if _, ok := b.Start("Atlantis"); ok {
		t.Error("Start(Atlantis) should not be found")
	}
	if _, ok := b.Center("Atlantis"); ok {
		t.Error("Center(Atlantis) should not be found")
	}

	center, ok := b.Center("China")
	if !ok || math.Abs(center-50) > tolerance {
		t.Errorf("Center(China) = %g, %v; want 50, true", center, ok)
	}

	domain := b.Domain()
	domain[0] = "mutated"
	if b.Domain()[0] != "China" {
		t.Error("Domain() should return a copy")
	}
}
