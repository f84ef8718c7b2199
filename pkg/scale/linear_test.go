package scale

import (
	"math"
	"slices"
	"testing"
)

func TestLinearEndpoints(t *testing.T) {
	datasets := [][]float64{
		{1_400_000_000, 1_380_000_000},
		{42},
		{0, 5, 10, 3},
		{329_065_000, 1_433_784_000, 145_872_000},
	}

	for _, values := range datasets {
		l := NewLinear(values, 630)
		hi := slices.Max(values)
		if got := l.Map(0); got != 0 {
			t.Errorf("Map(0) = %g, want 0 for %v", got, values)
		}
		if got := l.Map(hi); math.Abs(got-630) > 1e-9 {
			t.Errorf("Map(%g) = %g, want 630 for %v", hi, got, values)
		}
	}
}

func TestLinearMonotone(t *testing.T) {
	l := NewLinear([]float64{1_433_784_000, 1_366_418_000, 329_065_000}, 630)

	prev := math.Inf(-1)
	for v := 0.0; v <= 1_433_784_000; v += 1_433_784_000 / 97 {
		got := l.Map(v)
		if got < prev {
			t.Fatalf("Map(%g) = %g decreased from %g", v, got, prev)
		}
		prev = got
	}
}

func TestLinearProportional(t *testing.T) {
	l := NewLinear([]float64{200, 100}, 400)
	if got := l.Map(100); got != 200 {
		t.Errorf("Map(100) = %g, want 200", got)
	}
	if got := l.Map(50); got != 100 {
		t.Errorf("Map(50) = %g, want 100", got)
	}
}

func TestLinearAllZero(t *testing.T) {
	l := NewLinear([]float64{0, 0, 0}, 630)
	if !l.Degenerate() {
		t.Error("all-zero scale should be degenerate")
	}
	for _, v := range []float64{0, 1, 1e9, -5} {
		if got := l.Map(v); got != 0 {
			t.Errorf("Map(%g) = %g, want 0", v, got)
		}
	}
}

func TestLinearEmpty(t *testing.T) {
	l := NewLinear(nil, 630)
	if got := l.Map(10); got != 0 {
		t.Errorf("Map(10) on empty scale = %g, want 0", got)
	}
	if lo, hi := l.Domain(); lo != 0 || hi != 0 {
		t.Errorf("Domain() = [%g, %g], want [0, 0]", lo, hi)
	}
	if lo, hi := l.Range(); lo != 0 || hi != 630 {
		t.Errorf("Range() = [%g, %g], want [0, 630]", lo, hi)
	}
}

func TestLinearTicks(t *testing.T) {
	tests := []struct {
		name  string
		max   float64
		count int
		want  []float64
	}{
		{
			name:  "world population",
			max:   1_433_784_000,
			count: 10,
			want:  []float64{0, 2e8, 4e8, 6e8, 8e8, 1e9, 1.2e9, 1.4e9},
		},
		{
			name:  "exact multiple",
			max:   100,
			count: 10,
			want:  []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		{
			name:  "fractional steps",
			max:   1,
			count: 5,
			want:  []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
		},
		{
			name:  "few ticks",
			max:   1_400_000_000,
			count: 3,
			want:  []float64{0, 5e8, 1e9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLinear([]float64{tt.max}, 630).Ticks(tt.count)
			if len(got) != len(tt.want) {
				t.Fatalf("Ticks(%d) = %v, want %v", tt.count, got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9*math.Max(1, tt.want[i]) {
					t.Errorf("Ticks(%d)[%d] = %g, want %g", tt.count, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLinearTicksDegenerate(t *testing.T) {
	l := NewLinear([]float64{0}, 630)
	if got := l.Ticks(10); !slices.Equal(got, []float64{0}) {
		t.Errorf("Ticks() on degenerate scale = %v, want [0]", got)
	}
	if got := NewLinear([]float64{10}, 630).Ticks(0); got != nil {
		t.Errorf("Ticks(0) = %v, want nil", got)
	}
}
