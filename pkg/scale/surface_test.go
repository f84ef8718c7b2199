package scale

import (
	"math"
	"testing"

	"github.com/matzehuels/popchart/pkg/errors"
)

func TestInnerExtents(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
		wantW   float64
		wantH   float64
		wantErr bool
	}{
		{
			name: "world population defaults",
			surface: Surface{
				Width: 900, Height: 600,
				Margins: Margins{Top: 70, Right: 20, Bottom: 50, Left: 250},
			},
			wantW: 630, wantH: 480,
		},
		{
			name:    "no margins",
			surface: Surface{Width: 100, Height: 50},
			wantW:   100, wantH: 50,
		},
		{
			name: "margins consume width",
			surface: Surface{
				Width: 270, Height: 600,
				Margins: Margins{Left: 250, Right: 20},
			},
			wantErr: true,
		},
		{
			name: "margins exceed height",
			surface: Surface{
				Width: 900, Height: 100,
				Margins: Margins{Top: 70, Bottom: 50},
			},
			wantErr: true,
		},
		{
			name:    "zero surface",
			surface: Surface{},
			wantErr: true,
		},
		{
			name: "negative margin",
			surface: Surface{
				Width: 900, Height: 600,
				Margins: Margins{Left: -10},
			},
			wantErr: true,
		},
		{
			name:    "nan width",
			surface: Surface{Width: math.NaN(), Height: 600},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := InnerExtents(tt.surface)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
					t.Fatalf("InnerExtents() error = %v, want INVALID_GEOMETRY", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("InnerExtents() error = %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("InnerExtents() = (%g, %g), want (%g, %g)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
