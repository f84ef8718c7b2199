package scale

import "github.com/matzehuels/popchart/pkg/dataset"

// LinearFor builds the population scale for ds.
func LinearFor(ds dataset.Dataset, innerWidth float64) Linear {
	return NewLinear(ds.Populations(), innerWidth)
}

// BandFor builds the country scale for ds, keeping row order.
func BandFor(ds dataset.Dataset, innerHeight, padding float64) (Band, error) {
	return NewBand(ds.Countries(), innerHeight, padding)
}
