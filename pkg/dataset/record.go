package dataset

// Record is one row of the chart: a country and its absolute head count.
type Record struct {
	Country    string  `json:"country"`
	Population float64 `json:"population"`
}

// Dataset is an ordered list of records in source-file row order.
type Dataset []Record

// Countries returns the country keys in row order.
func (d Dataset) Countries() []string {
	out := make([]string, len(d))
	for i, r := range d {
		out[i] = r.Country
	}
	return out
}

// Populations returns the population values in row order.
func (d Dataset) Populations() []float64 {
	out := make([]float64, len(d))
	for i, r := range d {
		out[i] = r.Population
	}
	return out
}

// Max returns the largest population, or 0 for an empty dataset.
func (d Dataset) Max() float64 {
	var hi float64
	for _, r := range d {
		hi = max(hi, r.Population)
	}
	return hi
}

// Total returns the sum of all populations.
func (d Dataset) Total() float64 {
	var sum float64
	for _, r := range d {
		sum += r.Population
	}
	return sum
}

// Find returns the record for country.
func (d Dataset) Find(country string) (Record, bool) {
	for _, r := range d {
		if r.Country == country {
			return r, true
		}
	}
	return Record{}, false
}
