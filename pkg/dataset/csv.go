package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/popchart/pkg/errors"
)

const (
	// DefaultMultiplier converts the source's thousands into head counts.
	DefaultMultiplier = 1000

	// DefaultCountryColumn is the header naming the category key.
	DefaultCountryColumn = "Country"

	// DefaultPopulationColumn is the header naming the value column.
	DefaultPopulationColumn = "Population"
)

// ParseOptions controls how rows are read. The zero value uses the defaults.
type ParseOptions struct {
	Multiplier       float64
	CountryColumn    string
	PopulationColumn string
}

func (o ParseOptions) withDefaults() ParseOptions {
	if o.Multiplier == 0 {
		o.Multiplier = DefaultMultiplier
	}
	if o.CountryColumn == "" {
		o.CountryColumn = DefaultCountryColumn
	}
	if o.PopulationColumn == "" {
		o.PopulationColumn = DefaultPopulationColumn
	}
	return o
}

// Load reads and parses the CSV at path. A path of "-" reads stdin.
func Load(path string, opts ParseOptions) (Dataset, error) {
	if err := errors.ValidateSourcePath(path); err != nil {
		return nil, err
	}

	if path == "-" {
		return Parse(os.Stdin, opts)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Parse(f, opts)
}

// ParseBytes parses an in-memory CSV body.
func ParseBytes(data []byte, opts ParseOptions) (Dataset, error) {
	return Parse(bytes.NewReader(data), opts)
}

// Parse reads a CSV stream into a Dataset, preserving row order.
func Parse(r io.Reader, opts ParseOptions) (Dataset, error) {
	opts = opts.withDefaults()
	if math.IsNaN(opts.Multiplier) || math.IsInf(opts.Multiplier, 0) || opts.Multiplier <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "multiplier must be positive and finite, got %g", opts.Multiplier)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "dataset is empty (no header row)")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read header")
	}

	countryCol, popCol, err := columns(header, opts)
	if err != nil {
		return nil, err
	}

	var ds Dataset
	seen := make(map[string]int)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "read row")
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}

		rec, err := parseRow(row, countryCol, popCol, opts.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen[rec.Country]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateKey,
				"line %d: country %q already defined on line %d", line, rec.Country, first)
		}
		seen[rec.Country] = line
		ds = append(ds, rec)
	}
	return ds, nil
}

func columns(header []string, opts ParseOptions) (country, population int, err error) {
	country, population = -1, -1
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(name, opts.CountryColumn) && country < 0:
			country = i
		case strings.EqualFold(name, opts.PopulationColumn) && population < 0:
			population = i
		}
	}
	if country < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidCSV, "missing %q column in header %v", opts.CountryColumn, header)
	}
	if population < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidCSV, "missing %q column in header %v", opts.PopulationColumn, header)
	}
	return country, population, nil
}

func parseRow(row []string, countryCol, popCol int, multiplier float64) (Record, error) {
	if countryCol >= len(row) || popCol >= len(row) {
		return Record{}, errors.New(errors.ErrCodeInvalidCSV, "row has %d fields, too few for the header", len(row))
	}

	country := strings.TrimSpace(row[countryCol])
	if err := errors.ValidateCountryName(country); err != nil {
		return Record{}, err
	}

	raw := strings.TrimSpace(row[popCol])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Record{}, errors.New(errors.ErrCodeInvalidCSV, "population %q for %s is not a number", raw, country)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Record{}, errors.New(errors.ErrCodeInvalidCSV, "population %q for %s must be a non-negative number", raw, country)
	}

	scaled := v * multiplier
	if math.IsInf(scaled, 0) {
		return Record{}, errors.New(errors.ErrCodeInvalidCSV, "population %q for %s overflows when multiplied by %g", raw, country, multiplier)
	}
	return Record{Country: country, Population: scaled}, nil
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
