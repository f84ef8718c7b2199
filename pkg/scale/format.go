package scale

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// tickPrecision is the number of significant digits in axis labels.
const tickPrecision = 2

// FormatTick renders v with an SI prefix and two significant digits, keeping
// trailing zeros ("1.0G", "200M", "0.0"). The giga prefix is then rewritten to
// the billions convention, so 1.2e9 becomes "1.2B".
func FormatTick(v float64) string {
	return billions(formatSI(v, tickPrecision))
}

// formatSI formats v with the given number of significant digits followed by
// its SI prefix.
func formatSI(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v == 0 {
		return strconv.FormatFloat(0, 'f', digits-1, 64)
	}

	// Round first so that 999.6M is labelled 1.0G rather than 1000M.
	mantissa, prefix := humanize.ComputeSI(roundSignificant(v, digits))

	intDigits := 1
	if a := math.Abs(mantissa); a >= 1 {
		intDigits = int(math.Floor(math.Log10(a)+1e-9)) + 1
	}
	decimals := max(0, digits-intDigits)
	return strconv.FormatFloat(mantissa, 'f', decimals, 64) + prefix
}

// roundSignificant rounds v to the given number of significant digits with
// ties away from zero, so 1.05e9 becomes 1.1e9 and 2.45e8 becomes 2.5e8.
func roundSignificant(v float64, digits int) float64 {
	// The exponent comes from the shortest decimal form, which avoids the
	// off-by-one of math.Log10 near powers of ten.
	s := strconv.FormatFloat(math.Abs(v), 'e', -1, 64)
	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err != nil {
		return v
	}
	shift := exp - (digits - 1)
	if shift >= 0 {
		p := math.Pow10(shift)
		return math.Round(v/p) * p
	}
	p := math.Pow10(-shift)
	return math.Round(v*p) / p
}

// billions replaces a trailing giga prefix with "B". The rewrite is purely
// textual and runs after SI formatting.
func billions(s string) string {
	if strings.HasSuffix(s, "G") {
		return strings.TrimSuffix(s, "G") + "B"
	}
	return s
}
