// Package normalize converts raw weight and purity strings from marketplace
// listings into standard units: grams for weight, karats for purity.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golddigger/models"
)

// GramsPerOunce converts avoirdupois ounces, the unit sellers use for item
// weights. Not to be confused with the troy ounce used for spot pricing
// (see pricing.GramsPerTroyOunce) - the two are not interchangeable.
const GramsPerOunce = 28.3495

var (
	weightValue = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([a-z]+)`)
	nonDigit    = regexp.MustCompile(`[^0-9]`)
)

// Weight normalizes a weight string like "5.2 g", "1 oz" or "14 grams" to
// grams. Returns nil for unrecognized units, unparsable values, or
// non-positive weights.
func Weight(s string) *float64 {
	m := weightValue.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return nil
	}

	unit := m[2]
	switch {
	case strings.Contains(unit, "oz") || strings.Contains(unit, "ounce"):
		grams := value * GramsPerOunce
		return &grams
	case strings.Contains(unit, "g"):
		return &value
	}
	return nil
}

// Purity normalizes a purity string like "14k", "18 kt" or "24 karat" to an
// integer karat value. All non-digit characters are stripped before parsing.
// Values outside [1,24] are rejected as absent, never clamped.
func Purity(s string) *int {
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return nil
	}

	karat, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	if karat < models.MinPurityKarat || karat > models.MaxPurityKarat {
		return nil
	}
	return &karat
}
