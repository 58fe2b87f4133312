// Package transform converts extracted GDP figures from formatted USD millions
// to numeric USD billions.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/shopspring/decimal"
)

// Places is the number of decimals kept after rescaling.
const Places = 2

var (
	thousand = decimal.NewFromInt(1000)

	// Unsigned plain decimal once grouping commas are gone.
	numberPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// ToBillions returns a new record set with every GDP rescaled from millions to
// billions. The input is not modified and order is preserved. Any value that
// is not a non-negative decimal fails the whole set with models.ErrParse.
func ToBillions(records []models.RawCountry) ([]models.Country, error) {
	out := make([]models.Country, len(records))
	for i, r := range records {
		gdp, err := MillionsToBillions(r.GDPMillions)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.Country, err)
		}
		out[i] = models.Country{Country: r.Country, GDPBillions: gdp}
	}
	return out, nil
}

// MillionsToBillions parses a figure like "12,345" and returns 12.35.
// Rounding is half away from zero on the exact decimal value, so "12,345"
// becomes 12.35 rather than the binary-float artefact 12.34.
func MillionsToBillions(text string) (float64, error) {
	residual := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if !numberPattern.MatchString(residual) {
		return 0, fmt.Errorf("%w: %s %q is not a non-negative decimal", models.ErrParse, models.ColumnGDPMillions, text)
	}

	millions, err := decimal.NewFromString(residual)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %w", models.ErrParse, models.ColumnGDPMillions, text, err)
	}

	return millions.Div(thousand).Round(Places).InexactFloat64(), nil
}
