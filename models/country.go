package models

import (
	"fmt"
	"strconv"
)

// Column labels of the record set before and after the unit transform.
const (
	ColumnCountry     = "Country"
	ColumnGDPMillions = "GDP_USD_millions"
	ColumnGDPBillions = "GDP_USD_billions"
)

// RawCountry is one admitted table row, still holding the formatted GDP text
// (USD millions, e.g. "1,234").
type RawCountry struct {
	Country     string `json:"country"`
	GDPMillions string `json:"gdp_usd_millions"`
}

// Country is a transformed row with GDP in USD billions rounded to 2 places.
type Country struct {
	Country     string  `json:"country"`
	GDPBillions float64 `json:"gdp_usd_billions"`
}

// Header is the header of a transformed record set.
func Header() []string {
	return []string{ColumnCountry, ColumnGDPBillions}
}

// Row renders the record as CSV fields. GDP uses the shortest exact form ("26", "12.35").
func (c Country) Row() []string {
	return []string{c.Country, strconv.FormatFloat(c.GDPBillions, 'f', -1, 64)}
}

// CountryFromRow is the inverse of Country.Row.
func CountryFromRow(row []string) (Country, error) {
	if len(row) != 2 {
		return Country{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrParse, len(row))
	}
	gdp, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return Country{}, fmt.Errorf("%w: invalid %s %q for %s", ErrParse, ColumnGDPBillions, row[1], row[0])
	}
	return Country{Country: row[0], GDPBillions: gdp}, nil
}
