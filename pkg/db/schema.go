package db

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dtnitsch/gdp-etl/models"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName rejects anything but a plain SQL identifier, since the name
// is interpolated into DDL.
func ValidateTableName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid table name %q", models.ErrPersistence, name)
	}
	return nil
}

func dropTableSQL(table string) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE "%s" (
    %s TEXT NOT NULL,
    %s REAL NOT NULL
)`, table, models.ColumnCountry, models.ColumnGDPBillions)
}

func insertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO "%s" (%s, %s) VALUES (?, ?)`, table, models.ColumnCountry, models.ColumnGDPBillions)
}

// MinGDPQuery builds the report query: every row at or above minBillions.
func MinGDPQuery(table string, minBillions float64) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s >= %s",
		table, models.ColumnGDPBillions, strconv.FormatFloat(minBillions, 'f', -1, 64))
}
