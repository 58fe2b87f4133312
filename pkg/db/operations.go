package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnitsch/gdp-etl/models"
)

// ReplaceCountries drops table, recreates it and inserts countries in a single
// transaction. Readers see the old table or the new one, never a mix.
func (db *DB) ReplaceCountries(ctx context.Context, table string, countries []models.Country) (err error) {
	if err := ValidateTableName(table); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", models.ErrPersistence, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // Rollback error less important than the cause
		}
	}()

	if _, err = tx.ExecContext(ctx, dropTableSQL(table)); err != nil {
		return fmt.Errorf("%w: failed to drop table %s: %w", models.ErrPersistence, table, err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return fmt.Errorf("%w: failed to create table %s: %w", models.ErrPersistence, table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %w", models.ErrPersistence, err)
	}
	defer stmt.Close()

	for _, c := range countries {
		if _, err = stmt.ExecContext(ctx, c.Country, c.GDPBillions); err != nil {
			return fmt.Errorf("%w: failed to insert %s: %w", models.ErrPersistence, c.Country, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %w", models.ErrPersistence, err)
	}
	return nil
}

// QueryCountries runs a read-only SELECT returning (Country, GDP_USD_billions)
// rows, in the order the statement yields them.
func (db *DB) QueryCountries(ctx context.Context, query string, args ...any) ([]models.Country, error) {
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		return nil, fmt.Errorf("refusing to run non-SELECT statement: %q", query)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) != 2 {
		return nil, fmt.Errorf("query returned %d columns %v, want %s and %s", len(cols), cols, models.ColumnCountry, models.ColumnGDPBillions)
	}

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.Country, &c.GDPBillions); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return countries, nil
}

// CountRows returns the number of rows in table.
func (db *DB) CountRows(ctx context.Context, table string) (int, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}
