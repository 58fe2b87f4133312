package db

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/google/go-cmp/cmp"
)

// setupTestDB creates a SQLite database in a temp dir for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestReplaceCountries_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	countries := []models.Country{
		{Country: "United States", GDPBillions: 26854.6},
		{Country: "China", GDPBillions: 19373.59},
		{Country: "Tuvalu", GDPBillions: 0.06},
	}

	for i := 0; i < 2; i++ {
		if err := db.ReplaceCountries(ctx, models.DefaultTableName, countries); err != nil {
			t.Fatalf("ReplaceCountries() call %d error = %v", i, err)
		}
	}

	n, err := db.CountRows(ctx, models.DefaultTableName)
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != len(countries) {
		t.Errorf("CountRows() = %d, want %d", n, len(countries))
	}

	got, err := db.QueryCountries(ctx, "SELECT * FROM Countries_by_GDP ORDER BY rowid")
	if err != nil {
		t.Fatalf("QueryCountries() error = %v", err)
	}
	if diff := cmp.Diff(countries, got); diff != "" {
		t.Errorf("table contents mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceCountries_ReplacesOldContents(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// A table with a different schema must not survive.
	if _, err := db.Exec(`CREATE TABLE Countries_by_GDP (Country TEXT, GDP_USD_millions TEXT, Extra INTEGER)`); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO Countries_by_GDP VALUES ('Old', '1,000', 1)`); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	want := []models.Country{{Country: "New", GDPBillions: 1}}
	if err := db.ReplaceCountries(ctx, "Countries_by_GDP", want); err != nil {
		t.Fatalf("ReplaceCountries() error = %v", err)
	}

	got, err := db.QueryCountries(ctx, "SELECT * FROM Countries_by_GDP")
	if err != nil {
		t.Fatalf("QueryCountries() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table contents mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceCountries_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Old schema differs from the new one so a half-applied replace is visible.
	if _, err := db.Exec(`CREATE TABLE gdp (Country TEXT, GDP_USD_billions REAL, Extra INTEGER)`); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO gdp VALUES ('Kept', 5, 1)`); err != nil {
		t.Fatalf("seed row: %v", err)
	}

	// NaN is stored as NULL and trips NOT NULL on the second insert, after the
	// drop, the create and one insert have already run.
	err := db.ReplaceCountries(ctx, "gdp", []models.Country{
		{Country: "A", GDPBillions: 1},
		{Country: "B", GDPBillions: math.NaN()},
	})
	if !errors.Is(err, models.ErrPersistence) {
		t.Fatalf("ReplaceCountries() error = %v, want ErrPersistence", err)
	}

	var country string
	var gdp float64
	var extra int
	if err := db.QueryRow(`SELECT Country, GDP_USD_billions, Extra FROM gdp`).Scan(&country, &gdp, &extra); err != nil {
		t.Fatalf("old schema not restored: %v", err)
	}
	if country != "Kept" || gdp != 5 || extra != 1 {
		t.Errorf("row = (%q, %v, %d), want (Kept, 5, 1)", country, gdp, extra)
	}

	n, err := db.CountRows(ctx, "gdp")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountRows() = %d, want 1", n)
	}
}

func TestReplaceCountries_CancelledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	original := []models.Country{{Country: "Kept", GDPBillions: 5}}
	if err := db.ReplaceCountries(ctx, "gdp", original); err != nil {
		t.Fatalf("ReplaceCountries() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := db.ReplaceCountries(cancelled, "gdp", []models.Country{{Country: "Lost", GDPBillions: 1}}); err == nil {
		t.Fatal("ReplaceCountries() with cancelled context succeeded")
	}

	got, err := db.QueryCountries(ctx, "SELECT * FROM gdp")
	if err != nil {
		t.Fatalf("QueryCountries() error = %v", err)
	}
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("failed replace changed the table (-want +got):\n%s", diff)
	}
}

func TestReplaceCountries_InvalidTableName(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"", "1table", "gdp; DROP TABLE x", `gdp"`, "with space"} {
		t.Run(name, func(t *testing.T) {
			err := db.ReplaceCountries(context.Background(), name, nil)
			if !errors.Is(err, models.ErrPersistence) {
				t.Errorf("ReplaceCountries(%q) error = %v, want ErrPersistence", name, err)
			}
		})
	}
}

func TestQueryCountries_MinGDP(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplaceCountries(ctx, models.DefaultTableName, []models.Country{
		{Country: "Small", GDPBillions: 50},
		{Country: "Edge", GDPBillions: 100},
		{Country: "Large", GDPBillions: 150},
	}); err != nil {
		t.Fatalf("ReplaceCountries() error = %v", err)
	}

	got, err := db.QueryCountries(ctx, MinGDPQuery(models.DefaultTableName, 100))
	if err != nil {
		t.Fatalf("QueryCountries() error = %v", err)
	}

	want := []models.Country{
		{Country: "Edge", GDPBillions: 100},
		{Country: "Large", GDPBillions: 150},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryCountries() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryCountries_RejectsWrites(t *testing.T) {
	db := setupTestDB(t)

	for _, q := range []string{
		"DELETE FROM Countries_by_GDP",
		"DROP TABLE Countries_by_GDP",
		"UPDATE Countries_by_GDP SET GDP_USD_billions = 0",
	} {
		if _, err := db.QueryCountries(context.Background(), q); err == nil {
			t.Errorf("QueryCountries(%q) succeeded, want error", q)
		}
	}
}

func TestMinGDPQuery(t *testing.T) {
	tests := []struct {
		min  float64
		want string
	}{
		{min: 100, want: "SELECT * FROM Countries_by_GDP WHERE GDP_USD_billions >= 100"},
		{min: 2.5, want: "SELECT * FROM Countries_by_GDP WHERE GDP_USD_billions >= 2.5"},
	}
	for _, tt := range tests {
		if got := MinGDPQuery("Countries_by_GDP", tt.min); got != tt.want {
			t.Errorf("MinGDPQuery(%v) = %q, want %q", tt.min, got, tt.want)
		}
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	if err == nil {
		t.Error("Open() in a missing directory succeeded, want error")
	}
}
