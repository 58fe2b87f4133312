package db

import (
	"fmt"

	"github.com/dtnitsch/gdp-etl/internal/etl"
	dbpkg "github.com/dtnitsch/gdp-etl/pkg/db"
	"github.com/dtnitsch/gdp-etl/pkg/storage"
	"github.com/urfave/cli/v2"
)

// QueryAction re-runs the GDP filter against a database left by an earlier run.
// It never writes.
func QueryAction(c *cli.Context) error {
	logger := etl.NewLogger(c)

	cfg, err := etl.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := dbpkg.ValidateTableName(cfg.TableName); err != nil {
		return err
	}

	minBillions := cfg.Query.MinGDPBillions
	if c.IsSet("min") {
		minBillions = c.Float64("min")
	}

	database, err := OpenExisting(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	matches, err := etl.RunQuery(c.Context, database, dbpkg.MinGDPQuery(cfg.TableName, minBillions), c.App.Writer)
	if err != nil {
		return err
	}

	logger.Info("query finished", "db", cfg.DBPath, "table", cfg.TableName, "min_gdp_billions", minBillions, "matches", len(matches))
	return nil
}

// OpenExisting opens dbPath only if the file is already there; opening a
// missing path would silently create an empty database.
func OpenExisting(dbPath string) (*dbpkg.DB, error) {
	s := &storage.Storage{}
	if !s.HasFile(dbPath) {
		return nil, fmt.Errorf("database %s not found. Run 'gdp-etl run' first", dbPath)
	}
	return dbpkg.Open(dbPath)
}
