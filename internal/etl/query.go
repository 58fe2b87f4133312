package etl

import (
	"context"
	"fmt"
	"io"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/dtnitsch/gdp-etl/pkg/db"
	"github.com/dtnitsch/gdp-etl/pkg/report"
)

// RunQuery executes a read-only query and prints it with its results to w.
func RunQuery(ctx context.Context, database *db.DB, query string, w io.Writer) ([]models.Country, error) {
	matches, err := database.QueryCountries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", query, err)
	}

	if err := report.Write(w, query, matches); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return matches, nil
}
