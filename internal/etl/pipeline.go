// Package etl wires the GDP pipeline stages together and exposes them as CLI actions.
package etl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/dtnitsch/gdp-etl/pkg/caching"
	"github.com/dtnitsch/gdp-etl/pkg/db"
	"github.com/dtnitsch/gdp-etl/pkg/fetcher"
	"github.com/dtnitsch/gdp-etl/pkg/parser"
	"github.com/dtnitsch/gdp-etl/pkg/progress"
	"github.com/dtnitsch/gdp-etl/pkg/storage"
	"github.com/dtnitsch/gdp-etl/pkg/transform"
)

// Source returns the raw markup behind a URL.
type Source interface {
	GetHtmlBytes(ctx context.Context, url string) ([]byte, error)
}

// Pipeline runs fetch, extract, transform, load and query once, in that order.
type Pipeline struct {
	Config   *models.Config
	Source   Source
	Parser   *parser.Parser
	Storage  *storage.Storage
	Progress *progress.Logger
	Logger   *slog.Logger

	// Report receives the query text and result table.
	Report io.Writer
}

// Result summarizes a successful run.
type Result struct {
	Extracted int
	Countries []models.Country
	Query     string
	Matches   []models.Country
}

// NewPipeline builds the production stages for cfg.
func NewPipeline(cfg *models.Config, logger *slog.Logger, progressLog *progress.Logger, report io.Writer) (*Pipeline, error) {
	opts := []fetcher.Option{fetcher.WithLogger(logger)}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrConfig, err)
		}
		opts = append(opts, fetcher.WithCache(cache))
	}

	return &Pipeline{
		Config:   cfg,
		Source:   fetcher.NewFetcher(cfg.Timeout, opts...),
		Parser:   parser.NewParser(parser.SelectorFromConfig(cfg.Table)),
		Storage:  &storage.Storage{},
		Progress: progressLog,
		Logger:   logger,
		Report:   report,
	}, nil
}

// OpenProgress opens the milestone log. If the file cannot be opened the run
// continues with milestones reported through logger only.
func OpenProgress(path string, logger *slog.Logger) *progress.Logger {
	l, err := progress.Open(path, progress.WithLogger(logger))
	if err != nil {
		logger.Warn("progress log unavailable, continuing without it", "path", path, "error", err)
		return progress.New(nil, progress.WithLogger(logger))
	}
	return l
}

// Run executes the pipeline. Any stage error aborts the run; nothing is written
// until extraction and transformation have both succeeded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.Config

	if err := db.ValidateTableName(cfg.TableName); err != nil {
		return nil, err
	}

	p.Progress.Log(progress.Preliminaries)

	raw, err := p.extract(ctx)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("extraction complete", "rows", len(raw), "selector", p.Parser.Selector.String())
	p.Progress.Log(progress.Extracted)

	countries, err := transform.ToBillions(raw)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	p.Logger.Info("transformation complete", "rows", len(countries))
	p.Progress.Log(progress.Transformed)

	if err := p.Storage.SaveCountriesCSV(cfg.CSVPath, countries); err != nil {
		return nil, fmt.Errorf("failed to save CSV %s: %w", cfg.CSVPath, err)
	}
	p.Logger.Info("csv saved", "path", cfg.CSVPath, "rows", len(countries))
	p.Progress.Log(progress.CSVSaved)

	created := !p.Storage.HasFile(cfg.DBPath)
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	defer database.Close()
	p.Progress.Log(progress.ConnectionOpen)

	if err := database.ReplaceCountries(ctx, cfg.TableName, countries); err != nil {
		if created {
			// Opening created an empty file; don't leave it behind.
			_ = database.Close()
			if rmErr := os.Remove(cfg.DBPath); rmErr != nil {
				p.Logger.Warn("failed to remove empty database", "path", cfg.DBPath, "error", rmErr)
			}
		}
		return nil, err
	}
	p.Logger.Info("table loaded", "db", database.Path(), "table", cfg.TableName, "rows", len(countries))
	p.Progress.Log(progress.DBLoaded)

	query := db.MinGDPQuery(cfg.TableName, cfg.Query.MinGDPBillions)
	matches, err := RunQuery(ctx, database, query, p.Report)
	if err != nil {
		return nil, err
	}
	p.Progress.Log(progress.Complete)

	return &Result{
		Extracted: len(raw),
		Countries: countries,
		Query:     query,
		Matches:   matches,
	}, nil
}

func (p *Pipeline) extract(ctx context.Context) ([]models.RawCountry, error) {
	markup, err := p.Source.GetHtmlBytes(ctx, p.Config.URL)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("page fetched", "url", p.Config.URL, "bytes", len(markup))

	raw, err := p.Parser.Extract(markup)
	if err != nil {
		return nil, fmt.Errorf("extraction from %s failed: %w", p.Config.URL, err)
	}
	return raw, nil
}
