package etl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the structured stderr logger used by every command.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig returns the compiled-in defaults, overlaid by --config when given.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	if c.IsSet("config") {
		return models.LoadConfig(c.String("config"))
	}

	cfg := models.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunAction runs the full pipeline once.
func RunAction(c *cli.Context) error {
	logger := NewLogger(c)

	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	progressLog := OpenProgress(cfg.LogPath, logger)
	defer func() {
		if err := progressLog.Close(); err != nil {
			logger.Warn("failed to close progress log", "path", cfg.LogPath, "error", err)
		}
	}()

	pipeline, err := NewPipeline(cfg, logger, progressLog, c.App.Writer)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(c.Context)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	logger.Info("pipeline finished",
		"extracted", result.Extracted,
		"loaded", len(result.Countries),
		"matches", len(result.Matches),
		"csv", cfg.CSVPath,
		"db", cfg.DBPath,
		"table", cfg.TableName,
	)
	return nil
}
