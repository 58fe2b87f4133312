package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/gdp-etl/internal/db"
	"github.com/dtnitsch/gdp-etl/internal/etl"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("gdp-etl failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML file overriding the built-in defaults (url, paths, table, selector)",
	}
}

func quietFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Only log errors to stderr",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gdp-etl",
		Usage: "Scrape the countries-by-GDP table into CSV and SQLite",
		Flags: []cli.Flag{configFlag(), quietFlag()},
		// Bare invocation runs the pipeline.
		Action: etl.RunAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch, extract, transform, load and query once",
				Flags:  []cli.Flag{configFlag(), quietFlag()},
				Action: etl.RunAction,
			},
			{
				Name:  "query",
				Usage: "Print countries at or above a GDP threshold from an existing database",
				Flags: []cli.Flag{
					configFlag(),
					quietFlag(),
					&cli.Float64Flag{
						Name:  "min",
						Usage: "Minimum GDP in USD billions (default from config: 100)",
					},
				},
				Action: db.QueryAction,
			},
		},
	}
}
