// Package models defines the records, configuration and errors shared by the pipeline stages.
package models

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/gdp-etl/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	DefaultURL       = "https://web.archive.org/web/20230902185326/https://en.wikipedia.org/wiki/List_of_countries_by_GDP_%28nominal%29"
	DefaultDBPath    = "World_Economies.db"
	DefaultTableName = "Countries_by_GDP"
	DefaultCSVPath   = "./Countries_by_GDP.csv"
	DefaultLogPath   = "./etl_project_log.txt"

	// DefaultBodyIndex selects the third tbody of the page. The GDP table sits
	// behind two layout tables on the archived snapshot.
	DefaultBodyIndex = 2

	DefaultMinGDPBillions = 100.0
	DefaultTimeout        = 30 * time.Second
)

// Config holds everything a pipeline run needs. Defaults are compiled in and
// a YAML file may overlay any subset of fields.
type Config struct {
	URL       string        `yaml:"url"`
	CSVPath   string        `yaml:"csv_path"`
	DBPath    string        `yaml:"db_path"`
	TableName string        `yaml:"table_name"`
	LogPath   string        `yaml:"log_path"`
	Timeout   time.Duration `yaml:"timeout"`

	Table TableConfig `yaml:"table"`
	Query QueryConfig `yaml:"query"`

	// Page cache, disabled when CacheDir is empty.
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// TableConfig picks the table body to extract. CSS wins over BodyIndex when set.
type TableConfig struct {
	BodyIndex int    `yaml:"body_index"`
	CSS       string `yaml:"css"`
}

type QueryConfig struct {
	MinGDPBillions float64 `yaml:"min_gdp_billions"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:       DefaultURL,
		CSVPath:   DefaultCSVPath,
		DBPath:    DefaultDBPath,
		TableName: DefaultTableName,
		LogPath:   DefaultLogPath,
		Timeout:   DefaultTimeout,
		Table: TableConfig{
			BodyIndex: DefaultBodyIndex,
		},
		Query: QueryConfig{
			MinGDPBillions: DefaultMinGDPBillions,
		},
		CacheTTL: 24 * time.Hour,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrConfig, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %w", ErrConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the source URL and checks required fields.
func (c *Config) Validate() error {
	cleaned, err := common.ValidateURL(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	c.URL = cleaned

	switch {
	case c.CSVPath == "":
		return fmt.Errorf("%w: csv_path is required", ErrConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path is required", ErrConfig)
	case c.TableName == "":
		return fmt.Errorf("%w: table_name is required", ErrConfig)
	case c.LogPath == "":
		return fmt.Errorf("%w: log_path is required", ErrConfig)
	case c.Table.BodyIndex < 0:
		return fmt.Errorf("%w: table.body_index must be >= 0, got %d", ErrConfig, c.Table.BodyIndex)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative", ErrConfig)
	case c.CacheDir != "" && c.CacheTTL <= 0:
		return fmt.Errorf("%w: cache_ttl must be positive when cache_dir is set", ErrConfig)
	}
	return nil
}
