// Package models defines data structures for configuration and scraped records.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIndexURL   = "https://www.liteneasy.com.au/ingredients-nutrition"
	DefaultOutputFile = "Lite-N-Easy.xlsx"
	DefaultUserAgent  = "Mozilla/5.0 (compatible; lne-nutrition/1.0)"
)

// Canonical header labels. The sheet assembler looks record fields up by
// these exact strings, so relabeling is done at render time only.
const (
	LabelItemNumber  = "Item No."
	LabelName        = "Name"
	LabelServingSize = "Serving size"
	LabelSodium      = "Sodium"
	LabelIngredients = "Ingredients"
)

// DefaultHeaders is the column contract written to every sheet.
var DefaultHeaders = []string{
	LabelItemNumber, LabelName, LabelServingSize, "Energy", "Protein", "Fat, Total",
	"Saturated Fat", "Carbohydrate", "Sugars", "Fibre", LabelSodium, LabelIngredients,
}

// Config holds runtime configuration for a scrape run.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	IndexURL   string        `yaml:"index_url"`
	OutputFile string        `yaml:"output_file"`
	Headers    []string      `yaml:"headers"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"`
	Workers    int           `yaml:"workers"`

	// Sheet formatting rules
	SodiumHeader       string   `yaml:"sodium_header"`
	WideColumns        []string `yaml:"wide_columns"`
	WideColumnWidth    float64  `yaml:"wide_column_width"`
	HideItemNumberIn   string   `yaml:"hide_item_number_in"`
	FirstSheet         string   `yaml:"first_sheet"`
	NumericSodiumCells bool     `yaml:"numeric_sodium_cells"`

	// Fetch cache, disabled when CacheDir is empty
	CacheDir string        `yaml:"cache_dir"`
	MaxAge   time.Duration `yaml:"max_age"`

	// Run history database, disabled when HistoryDB is empty
	HistoryDB   string `yaml:"history_db"`
	SummaryFile string `yaml:"summary_file"`
}

// DefaultConfig returns the configuration matching the site's published layout.
func DefaultConfig() Config {
	headers := make([]string, len(DefaultHeaders))
	copy(headers, DefaultHeaders)
	return Config{
		IndexURL:           DefaultIndexURL,
		OutputFile:         DefaultOutputFile,
		Headers:            headers,
		UserAgent:          DefaultUserAgent,
		Timeout:            30 * time.Second,
		Workers:            1,
		SodiumHeader:       LabelSodium + " (mg)",
		WideColumns:        []string{LabelName, LabelIngredients},
		WideColumnWidth:    30,
		HideItemNumberIn:   "Lunches",
		FirstSheet:         "Dinners",
		NumericSodiumCells: true,
		MaxAge:             24 * time.Hour,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration values no run can proceed with.
func (c Config) Validate() error {
	if c.IndexURL == "" {
		return fmt.Errorf("index_url is required")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	if len(c.Headers) == 0 {
		return fmt.Errorf("headers must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
