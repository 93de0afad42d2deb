package scrape

import (
	"fmt"
	"log/slog"

	"github.com/dtnitsch/lne-nutrition/internal/common"
	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/dtnitsch/lne-nutrition/pkg/db"
	"github.com/dtnitsch/lne-nutrition/pkg/manifest"
	"github.com/dtnitsch/lne-nutrition/pkg/storage"
	"github.com/dtnitsch/lne-nutrition/pkg/workbook"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// ScrapeAction runs the full pipeline and writes the workbook. Nothing is
// written unless every category was fetched and extracted.
func ScrapeAction(c *cli.Context) error {
	logger := NewLogger(c)

	cfg, err := ConfigFromContext(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	f, err := NewFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}

	history, err := openHistory(c, cfg)
	if err != nil {
		return err
	}
	var runID int64
	if history != nil {
		defer history.Close()
		runID, err = history.StartRun(cfg.IndexURL, cfg.OutputFile)
		if err != nil {
			return err
		}
	}

	result, err := runAndSave(c, cfg, f, logger)
	if err != nil {
		if history != nil {
			if dbErr := history.FailRun(runID, err); dbErr != nil {
				logger.Warn("failed to record run failure", "error", dbErr)
			}
		}
		return err
	}

	if history != nil {
		if err := history.CompleteRun(runID, runCategories(result), runWarnings(result)); err != nil {
			logger.Warn("failed to record run", "error", err, "run_id", runID)
		}
	}

	if cfg.SummaryFile != "" {
		if err := manifest.GenerateSummary(buildManifest(cfg, result), cfg.SummaryFile, &storage.Storage{}); err != nil {
			return err
		}
		logger.Info("summary written", "path", cfg.SummaryFile)
	}

	meals := 0
	for _, cat := range result.Categories {
		meals += len(cat.Records)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d sheets (%d meals) to %s\n", len(result.Workbook.Sheets), meals, cfg.OutputFile)
	if len(result.Warnings) > 0 {
		fmt.Fprintf(c.App.Writer, "%d warning(s), see log output\n", len(result.Warnings))
	}
	return nil
}

func runAndSave(c *cli.Context, cfg models.Config, f DocumentFetcher, logger *slog.Logger) (*Result, error) {
	result, err := NewPipeline(cfg, f, logger).Run(c.Context)
	if err != nil {
		return nil, err
	}
	s := &storage.Storage{}
	if err := result.Workbook.Save(cfg.OutputFile, s); err != nil {
		return nil, err
	}
	stats, err := s.GetFileStats(cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	result.OutputBytes = stats.SizeBytes
	logger.Info("workbook written", "path", cfg.OutputFile, "sheets", len(result.Workbook.Sheets), "bytes", stats.SizeBytes)
	return result, nil
}

// DiscoverAction prints the category pages linked from the index.
func DiscoverAction(c *cli.Context) error {
	logger := NewLogger(c)

	cfg, err := ConfigFromContext(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	f, err := NewFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize fetcher: %w", err)
	}

	pages, warnings, err := NewPipeline(cfg, f, logger).Discover(c.Context)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w.Message)
	}

	t := common.NewTable(c.App.Writer)
	t.AppendHeader(table.Row{"#", "Title", "URL"})
	for i, p := range pages {
		t.AppendRow(table.Row{i + 1, p.Title, p.URL})
	}
	t.Render()
	return nil
}

func openHistory(c *cli.Context, cfg models.Config) (*db.DB, error) {
	if c.Bool("no-history") {
		return nil, nil
	}
	path := cfg.HistoryDB
	if path == "" {
		var err error
		if path, err = db.DefaultPath(); err != nil {
			return nil, err
		}
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return database, nil
}

func runCategories(result *Result) []db.RunCategory {
	urls := make(map[string]string, len(result.Categories))
	counts := make(map[string]int, len(result.Categories))
	for _, c := range result.Categories {
		urls[c.SheetName] = c.FetchURL
		counts[c.SheetName] = len(c.Records)
	}

	categories := make([]db.RunCategory, 0, len(result.Workbook.Sheets))
	for i, s := range result.Workbook.Sheets {
		categories = append(categories, db.RunCategory{
			Position:  i,
			Title:     s.Name,
			URL:       urls[s.Name],
			MealCount: counts[s.Name],
		})
	}
	return categories
}

func runWarnings(result *Result) []db.RunWarning {
	warnings := make([]db.RunWarning, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = db.RunWarning{Category: w.Category, Message: w.Message}
	}
	return warnings
}

func buildManifest(cfg models.Config, result *Result) manifest.RunManifest {
	m := manifest.RunManifest{
		IndexURL:        cfg.IndexURL,
		OutputFile:      cfg.OutputFile,
		OutputSizeBytes: result.OutputBytes,
	}
	for _, c := range runCategories(result) {
		summary := manifest.SheetSummary{Name: c.Title, URL: c.URL, Meals: c.MealCount}
		if s, ok := result.Workbook.Sheet(c.Title); ok && s.HiddenColumn != nil {
			summary.HiddenColumn = workbook.ColumnName(*s.HiddenColumn)
		}
		m.Sheets = append(m.Sheets, summary)
	}
	for _, w := range result.Warnings {
		m.Warnings = append(m.Warnings, manifest.WarningSummary{Category: w.Category, Message: w.Message})
	}
	return m
}
