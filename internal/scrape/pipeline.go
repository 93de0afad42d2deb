package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/dtnitsch/lne-nutrition/pkg/discover"
	"github.com/dtnitsch/lne-nutrition/pkg/extractor"
	"github.com/dtnitsch/lne-nutrition/pkg/normalize"
	"github.com/dtnitsch/lne-nutrition/pkg/workbook"
)

// DocumentFetcher returns the parsed page at url.
type DocumentFetcher interface {
	GetHtml(ctx context.Context, url string) (*goquery.Document, error)
}

// Warning is a data-quality diagnostic; Category is empty for index-level ones.
type Warning struct {
	Category string
	Message  string
}

// CategoryResult holds one category page's normalized records.
type CategoryResult struct {
	Page      models.CategoryPage
	FetchURL  string
	SheetName string // differs from Page.Title when the title was taken
	Records   []models.MealRecord
	Warnings  []string
}

// Result is everything a run produced, ready to be saved.
type Result struct {
	Categories  []CategoryResult // discovery order
	Workbook    *workbook.Workbook
	Warnings    []Warning
	OutputBytes int64 // size of the saved workbook, set once written
}

type Pipeline struct {
	cfg     models.Config
	fetcher DocumentFetcher
	logger  *slog.Logger
}

func NewPipeline(cfg models.Config, f DocumentFetcher, logger *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: f, logger: logger}
}

// Discover fetches the index page and returns its category pages.
func (p *Pipeline) Discover(ctx context.Context) ([]models.CategoryPage, []Warning, error) {
	doc, err := p.fetcher.GetHtml(ctx, p.cfg.IndexURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch index %s: %w", p.cfg.IndexURL, err)
	}

	pages := discover.Discover(doc)
	p.logger.Info("discovered categories", "count", len(pages), "index", p.cfg.IndexURL)

	var warnings []Warning
	titles, urls := discover.Duplicates(pages)
	for _, t := range titles {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("category title %q linked more than once", t)})
	}
	for _, u := range urls {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("category link %s appears more than once", u)})
	}
	return pages, warnings, nil
}

// Run discovers and extracts every category, then builds and finalizes the
// workbook. Any fetch or extraction failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	pages, warnings, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := p.processCategories(ctx, pages)
	if err != nil {
		return nil, err
	}

	assembler := workbook.NewAssembler(p.cfg)
	wb := workbook.New(p.cfg)
	for i := range categories {
		c := &categories[i]
		for _, w := range c.Warnings {
			warnings = append(warnings, Warning{Category: c.Page.Title, Message: w})
		}

		sheet, sheetWarnings := assembler.BuildSheet(c.Page, c.Records)
		for _, w := range sheetWarnings {
			warnings = append(warnings, Warning{Category: c.Page.Title, Message: w})
		}
		if w := wb.Add(sheet); w != "" {
			warnings = append(warnings, Warning{Category: c.Page.Title, Message: w})
		}
		c.SheetName = sheet.Name
	}
	wb.Finalize()

	for _, w := range warnings {
		p.logger.Warn(w.Message, "category", w.Category)
	}

	return &Result{Categories: categories, Workbook: wb, Warnings: warnings}, nil
}

// processCategory fetches one category page and returns its normalized records.
func (p *Pipeline) processCategory(ctx context.Context, page models.CategoryPage) (CategoryResult, error) {
	result := CategoryResult{Page: page}

	fetchURL, err := p.resolve(page.URL)
	if err != nil {
		return result, err
	}
	result.FetchURL = fetchURL

	doc, err := p.fetcher.GetHtml(ctx, fetchURL)
	if err != nil {
		return result, fmt.Errorf("failed to fetch category %q: %w", page.Title, err)
	}

	records, warnings, err := extractor.Extract(doc)
	if err != nil {
		return result, fmt.Errorf("failed to extract category %q from %s: %w", page.Title, fetchURL, err)
	}
	result.Records = normalize.All(records)
	result.Warnings = warnings

	p.logger.Info("extracted category", "category", page.Title, "url", fetchURL, "meals", len(records))
	return result, nil
}

// resolve turns a discovered href into an absolute URL against the index.
func (p *Pipeline) resolve(href string) (string, error) {
	base, err := url.Parse(p.cfg.IndexURL)
	if err != nil {
		return "", fmt.Errorf("invalid index URL %q: %w", p.cfg.IndexURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid category link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
