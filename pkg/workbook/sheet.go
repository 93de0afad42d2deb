// Package workbook assembles meal records into formatted sheets and writes
// them out as an xlsx workbook.
package workbook

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dtnitsch/lne-nutrition/models"
)

// Sheet is one category's worth of rows, laid out against Header.
// Rows hold string or float64 cells; "" renders as a blank cell.
type Sheet struct {
	Name    string
	Header  []string // lookup labels
	Display []string // header text as written
	Rows    [][]any

	// Filled by the cross-sheet pass
	ColumnWidths []float64
	HiddenColumn *int
}

// Assembler turns normalized records into sheets using the configured
// header contract and formatting rules.
type Assembler struct {
	cfg models.Config
}

// NewAssembler creates an Assembler for cfg.
func NewAssembler(cfg models.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// BuildSheet lays records out under the header row in extraction order.
// Every header label is looked up by key on each record. The returned
// warnings flag records whose nutrient labels differ in set or order from
// the sheet's first record, and nutrient labels no header column carries.
func (a *Assembler) BuildSheet(page models.CategoryPage, records []models.MealRecord) (*Sheet, []string) {
	header := slices.Clone(a.cfg.Headers)
	display := slices.Clone(header)
	for i, label := range header {
		if label == models.LabelSodium && a.cfg.SodiumHeader != "" {
			display[i] = a.cfg.SodiumHeader
		}
	}

	sheet := &Sheet{
		Name:    page.Title,
		Header:  header,
		Display: display,
		Rows:    make([][]any, 0, len(records)),
	}

	var warnings []string
	var contract []string
	for i, rec := range records {
		labels := rec.Nutrients.Labels()
		if i == 0 {
			contract = labels
		} else if !slices.Equal(labels, contract) {
			warnings = append(warnings, fmt.Sprintf("row %d (%q): nutrient labels %v differ from first row %v",
				i+1, rec.Name, labels, contract))
		}
		for _, label := range labels {
			if !slices.Contains(header, label) {
				warnings = append(warnings, fmt.Sprintf("row %d (%q): nutrient %q has no column, value dropped",
					i+1, rec.Name, label))
			}
		}

		sheet.Rows = append(sheet.Rows, a.row(rec, header))
	}

	if a.cfg.HideItemNumberIn != "" && strings.Contains(page.Title, a.cfg.HideItemNumberIn) {
		first := 0
		sheet.HiddenColumn = &first
	}

	return sheet, warnings
}

func (a *Assembler) row(rec models.MealRecord, header []string) []any {
	row := make([]any, len(header))
	for i, label := range header {
		value, ok := rec.Field(label)
		if !ok {
			row[i] = ""
			continue
		}
		row[i] = value
		if label == models.LabelSodium && a.cfg.NumericSodiumCells {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				row[i] = n
			}
		}
	}
	return row
}

// ColumnIndex returns the position of the column whose display header is
// label, or -1.
func (s *Sheet) ColumnIndex(label string) int {
	return slices.Index(s.Display, label)
}
