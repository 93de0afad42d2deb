package workbook

import (
	"fmt"

	"github.com/dtnitsch/lne-nutrition/pkg/storage"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// Save deletes any file already at path and writes the workbook there.
// Sheets are written in their current order; call Finalize first.
func (w *Workbook) Save(path string, s *storage.Storage) error {
	return s.Replace(path, func(path string) error {
		f, err := w.render()
		if err != nil {
			return err
		}
		defer f.Close()

		if err := f.SaveAs(path); err != nil {
			return fmt.Errorf("failed to write workbook %s: %w", path, err)
		}
		return nil
	})
}

func (w *Workbook) render() (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	keepDefault := len(w.Sheets) == 0
	for _, s := range w.Sheets {
		if s.Name == defaultSheet {
			keepDefault = true
		}
		if err := writeSheet(f, s, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if len(w.Sheets) > 0 {
		idx, err := f.GetSheetIndex(w.Sheets[0].Name)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, s *Sheet, headerStyle int) error {
	if _, err := f.NewSheet(s.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := make([]any, len(s.Display))
	for i, h := range s.Display {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	for i, width := range s.ColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.Name, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if s.HiddenColumn != nil {
		col, err := excelize.ColumnNumberToName(*s.HiddenColumn + 1)
		if err != nil {
			return err
		}
		if err := f.SetColVisible(s.Name, col, false); err != nil {
			return fmt.Errorf("failed to hide column %s: %w", col, err)
		}
	}
	return nil
}

// ColumnName converts a zero-based column index to its letter name.
func ColumnName(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err != nil {
		return ""
	}
	return name
}
