package workbook

import (
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/dtnitsch/lne-nutrition/models"
)

// widthPadding is added to the longest content of a column when autosizing.
const widthPadding = 2

// Workbook is the ordered set of sheets for one run.
type Workbook struct {
	cfg    models.Config
	Sheets []*Sheet
}

// New creates an empty workbook that applies cfg's cross-sheet rules.
func New(cfg models.Config) *Workbook {
	return &Workbook{cfg: cfg}
}

// Add appends s. A name that is already taken gets the first free numeric
// suffix ("Dinners1", "Dinners2", ...) so both categories keep their rows;
// the returned warning names the sheet s was renamed to.
func (w *Workbook) Add(s *Sheet) (warning string) {
	if _, taken := w.Sheet(s.Name); taken {
		base := s.Name
		for n := 1; ; n++ {
			name := base + strconv.Itoa(n)
			if _, taken := w.Sheet(name); !taken {
				s.Name = name
				break
			}
		}
		warning = fmt.Sprintf("duplicate sheet name %q, written as %q", base, s.Name)
	}
	w.Sheets = append(w.Sheets, s)
	return warning
}

// Sheet returns the sheet called name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Finalize runs the cross-sheet pass once every sheet has been added:
// the configured first sheet moves to the front, then every column is sized
// to its content and the wide columns get their fixed width.
func (w *Workbook) Finalize() {
	w.moveFirst(w.cfg.FirstSheet)
	for _, s := range w.Sheets {
		s.ColumnWidths = autosize(s)
		for _, label := range w.cfg.WideColumns {
			if i := s.ColumnIndex(label); i >= 0 {
				s.ColumnWidths[i] = w.cfg.WideColumnWidth
			}
		}
	}
}

func (w *Workbook) moveFirst(name string) {
	if name == "" {
		return
	}
	i := slices.IndexFunc(w.Sheets, func(s *Sheet) bool { return s.Name == name })
	if i <= 0 {
		return
	}
	s := w.Sheets[i]
	w.Sheets = slices.Delete(w.Sheets, i, i+1)
	w.Sheets = slices.Insert(w.Sheets, 0, s)
}

func autosize(s *Sheet) []float64 {
	widths := make([]float64, len(s.Display))
	for i, h := range s.Display {
		widths[i] = float64(utf8.RuneCountInString(h))
	}
	for _, row := range s.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if n := float64(utf8.RuneCountInString(cellText(cell))); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		widths[i] += widthPadding
	}
	return widths
}

func cellText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
