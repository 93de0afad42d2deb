package manifest

// RunManifest is the YAML summary written next to the workbook. It lets a
// reader see what a run produced without opening the spreadsheet.
type RunManifest struct {
	GeneratedAt     string           `yaml:"generated_at"`
	IndexURL        string           `yaml:"index_url"`
	OutputFile      string           `yaml:"output_file"`
	OutputSizeBytes int64            `yaml:"output_size_bytes,omitempty"`
	TotalMeals      int              `yaml:"total_meals"`
	Sheets          []SheetSummary   `yaml:"sheets"`
	Warnings        []WarningSummary `yaml:"warnings,omitempty"`
}

// SheetSummary describes one sheet in final workbook order.
type SheetSummary struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Meals        int    `yaml:"meals"`
	HiddenColumn string `yaml:"hidden_column,omitempty"`
}

type WarningSummary struct {
	Category string `yaml:"category,omitempty"`
	Message  string `yaml:"message"`
}
