package history

import (
	"fmt"

	"github.com/dtnitsch/lne-nutrition/internal/common"
	dbpkg "github.com/dtnitsch/lne-nutrition/pkg/db"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

func openDB(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		var err error
		if path, err = dbpkg.DefaultPath(); err != nil {
			return nil, err
		}
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RunsAction lists recent scrape runs.
func RunsAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	t := common.NewTable(w)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Sheets", "Meals", "Warnings", "Output"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Status,
			r.CategoryCount,
			r.MealCount,
			r.WarningCount,
			r.OutputFile,
		})
	}
	t.Render()
	return nil
}

// ShowAction prints one run's sheets and warnings.
func ShowAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("run ID required")
	}
	var runID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
		return fmt.Errorf("invalid run ID: %s", c.Args().First())
	}

	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	categories, err := database.GetRunCategories(runID)
	if err != nil {
		return err
	}
	warnings, err := database.GetRunWarnings(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d: %s\n", run.RunID, run.Status)
	fmt.Fprintf(w, "  Index:  %s\n", run.IndexURL)
	fmt.Fprintf(w, "  Output: %s\n", run.OutputFile)
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "  Error:  %s\n", run.ErrorMessage)
	}
	if len(categories) > 0 {
		fmt.Fprintln(w, "\nSheets:")
		t := common.NewTable(w)
		t.AppendHeader(table.Row{"#", "Sheet", "Meals", "URL"})
		for _, cat := range categories {
			t.AppendRow(table.Row{cat.Position + 1, cat.Title, cat.MealCount, cat.URL})
		}
		t.Render()
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range warnings {
			if warn.Category != "" {
				fmt.Fprintf(w, "  [%s] %s\n", warn.Category, warn.Message)
				continue
			}
			fmt.Fprintf(w, "  %s\n", warn.Message)
		}
	}
	return nil
}
