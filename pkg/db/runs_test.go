package db

import (
	"errors"
	"reflect"
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestStartRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.StartRun("https://example.com/index", "out.xlsx")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("StartRun() returned 0 ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusRunning {
		t.Errorf("run.Status = %q, want %q", run.Status, RunStatusRunning)
	}
	if run.IndexURL != "https://example.com/index" || run.OutputFile != "out.xlsx" {
		t.Errorf("run = %+v", run)
	}
	if run.FinishedAt != nil {
		t.Errorf("run.FinishedAt = %v, want nil", run.FinishedAt)
	}
	if run.StartedAt.IsZero() {
		t.Error("run.StartedAt is zero")
	}
}

func TestCompleteRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.StartRun("https://example.com/index", "out.xlsx")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	categories := []RunCategory{
		{Position: 0, Title: "Dinners", URL: "https://example.com/d.html", MealCount: 40},
		{Position: 1, Title: "Lunches", URL: "https://example.com/l.html", MealCount: 25},
	}
	warnings := []RunWarning{
		{Category: "Lunches", Message: "row 3: nutrient labels differ"},
		{Message: "duplicate link /d.html"},
	}
	if err := db.CompleteRun(runID, categories, warnings); err != nil {
		t.Fatalf("CompleteRun() error = %v", err)
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusSuccess {
		t.Errorf("run.Status = %q, want success", run.Status)
	}
	if run.CategoryCount != 2 || run.MealCount != 65 || run.WarningCount != 2 {
		t.Errorf("run counts = %d/%d/%d, want 2/65/2", run.CategoryCount, run.MealCount, run.WarningCount)
	}
	if run.FinishedAt == nil {
		t.Error("run.FinishedAt is nil after completion")
	}

	gotCategories, err := db.GetRunCategories(runID)
	if err != nil {
		t.Fatalf("GetRunCategories() error = %v", err)
	}
	if !reflect.DeepEqual(gotCategories, categories) {
		t.Errorf("GetRunCategories() = %+v, want %+v", gotCategories, categories)
	}

	gotWarnings, err := db.GetRunWarnings(runID)
	if err != nil {
		t.Fatalf("GetRunWarnings() error = %v", err)
	}
	if !reflect.DeepEqual(gotWarnings, warnings) {
		t.Errorf("GetRunWarnings() = %+v, want %+v", gotWarnings, warnings)
	}
}

func TestFailRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.StartRun("https://example.com/index", "out.xlsx")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if err := db.FailRun(runID, errors.New("index fetch failed")); err != nil {
		t.Fatalf("FailRun() error = %v", err)
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusFailed {
		t.Errorf("run.Status = %q, want failed", run.Status)
	}
	if run.ErrorMessage != "index fetch failed" {
		t.Errorf("run.ErrorMessage = %q", run.ErrorMessage)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := db.StartRun("https://example.com/index", "out.xlsx")
		if err != nil {
			t.Fatalf("StartRun() error = %v", err)
		}
		ids = append(ids, id)
	}

	tests := []struct {
		name  string
		limit int
		want  []int64
	}{
		{name: "limited", limit: 2, want: []int64{ids[2], ids[1]}},
		{name: "all", limit: 10, want: []int64{ids[2], ids[1], ids[0]}},
		{name: "default limit", limit: 0, want: []int64{ids[2], ids[1], ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := db.ListRuns(tt.limit)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			var got []int64
			for _, r := range runs {
				got = append(got, r.RunID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListRuns(%d) ids = %v, want %v", tt.limit, got, tt.want)
			}
		})
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun(999); err == nil {
		t.Error("GetRun() error = nil, want not found")
	}
}
