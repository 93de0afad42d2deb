package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Run represents one scrape run
type Run struct {
	RunID         int64
	StartedAt     time.Time
	FinishedAt    *time.Time
	IndexURL      string
	OutputFile    string
	Status        string
	CategoryCount int
	MealCount     int
	WarningCount  int
	ErrorMessage  string
}

// RunCategory is one category a run turned into a sheet.
type RunCategory struct {
	Position  int
	Title     string
	URL       string
	MealCount int
}

// RunWarning is a data-quality diagnostic raised during a run.
type RunWarning struct {
	Category string
	Message  string
}

// StartRun records a new run in the running state and returns its id.
func (db *DB) StartRun(indexURL, outputFile string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (index_url, output_file, status)
		VALUES (?, ?, ?)
	`, indexURL, outputFile, RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// CompleteRun stores the categories and warnings of a successful run.
func (db *DB) CompleteRun(runID int64, categories []RunCategory, warnings []RunWarning) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meals := 0
	for _, c := range categories {
		meals += c.MealCount
		if _, err := tx.Exec(`
			INSERT INTO run_categories (run_id, position, title, url, meal_count)
			VALUES (?, ?, ?, ?, ?)
		`, runID, c.Position, c.Title, c.URL, c.MealCount); err != nil {
			return fmt.Errorf("failed to insert run category: %w", err)
		}
	}
	for _, w := range warnings {
		if _, err := tx.Exec(`
			INSERT INTO run_warnings (run_id, category, message)
			VALUES (?, ?, ?)
		`, runID, w.Category, w.Message); err != nil {
			return fmt.Errorf("failed to insert run warning: %w", err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE runs
		SET status = ?, finished_at = CURRENT_TIMESTAMP,
		    category_count = ?, meal_count = ?, warning_count = ?
		WHERE run_id = ?
	`, RunStatusSuccess, len(categories), meals, len(warnings), runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return tx.Commit()
}

// FailRun marks a run failed with the error that aborted it.
func (db *DB) FailRun(runID int64, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := db.Exec(`
		UPDATE runs
		SET status = ?, finished_at = CURRENT_TIMESTAMP, error_message = ?
		WHERE run_id = ?
	`, RunStatusFailed, msg, runID)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var (
		r        Run
		finished sql.NullTime
		errMsg   sql.NullString
	)
	if err := row.Scan(
		&r.RunID,
		&r.StartedAt,
		&finished,
		&r.IndexURL,
		&r.OutputFile,
		&r.Status,
		&r.CategoryCount,
		&r.MealCount,
		&r.WarningCount,
		&errMsg,
	); err != nil {
		return nil, err
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	r.ErrorMessage = errMsg.String
	return &r, nil
}

const runColumns = `run_id, started_at, finished_at, index_url, output_file, status,
	category_count, meal_count, warning_count, error_message`

// GetRun retrieves a run by its ID
func (db *DB) GetRun(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunCategories returns a run's categories in sheet order.
func (db *DB) GetRunCategories(runID int64) ([]RunCategory, error) {
	rows, err := db.Query(`
		SELECT position, title, url, meal_count
		FROM run_categories
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run categories: %w", err)
	}
	defer rows.Close()

	var categories []RunCategory
	for rows.Next() {
		var c RunCategory
		if err := rows.Scan(&c.Position, &c.Title, &c.URL, &c.MealCount); err != nil {
			return nil, fmt.Errorf("failed to scan run category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetRunWarnings returns a run's warnings in the order they were raised.
func (db *DB) GetRunWarnings(runID int64) ([]RunWarning, error) {
	rows, err := db.Query(`
		SELECT COALESCE(category, ''), message
		FROM run_warnings
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run warnings: %w", err)
	}
	defer rows.Close()

	var warnings []RunWarning
	for rows.Next() {
		var w RunWarning
		if err := rows.Scan(&w.Category, &w.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}
