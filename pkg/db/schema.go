package db

const schema = `
PRAGMA foreign_keys = ON;

-- One row per scrape run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    index_url TEXT NOT NULL,
    output_file TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'running',  -- running, success, failed
    category_count INTEGER DEFAULT 0,
    meal_count INTEGER DEFAULT 0,
    warning_count INTEGER DEFAULT 0,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

-- Categories visited by a run, in final sheet order
CREATE TABLE IF NOT EXISTS run_categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    meal_count INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_categories_run ON run_categories(run_id);

-- Data-quality warnings raised during a run
CREATE TABLE IF NOT EXISTS run_warnings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    category TEXT,
    message TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_warnings_run ON run_warnings(run_id);
`
