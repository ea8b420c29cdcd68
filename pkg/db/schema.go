package db

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid TEXT NOT NULL UNIQUE,
    started_at TEXT NOT NULL,
    timezone TEXT NOT NULL,
    base_url TEXT NOT NULL DEFAULT '',
    allowed_window INTEGER NOT NULL DEFAULT 0,
    bucket_60 INTEGER NOT NULL DEFAULT 0,
    bucket_90 INTEGER NOT NULL DEFAULT 0,
    bucket_120 INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    threshold INTEGER NOT NULL DEFAULT 0,
    alert_triggered INTEGER NOT NULL DEFAULT 0,
    rows_seen INTEGER NOT NULL DEFAULT 0,
    studies_considered INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS run_rows (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    bucket TEXT NOT NULL,
    age_minutes INTEGER NOT NULL,
    mentions INTEGER NOT NULL,
    study_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deliveries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    recipient TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    delivered INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_run_rows_run ON run_rows(run_id);
CREATE INDEX IF NOT EXISTS idx_deliveries_run ON deliveries(run_id);
`
