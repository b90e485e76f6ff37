package db

// created_at is stored as fixed-width UTC text (see timeLayout) so that
// string comparison orders rows chronologically.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

-- Runs: one row per completed analysis. Metadata only; ranked words are never stored.
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    source TEXT NOT NULL,          -- text, file, url, http
    source_ref TEXT,               -- file path or URL
    n INTEGER NOT NULL,
    total_tokens INTEGER NOT NULL DEFAULT 0,
    distinct_tokens INTEGER NOT NULL DEFAULT 0,
    returned INTEGER NOT NULL DEFAULT 0,
    content_hash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);
`
