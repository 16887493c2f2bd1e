package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the usage journal schema.
const Schema = `
-- Usage records table
CREATE TABLE IF NOT EXISTS usage_records (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    client_key TEXT NOT NULL,

    -- Provider
    tier TEXT NOT NULL,
    model TEXT NOT NULL,
    outcome TEXT NOT NULL,

    -- Story parameters
    age_tier TEXT,
    minutes INTEGER,

    -- Usage and cost
    tokens_used INTEGER NOT NULL DEFAULT 0,
    estimated_cost REAL NOT NULL DEFAULT 0,
    actual_cost REAL NOT NULL DEFAULT 0,

    -- Timing (milliseconds)
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,

    error TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_usage_created_at ON usage_records(created_at);
CREATE INDEX IF NOT EXISTS idx_usage_client_key ON usage_records(client_key);
CREATE INDEX IF NOT EXISTS idx_usage_tier ON usage_records(tier);
CREATE INDEX IF NOT EXISTS idx_usage_outcome ON usage_records(outcome);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO usage_records (
    id, request_id, client_key,
    tier, model, outcome,
    age_tier, minutes,
    tokens_used, estimated_cost, actual_cost,
    duration_ms, created_at,
    error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
    id, request_id, client_key,
    tier, model, outcome,
    age_tier, minutes,
    tokens_used, estimated_cost, actual_cost,
    duration_ms, created_at,
    error
`

const selectTotals = `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN outcome = 'success' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN outcome = 'success' THEN 0 ELSE 1 END), 0),
    COALESCE(SUM(tokens_used), 0),
    COALESCE(SUM(estimated_cost), 0.0),
    COALESCE(SUM(actual_cost), 0.0)
FROM usage_records
`
