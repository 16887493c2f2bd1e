package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// Driver names registered by the imported SQLite packages.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite
	DriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite" or "sqlite3".
	// Default: "sqlite"
	Driver string

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/usage.db",
		Driver:      DriverModernc,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements usage.Storage using SQLite.
type SQLiteStorage struct {
	db         *sql.DB
	config     *SQLiteConfig
	insertStmt *sql.Stmt
	logger     *slog.Logger
}

// NewSQLiteStorage opens (creating if needed) the database file and
// initializes the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverCGO {
		return nil, usage.NewStorageError("sqlite", "open",
			fmt.Errorf("unsupported driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "usage.storage.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, usage.NewStorageError("sqlite", "mkdir", err)
		}
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, usage.NewStorageError("sqlite", "open", err)
	}

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets pragmas, creates the schema and prepares statements.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return usage.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return usage.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return usage.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return usage.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return usage.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return usage.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	stmt, err := s.db.Prepare(insertRecord)
	if err != nil {
		return usage.NewStorageError("sqlite", "prepare", err)
	}
	s.insertStmt = stmt

	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *usage.Record) error {
	var errorVal any
	if record.Error != "" {
		errorVal = record.Error
	}

	_, err := s.insertStmt.ExecContext(ctx,
		record.ID, record.RequestID, record.ClientKey,
		record.Tier, record.Model, string(record.Outcome),
		record.AgeTier, record.Minutes,
		record.TokensUsed, record.EstimatedCost, record.ActualCost,
		record.Duration.Milliseconds(), record.CreatedAt.UnixMilli(),
		errorVal,
	)
	if err != nil {
		return usage.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *usage.Query) ([]*usage.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM usage_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY created_at DESC, rowid DESC"

	limit := usage.DefaultQueryLimit
	if query != nil && query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query != nil && query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, usage.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*usage.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, usage.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, usage.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Totals aggregates matching records.
func (s *SQLiteStorage) Totals(ctx context.Context, query *usage.Query) (*usage.Totals, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := selectTotals
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var t usage.Totals
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(
		&t.Records, &t.Successes, &t.Failures,
		&t.TokensUsed, &t.EstimatedCost, &t.ActualCost,
	)
	if err != nil {
		return nil, usage.NewStorageError("sqlite", "totals", err)
	}
	return &t, nil
}

// Delete removes matching records.
func (s *SQLiteStorage) Delete(ctx context.Context, query *usage.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM usage_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, usage.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, usage.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteStorage) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	if err := s.db.Close(); err != nil {
		return usage.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func buildWhereClause(query *usage.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if query.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, query.Since.UnixMilli())
	}
	if query.Until != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, query.Until.UnixMilli())
	}
	if query.ClientKey != "" {
		conditions = append(conditions, "client_key = ?")
		args = append(args, query.ClientKey)
	}
	if query.Tier != "" {
		conditions = append(conditions, "tier = ?")
		args = append(args, query.Tier)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(query.Outcome))
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a Record.
func scanRow(rows *sql.Rows) (*usage.Record, error) {
	var (
		record     usage.Record
		outcome    string
		ageTier    sql.NullString
		minutes    sql.NullInt64
		durationMs int64
		createdMs  int64
		errorVal   sql.NullString
	)

	err := rows.Scan(
		&record.ID, &record.RequestID, &record.ClientKey,
		&record.Tier, &record.Model, &outcome,
		&ageTier, &minutes,
		&record.TokensUsed, &record.EstimatedCost, &record.ActualCost,
		&durationMs, &createdMs,
		&errorVal,
	)
	if err != nil {
		return nil, err
	}

	record.Outcome = usage.Outcome(outcome)
	record.AgeTier = ageTier.String
	record.Minutes = int(minutes.Int64)
	record.Duration = time.Duration(durationMs) * time.Millisecond
	record.CreatedAt = time.UnixMilli(createdMs).UTC()
	record.Error = errorVal.String

	return &record, nil
}
