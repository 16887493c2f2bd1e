// Package storage provides usage journal backends.
//
// MemoryStorage keeps records in process memory and is meant for tests and
// for running without a writable disk. SQLiteStorage persists records in a
// single SQLite file and works with either registered driver:
//
//   - "sqlite": modernc.org/sqlite, pure Go, no cgo required
//   - "sqlite3": github.com/mattn/go-sqlite3, cgo
//
// Timestamps are stored as Unix milliseconds so both drivers read back the
// same values.
package storage
