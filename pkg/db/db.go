package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	path string
}

// openDB opens a SQLite database at the given path
func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases exist per connection.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqlDB.Close() // Close error less important than PRAGMA error
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return sqlDB, nil
}

// Open opens or creates the run journal at dbPath.
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, errors.New("journal path is empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{
		DB:   sqlDB,
		path: dbPath,
	}

	// Auto-initialize schema if it doesn't exist
	if err := db.ensureSchemaExists(); err != nil {
		_ = db.Close() // Close error less important than schema error
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// ensureSchemaExists checks if the schema exists and initializes it if not
func (db *DB) ensureSchemaExists() error {
	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&tableName)

	if errors.Is(err, sql.ErrNoRows) {
		return db.InitSchema()
	}

	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}

	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// InitSchema initializes the database schema
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
