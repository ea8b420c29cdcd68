// Package db records run history in a local SQLite database: one row per
// monitoring run plus its included worklist rows and delivery outcomes.
package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "worklistmon.db"

type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the database inside the given directory and ensures
// the schema exists.
func Open(dir string) (*DB, error) {
	dbPath := filepath.Join(dir, DefaultDBName)

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{DB: sqlDB, path: dbPath}
	if err := db.ensureSchemaExists(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) ensureSchemaExists() error {
	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return db.InitSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

// InitSchema creates all tables.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
