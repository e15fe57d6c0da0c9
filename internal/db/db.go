// Package db is the local SQLite destination for emitted tables. It is
// a collaborator of the ingestion core, not part of it: it consumes the
// self-describing columnar stream and needs nothing else from upstream.
package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/greenmtnboy/space-reporting/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Init initializes the database and creates the run catalog if needed.
func Init() error {
	dbPath, err := GetPath()
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Open opens a connection to the database at path, applying the run
// catalog schema. An empty path means the default location.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		var err error
		path, err = GetPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// GetPath returns the path to the default database file.
func GetPath() (string, error) {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "spacerep.db"), nil
}
