package testutil

import (
	"database/sql"
	"testing"

	"github.com/greenmtnboy/space-reporting/internal/db"
)

// OpenTestDB opens an in-memory SQLite database with the run-catalog
// schema applied, closed automatically when the test ends.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}
