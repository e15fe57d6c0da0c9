package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// LoadTable replaces table name with the contents of the given record
// batches: CREATE TABLE derived from the schema (int64 -> INTEGER,
// float64 -> REAL, timestamp -> TEXT in RFC 3339, anything else ->
// TEXT), then one INSERT per row inside a transaction. Returns the
// number of rows loaded.
func LoadTable(database *sql.DB, name string, schema *arrow.Schema, recs []arrow.Record) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("table name is required")
	}
	if len(schema.Fields()) == 0 {
		return 0, fmt.Errorf("schema has no columns")
	}

	cols := make([]string, 0, len(schema.Fields()))
	defs := make([]string, 0, len(schema.Fields()))
	marks := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		cols = append(cols, quoteIdent(f.Name))
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(f.Name), sqliteType(f.Type)))
		marks = append(marks, "?")
	}

	tx, err := database.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(name))); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.Exec(createStmt); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	insertStmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", "),
	))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer insertStmt.Close()

	var loaded int64
	for _, rec := range recs {
		for i := 0; i < int(rec.NumRows()); i++ {
			args := make([]any, rec.NumCols())
			for j := 0; j < int(rec.NumCols()); j++ {
				args[j] = sqliteValue(rec.Column(j), i)
			}
			if _, err := insertStmt.Exec(args...); err != nil {
				return loaded, fmt.Errorf("insert row: %w", err)
			}
			loaded++
		}
	}

	if err := tx.Commit(); err != nil {
		return loaded, fmt.Errorf("commit tx: %w", err)
	}
	return loaded, nil
}

// RecordRun catalogs a completed load in ingest_runs.
func RecordRun(database *sql.DB, runID, dataset, tableName string, rowCount int64, updateDate time.Time) error {
	_, err := database.Exec(`
		INSERT INTO ingest_runs (id, dataset, table_name, row_count, update_date, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, dataset, tableName, rowCount, updateDate.UTC().Format(time.RFC3339), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func sqliteType(t arrow.DataType) string {
	switch t.ID() {
	case arrow.INT64:
		return "INTEGER"
	case arrow.FLOAT64:
		return "REAL"
	default:
		return "TEXT"
	}
}

func sqliteValue(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}
	switch a := col.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Timestamp:
		typ := a.DataType().(*arrow.TimestampType)
		return a.Value(i).ToTime(typ.Unit).UTC().Format(time.RFC3339Nano)
	case *array.String:
		return a.Value(i)
	default:
		return col.ValueStr(i)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
