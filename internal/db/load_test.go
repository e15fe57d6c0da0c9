package db_test

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/greenmtnboy/space-reporting/internal/db"
	"github.com/greenmtnboy/space-reporting/internal/sanitize"
	"github.com/greenmtnboy/space-reporting/internal/table"
	"github.com/greenmtnboy/space-reporting/internal/testutil"
)

func testRecord(t *testing.T) arrow.Record {
	t.Helper()
	doc := &sanitize.Document{
		Header: []string{"id", "distance", "name"},
		Rows: [][]string{
			{"1", "12", "alpha"},
			{"2", "", "beta"},
			{"3", "7.5", "gamma"},
		},
	}
	rec, err := table.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	annotated := table.WithUpdateDate(rec, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC))
	rec.Release()
	return annotated
}

func TestLoadTable(t *testing.T) {
	database := testutil.OpenTestDB(t)

	rec := testRecord(t)
	defer rec.Release()

	rows, err := db.LoadTable(database, "launch_vehicles", rec.Schema(), []arrow.Record{rec})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows != 3 {
		t.Errorf("expected 3 rows loaded, got %d", rows)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM "launch_vehicles"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows in table, got %d", count)
	}

	var name string
	if err := database.QueryRow(`SELECT "name" FROM "launch_vehicles" WHERE "id" = 1`).Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "alpha" {
		t.Errorf("expected alpha, got %q", name)
	}

	// The sentinel-normalized distance is NULL, not a dash or zero.
	var nullCount int
	if err := database.QueryRow(`SELECT COUNT(*) FROM "launch_vehicles" WHERE "distance" IS NULL`).Scan(&nullCount); err != nil {
		t.Fatalf("null count: %v", err)
	}
	if nullCount != 1 {
		t.Errorf("expected 1 null distance, got %d", nullCount)
	}
}

func TestLoadTableReplaces(t *testing.T) {
	database := testutil.OpenTestDB(t)

	rec := testRecord(t)
	defer rec.Release()

	for i := 0; i < 2; i++ {
		if _, err := db.LoadTable(database, "launch_vehicles", rec.Schema(), []arrow.Record{rec}); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM "launch_vehicles"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected reload to replace rows, got %d", count)
	}
}

func TestRecordRun(t *testing.T) {
	database := testutil.OpenTestDB(t)

	updateDate := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	if err := db.RecordRun(database, "run-1", "tsv/tables/lv.tsv", "launch_vehicles", 3, updateDate); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var dataset, stamp string
	var rows int64
	err := database.QueryRow(
		"SELECT dataset, row_count, update_date FROM ingest_runs WHERE id = ?", "run-1",
	).Scan(&dataset, &rows, &stamp)
	if err != nil {
		t.Fatalf("select run: %v", err)
	}
	if dataset != "tsv/tables/lv.tsv" || rows != 3 {
		t.Errorf("unexpected run row: %s %d", dataset, rows)
	}
	if stamp != "2026-01-02T00:00:00Z" {
		t.Errorf("unexpected update date %q", stamp)
	}
}
