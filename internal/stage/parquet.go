// Package stage writes ingested records as Parquet staging artifacts on
// the local filesystem, one snappy-compressed file per run.
package stage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// WriteArtifact writes rec under dir as
// <dataset-slug>.dt=<load-date>.run=<runID>.parquet and returns the
// file path. Column names are normalized to parquet-friendly
// identifiers; the IPC stream remains the fidelity-preserving output.
func WriteArtifact(dir, dataset, runID string, rec arrow.Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	loadDate := time.Now().UTC().Format("2006-01-02")
	name := fmt.Sprintf("%s.dt=%s.run=%s.parquet", slug(dataset), loadDate, runID)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}

	pfw := writerfile.NewWriterFile(f)
	pw, err := writer.NewJSONWriter(schemaJSON(rec.Schema()), pfw, 4)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	names := normalizedNames(rec.Schema())
	for i := 0; i < int(rec.NumRows()); i++ {
		row := make(map[string]any, rec.NumCols())
		for j := 0; j < int(rec.NumCols()); j++ {
			row[names[j]] = cellValue(rec.Column(j), i)
		}
		encoded, err := json.Marshal(row)
		if err != nil {
			f.Close()
			return "", fmt.Errorf("encode row: %w", err)
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			f.Close()
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		f.Close()
		return "", fmt.Errorf("finalize artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}
	return path, nil
}

// schemaJSON builds the parquet-go JSON schema for the record: INT64,
// DOUBLE, or BYTE_ARRAY/UTF8 per column, timestamps as
// INT64/TIMESTAMP_MICROS, everything OPTIONAL so nulls survive.
func schemaJSON(schema *arrow.Schema) string {
	names := normalizedNames(schema)
	fields := make([]map[string]string, 0, len(schema.Fields()))
	for i, f := range schema.Fields() {
		var typ string
		switch f.Type.ID() {
		case arrow.INT64:
			typ = "type=INT64"
		case arrow.FLOAT64:
			typ = "type=DOUBLE"
		case arrow.TIMESTAMP:
			typ = "type=INT64, convertedtype=TIMESTAMP_MICROS"
		default:
			typ = "type=BYTE_ARRAY, convertedtype=UTF8"
		}
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", names[i], typ),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func cellValue(col arrow.Array, i int) any {
	if col.IsNull(i) {
		return nil
	}
	switch a := col.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Timestamp:
		return int64(a.Value(i))
	case *array.String:
		return a.Value(i)
	default:
		return col.ValueStr(i)
	}
}

func normalizedNames(schema *arrow.Schema) []string {
	names := make([]string, len(schema.Fields()))
	seen := make(map[string]bool, len(names))
	for i, f := range schema.Fields() {
		name := normalizeName(f.Name)
		if name == "" || seen[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// normalizeName lowercases and maps anything outside [a-z0-9_] to an
// underscore; parquet-go requires identifier-shaped field names.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "c_" + out
	}
	return out
}

func slug(dataset string) string {
	s := normalizeName(strings.TrimSuffix(filepath.Base(dataset), filepath.Ext(dataset)))
	if s == "" {
		return "dataset"
	}
	return s
}
