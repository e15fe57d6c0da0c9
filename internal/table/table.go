// Package table builds typed Arrow records from sanitized catalog
// documents and annotates them with provenance.
package table

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/greenmtnboy/space-reporting/internal/sanitize"
)

// ErrMalformedTable reports a document whose rows cannot be reconciled
// with its header.
var ErrMalformedTable = errors.New("malformed table")

// columnKind is the provisional scalar type of a column during
// inference. It only narrows: integer -> float -> string.
type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindString
)

// Build parses a sanitized document into an Arrow record, inferring
// each column's type from its non-empty values: int64 when every value
// parses as an integer, float64 when every value parses as a float but
// not all as integers, string otherwise. Empty values become nulls of
// the inferred type; a column with no non-empty values is typed string.
//
// Column names come from the header verbatim; when the header repeats a
// name, the second and later occurrences get a "_<position>" suffix
// (zero-based) so every column keeps a distinct, deterministic name.
//
// Rows shorter than the header are padded with nulls. A row longer than
// the header fails with ErrMalformedTable, as does a document carrying
// data rows under an empty header.
func Build(doc *sanitize.Document) (arrow.Record, error) {
	if len(doc.Header) == 0 {
		if len(doc.Rows) > 0 {
			return nil, fmt.Errorf("%w: %d data rows but no header", ErrMalformedTable, len(doc.Rows))
		}
		schema := arrow.NewSchema(nil, nil)
		return array.NewRecord(schema, nil, 0), nil
	}

	ncols := len(doc.Header)
	for i, row := range doc.Rows {
		if len(row) > ncols {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrMalformedTable, i, len(row), ncols)
		}
	}

	names := disambiguate(doc.Header)
	mem := memory.NewGoAllocator()
	fields := make([]arrow.Field, ncols)
	cols := make([]arrow.Array, ncols)

	for i := 0; i < ncols; i++ {
		values := columnValues(doc.Rows, i)
		kind := inferKind(values)
		arr, typ := buildColumn(mem, values, kind)
		cols[i] = arr
		fields[i] = arrow.Field{Name: names[i], Type: typ, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, cols, int64(len(doc.Rows)))
	for _, c := range cols {
		c.Release()
	}
	return rec, nil
}

// columnValues gathers every row's value at position col, treating a
// missing trailing field as empty.
func columnValues(rows [][]string, col int) []string {
	values := make([]string, len(rows))
	for i, row := range rows {
		if col < len(row) {
			values[i] = row[col]
		}
	}
	return values
}

// inferKind narrows the provisional type over the column's non-empty
// values.
func inferKind(values []string) columnKind {
	kind := kindInt
	seen := false
	for _, v := range values {
		if v == "" {
			continue
		}
		seen = true
		if kind == kindInt {
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				continue
			}
			kind = kindFloat
		}
		if kind == kindFloat {
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				continue
			}
			kind = kindString
		}
		if kind == kindString {
			break
		}
	}
	if !seen {
		return kindString
	}
	return kind
}

func buildColumn(mem memory.Allocator, values []string, kind columnKind) (arrow.Array, arrow.DataType) {
	switch kind {
	case kindInt:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			n, _ := strconv.ParseInt(v, 10, 64)
			b.Append(n)
		}
		return b.NewArray(), arrow.PrimitiveTypes.Int64
	case kindFloat:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			f, _ := strconv.ParseFloat(v, 64)
			b.Append(f)
		}
		return b.NewArray(), arrow.PrimitiveTypes.Float64
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if v == "" {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
		return b.NewArray(), arrow.BinaryTypes.String
	}
}

// disambiguate keeps header names verbatim except for repeats, which
// get their zero-based position appended.
func disambiguate(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
