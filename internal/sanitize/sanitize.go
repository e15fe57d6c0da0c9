// Package sanitize normalizes raw GCAT tab-separated content: comment
// removal, whitespace trimming, quote-aware field splitting, and dash
// sentinel substitution in numeric columns.
package sanitize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	commentMarker = "#"
	delimiter     = '\t'
	dashSentinel  = "-"
)

// Document is a cleaned tabular document: a header row plus data rows,
// every field trimmed. Rows may be shorter than the header when the
// source omitted trailing fields; they are kept as-is and reconciled by
// the table builder.
type Document struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the document has no header at all (the raw
// input had no lines).
func (d *Document) Empty() bool {
	return len(d.Header) == 0
}

// Clean decodes raw bytes using the declared encoding (invalid byte
// sequences become the Unicode replacement character rather than an
// error) and normalizes the content:
//
//   - the first line is always the header, with leading comment markers
//     stripped, even when it looks like a comment
//   - later lines whose trimmed form starts with "#" are dropped, as
//     are blank lines
//   - lines split on tabs with quote-aware parsing, fields trimmed
//   - in columns whose every non-dash non-empty value parses as a
//     float, a bare "-" becomes "" (the source's null sentinel); other
//     columns keep dashes verbatim
func Clean(raw []byte, enc Encoding) (*Document, error) {
	text, err := decode(raw, enc)
	if err != nil {
		return nil, err
	}

	lines := splitLines(text)
	if len(lines) == 0 {
		return &Document{}, nil
	}

	headerLine := strings.TrimSpace(strings.TrimLeft(lines[0], commentMarker))
	header, err := parseFields(headerLine)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	var rows [][]string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		row, err := parseFields(line)
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		if row != nil {
			rows = append(rows, row)
		}
	}

	doc := &Document{Header: header, Rows: rows}
	if len(rows) == 0 {
		return doc, nil
	}

	for col := range numericColumns(header, rows) {
		for _, row := range rows {
			if col < len(row) && row[col] == dashSentinel {
				row[col] = ""
			}
		}
	}
	return doc, nil
}

// splitLines splits on universal newline boundaries (\n, \r\n, \r) and
// drops a trailing empty line from a terminating newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseFields splits one line on tabs with quote awareness: a quoted
// field may embed the delimiter literally. Each field is trimmed.
func parseFields(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// numericColumns reports the column positions whose every value that is
// neither "-" nor empty parses as a float. Columns with no such values
// are not numeric.
func numericColumns(header []string, rows [][]string) map[int]bool {
	numeric := make(map[int]bool)
	for col := range header {
		seen := false
		allFloat := true
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			v := row[col]
			if v == dashSentinel || v == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
				break
			}
		}
		if seen && allFloat {
			numeric[col] = true
		}
	}
	return numeric
}
