package sanitize

import (
	"reflect"
	"strings"
	"testing"
)

func TestCleanBasic(t *testing.T) {
	raw := []byte("#id\tdistance\tname\n" +
		"1\t12\talpha\n" +
		"2\t-\tbeta\n" +
		"# skip me\n" +
		"3\t7.5\tgamma\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	wantHeader := []string{"id", "distance", "name"}
	if !reflect.DeepEqual(doc.Header, wantHeader) {
		t.Errorf("expected header %v, got %v", wantHeader, doc.Header)
	}

	wantRows := [][]string{
		{"1", "12", "alpha"},
		{"2", "", "beta"},
		{"3", "7.5", "gamma"},
	}
	if !reflect.DeepEqual(doc.Rows, wantRows) {
		t.Errorf("expected rows %v, got %v", wantRows, doc.Rows)
	}
}

func TestCleanCommentHandling(t *testing.T) {
	// A comment line is dropped unless it is the first line, in which
	// case it becomes the header once markers are stripped.
	raw := []byte("## name\tvalue\n# dropped\nfoo\t1\n  # also dropped\nbar\t2\n")

	doc, err := Clean(raw, "")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !reflect.DeepEqual(doc.Header, []string{"name", "value"}) {
		t.Errorf("unexpected header %v", doc.Header)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc.Rows))
	}
}

func TestCleanSentinelSubstitution(t *testing.T) {
	// Numeric column: dash becomes empty. Non-numeric column: dash is
	// source data and stays.
	raw := []byte("id\tdistance\tdirection\n" +
		"1\t12\teast\n" +
		"2\t-\t-\n" +
		"3\t7.5\twest\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	var distances, directions []string
	for _, row := range doc.Rows {
		distances = append(distances, row[1])
		directions = append(directions, row[2])
	}
	if !reflect.DeepEqual(distances, []string{"12", "", "7.5"}) {
		t.Errorf("expected numeric column normalized, got %v", distances)
	}
	if !reflect.DeepEqual(directions, []string{"east", "-", "west"}) {
		t.Errorf("expected non-numeric column unchanged, got %v", directions)
	}
}

func TestCleanAllDashColumnNotNumeric(t *testing.T) {
	// A column with no values besides dashes has nothing confirming it
	// numeric, so the dashes stay.
	raw := []byte("id\tmystery\n1\t-\n2\t-\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	for _, row := range doc.Rows {
		if row[1] != "-" {
			t.Errorf("expected dash preserved, got %q", row[1])
		}
	}
}

func TestCleanQuotedDelimiter(t *testing.T) {
	raw := []byte("a\tb\tc\n1\t\"x\ty\"\t3\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	want := []string{"1", "x\ty", "3"}
	if !reflect.DeepEqual(doc.Rows[0], want) {
		t.Errorf("expected %q, got %q", want, doc.Rows[0])
	}
}

func TestCleanFieldTrimming(t *testing.T) {
	raw := []byte("  a  \t  b  \n  1  \t  2  \n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !reflect.DeepEqual(doc.Header, []string{"a", "b"}) {
		t.Errorf("unexpected header %v", doc.Header)
	}
	if !reflect.DeepEqual(doc.Rows[0], []string{"1", "2"}) {
		t.Errorf("unexpected row %v", doc.Rows[0])
	}
}

func TestCleanEmptyInput(t *testing.T) {
	doc, err := Clean(nil, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !doc.Empty() {
		t.Errorf("expected empty document, got header %v", doc.Header)
	}
	if len(doc.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(doc.Rows))
	}
}

func TestCleanHeaderOnly(t *testing.T) {
	doc, err := Clean([]byte("#id\tname\n# nothing else\n"), EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !reflect.DeepEqual(doc.Header, []string{"id", "name"}) {
		t.Errorf("unexpected header %v", doc.Header)
	}
	if len(doc.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(doc.Rows))
	}
}

func TestCleanShortRowsKept(t *testing.T) {
	raw := []byte("a\tb\tc\n1\t2\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(doc.Rows[0]) != 2 {
		t.Errorf("expected short row kept as-is, got %v", doc.Rows[0])
	}
}

func TestCleanUniversalNewlines(t *testing.T) {
	raw := []byte("a\tb\r\n1\t2\r3\t4\n")

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(doc.Rows))
	}
}

func TestCleanInvalidBytesSubstituted(t *testing.T) {
	raw := append([]byte("name\tvalue\nalp"), 0xff, 0xfe)
	raw = append(raw, []byte("ha\t1\n")...)

	doc, err := Clean(raw, EncodingUTF8)
	if err != nil {
		t.Fatalf("expected graceful decode, got %v", err)
	}
	if len(doc.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc.Rows))
	}
	if !strings.Contains(doc.Rows[0][0], "�") {
		t.Errorf("expected replacement character in %q", doc.Rows[0][0])
	}
}

func TestCleanLatin1(t *testing.T) {
	raw := []byte{'n', 'a', 'm', 'e', '\n', 0xe9, '\n'} // 0xe9 = é in latin-1

	doc, err := Clean(raw, EncodingLatin1)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if doc.Rows[0][0] != "é" {
		t.Errorf("expected é, got %q", doc.Rows[0][0])
	}
}

func TestCleanUnsupportedEncoding(t *testing.T) {
	if _, err := Clean([]byte("a\n1\n"), "ebcdic"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}
