package table

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// UpdateDateColumn is the name of the provenance column appended by
// WithUpdateDate.
const UpdateDateColumn = "data_update_date"

// WithUpdateDate returns a new record identical to rec plus a trailing
// UTC microsecond timestamp column holding updatedAt once per row. The
// input record is not modified; a zero-row record gains an empty
// column. Applying it again appends a second provenance column.
func WithUpdateDate(rec arrow.Record, updatedAt time.Time) arrow.Record {
	mem := memory.NewGoAllocator()
	dtype := &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

	b := array.NewTimestampBuilder(mem, dtype)
	defer b.Release()
	ts, _ := arrow.TimestampFromTime(updatedAt.UTC(), arrow.Microsecond)
	for i := int64(0); i < rec.NumRows(); i++ {
		b.Append(ts)
	}
	col := b.NewArray()

	fields := make([]arrow.Field, 0, rec.NumCols()+1)
	cols := make([]arrow.Array, 0, rec.NumCols()+1)
	for i := 0; i < int(rec.NumCols()); i++ {
		fields = append(fields, rec.Schema().Field(i))
		cols = append(cols, rec.Column(i))
	}
	fields = append(fields, arrow.Field{Name: UpdateDateColumn, Type: dtype})
	cols = append(cols, col)

	out := array.NewRecord(arrow.NewSchema(fields, nil), cols, rec.NumRows())
	col.Release()
	return out
}
