// Package emit serializes Arrow records to self-describing IPC streams
// and reads them back.
package emit

import (
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ErrEmitFailure reports an I/O failure while writing the output
// stream.
var ErrEmitFailure = errors.New("emit failure")

// Stream writes rec to w as an Arrow IPC stream: schema, record batch,
// end-of-stream marker. The schema travels inline, so a conforming
// reader needs no external schema to reconstruct column names, types,
// and values. Output cut short by a failure lacks the terminating
// marker and will not read back as a complete stream.
func Stream(w io.Writer, rec arrow.Record) error {
	aw := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.NewGoAllocator()))
	if err := aw.Write(rec); err != nil {
		aw.Close()
		return fmt.Errorf("%w: write record batch: %v", ErrEmitFailure, err)
	}
	if err := aw.Close(); err != nil {
		return fmt.Errorf("%w: close stream: %v", ErrEmitFailure, err)
	}
	return nil
}

// ReadAll reads an IPC stream back into its schema and record batches.
// Callers release the returned records when done.
func ReadAll(r io.Reader) (*arrow.Schema, []arrow.Record, error) {
	rr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, nil, fmt.Errorf("open stream: %w", err)
	}
	defer rr.Release()

	var recs []arrow.Record
	for rr.Next() {
		rec := rr.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := rr.Err(); err != nil && err != io.EOF {
		for _, rec := range recs {
			rec.Release()
		}
		return nil, nil, fmt.Errorf("read stream: %w", err)
	}
	return rr.Schema(), recs, nil
}
