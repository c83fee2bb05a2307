// Package csvout writes the consolidated RecordSet as a CSV artifact. Nulls
// become empty fields; the header row is the set's column order.
package csvout

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hretl/internal/records"
)

type Writer struct {
	w   *csv.Writer
	buf *bufio.Writer
}

func New(w io.Writer) *Writer {
	bw := bufio.NewWriterSize(w, 1<<20)
	return &Writer{
		w:   csv.NewWriter(bw),
		buf: bw,
	}
}

func (cw *Writer) WriteHeader(header []string) error {
	return cw.w.Write(header)
}

func (cw *Writer) WriteRow(row []string) error {
	return cw.w.Write(row)
}

func (cw *Writer) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return err
	}
	return cw.buf.Flush()
}

// WriteSet renders rs to w, header first.
func WriteSet(w io.Writer, rs *records.RecordSet) error {
	cw := New(w)
	if err := cw.WriteHeader(rs.Columns); err != nil {
		return err
	}
	row := make([]string, len(rs.Columns))
	for _, rec := range rs.Rows {
		for i, col := range rs.Columns {
			row[i] = records.String(rec[col])
		}
		if err := cw.WriteRow(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// WriteFile writes rs to path, creating parent directories and replacing any
// previous run's file.
func WriteFile(path string, rs *records.RecordSet) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteSet(f, rs); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}
