// Package source reads one configured input file into memory as raw records
// keyed by the file's own header names. Mapping onto the canonical schema is a
// separate stage; this package only gets bytes off disk reliably.
//
// Failure semantics match the pipeline's per-source isolation: a file that
// cannot be opened yields ErrUnavailable, a file with a header but no data
// rows yields ErrNoData, and individual malformed rows are skipped and
// counted rather than failing the whole file.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hretl/internal/config"
	"hretl/internal/records"
)

var (
	// ErrUnavailable marks a source whose file could not be opened or read.
	// The pipeline skips the source and continues with the rest.
	ErrUnavailable = errors.New("source unavailable")

	// ErrNoData marks a source that parsed but contributed zero data rows.
	ErrNoData = errors.New("source contains no data rows")
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Table is the raw parse result for one input file.
type Table struct {
	// Name is the source's configured name, carried forward as provenance.
	Name string

	// Columns holds the file's header names in file order, trimmed and
	// BOM-stripped but otherwise verbatim; mappings are authored against them.
	Columns []string

	// Rows are the data rows keyed by header name. Empty cells are nil.
	Rows []records.Record

	// Skipped counts rows dropped for parse errors or width mismatches.
	Skipped int
}

// Read opens and parses the file behind src.
func Read(src config.Source) (*Table, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, src.Path, err)
	}
	defer f.Close()

	t, err := parse(src.Name, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, src.Path, err)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, src.Path)
	}
	return t, nil
}

// parse consumes CSV records from r. Rows whose width differs from the header
// are soft-failed: skipped and counted, never fatal.
func parse(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width enforced after read so bad rows soft-fail

	h, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h)

	t := &Table{Name: name, Columns: headers}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Skipped++
			continue
		}
		if len(row) != len(headers) {
			t.Skipped++
			continue
		}
		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[headers[i]] = emptyToNil(strings.TrimSpace(val))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders trims each header cell and strips a UTF-8 BOM from the
// first one. Header names are otherwise kept verbatim so hand-authored
// mappings match what the file actually says.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = c
	}
	return res
}
