// Package records defines the in-memory data model shared by every pipeline
// stage: a Record is one row keyed by column name, a RecordSet is an ordered
// batch of rows together with its ordered column list.
//
// Values are scalars: string, float64, int, or nil for null. The CSV boundary
// converts empty fields to nil on the way in and nil back to empty fields on
// the way out, so "missing" has a single representation inside the pipeline.
package records

import "fmt"

// Record is one row at any pipeline stage. Keys are column names; a nil value
// means null. Records are mutated in place by transformation rules.
type Record map[string]any

// RecordSet is an ordered batch of Records sharing one column set. Columns
// carries the order; Rows index values by column name.
type RecordSet struct {
	Columns []string
	Rows    []Record
}

// NewRecordSet returns an empty RecordSet with the given column order. The
// columns slice is copied so callers can reuse their own.
func NewRecordSet(columns []string) *RecordSet {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RecordSet{Columns: cols}
}

// Len returns the number of rows.
func (rs *RecordSet) Len() int { return len(rs.Rows) }

// Append adds a row to the set. The record is stored as-is, not copied.
func (rs *RecordSet) Append(r Record) { rs.Rows = append(rs.Rows, r) }

// HasColumn reports whether name is part of the set's column list.
func (rs *RecordSet) HasColumn(name string) bool {
	for _, c := range rs.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNull reports whether v represents a null cell: nil or the empty string.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// String renders a cell value for CSV output or SQL binding. nil becomes the
// empty string; everything else is returned via the value's natural formatting.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
