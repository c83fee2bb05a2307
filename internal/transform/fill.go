package transform

import (
	"sort"

	"hretl/internal/records"
	"hretl/internal/runlog"
)

// Fill substitutes a configured default for null cells in the named columns.
// Non-null values are never overwritten.
type Fill struct {
	Defaults map[string]string
	Issues   *runlog.Collector
}

func (f Fill) Apply(in *records.RecordSet) *records.RecordSet {
	// Columns are processed in sorted order so corrections land in the run
	// log in the same order on every run.
	cols := make([]string, 0, len(f.Defaults))
	for col := range f.Defaults {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		def := f.Defaults[col]
		if !in.HasColumn(col) {
			continue
		}
		filled := 0
		for _, row := range in.Rows {
			if records.IsNull(row[col]) {
				row[col] = def
				filled++
			}
		}
		if filled > 0 && f.Issues != nil {
			f.Issues.Correctionf(runlog.StageTransform,
				"filled missing values in column "+col+" with "+def, filled)
		}
	}
	return in
}
