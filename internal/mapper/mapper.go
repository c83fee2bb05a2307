// Package mapper projects a raw source table onto the canonical schema using
// the source's hand-authored column mapping. The output of every source has
// the same shape, which is what makes consolidation a plain concatenation.
package mapper

import (
	"sort"

	"hretl/internal/config"
	"hretl/internal/records"
	"hretl/internal/source"
)

// Result is the mapped form of one source table.
type Result struct {
	// Set holds the mapped rows in canonical column order.
	Set *records.RecordSet

	// MissingColumns lists mapped source columns absent from the file's
	// header, sorted for stable reporting. The corresponding canonical
	// columns are nil for every row.
	MissingColumns []string

	// UnmappedCanonical lists canonical columns no mapping entry targets,
	// in schema order. They are nil for every row.
	UnmappedCanonical []string
}

// Map applies src's column mapping to t and returns rows shaped by the
// canonical schema. Source columns not named in the mapping are dropped;
// canonical columns nothing maps to are nil and reported.
func Map(t *source.Table, src config.Source, schema []string) Result {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}

	// srcFor inverts the mapping: canonical column -> source column, only for
	// source columns the file actually has.
	srcFor := make(map[string]string, len(src.Columns))
	var missing []string
	for from, to := range src.Columns {
		if !present[from] {
			missing = append(missing, from)
			continue
		}
		srcFor[to] = from
	}
	sort.Strings(missing)

	// targeted covers every canonical column the mapping names, whether or
	// not the source column made it into the file.
	targeted := make(map[string]bool, len(src.Columns))
	for _, to := range src.Columns {
		targeted[to] = true
	}
	var unmapped []string
	for _, col := range schema {
		if !targeted[col] {
			unmapped = append(unmapped, col)
		}
	}

	set := records.NewRecordSet(schema)
	for _, row := range t.Rows {
		rec := make(records.Record, len(schema))
		for _, col := range schema {
			if from, ok := srcFor[col]; ok {
				rec[col] = row[from]
			} else {
				rec[col] = nil
			}
		}
		set.Append(rec)
	}
	return Result{Set: set, MissingColumns: missing, UnmappedCanonical: unmapped}
}
