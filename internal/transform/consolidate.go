package transform

import "hretl/internal/records"

// Part is one source's mapped contribution to the consolidated set.
type Part struct {
	Name string
	Set  *records.RecordSet
}

// Consolidate concatenates the parts in order and tags every row with its
// source name under ProvenanceColumn. Rows are reused, not copied; the
// provenance key is written into each record in place.
func Consolidate(schema []string, parts []Part) *records.RecordSet {
	out := records.NewRecordSet(append(append([]string{}, schema...), ProvenanceColumn))
	for _, p := range parts {
		for _, row := range p.Set.Rows {
			row[ProvenanceColumn] = p.Name
			out.Append(row)
		}
	}
	return out
}
