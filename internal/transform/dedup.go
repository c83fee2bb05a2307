package transform

import (
	"strings"

	"github.com/zeebo/xxh3"

	"hretl/internal/records"
	"hretl/internal/runlog"
)

// Dedup drops rows whose values are identical across every column except
// ProvenanceColumn, keeping the first occurrence. Two rows that agree on all
// data but came from different sources are still duplicates.
type Dedup struct {
	Issues *runlog.Collector
}

func (d Dedup) Apply(in *records.RecordSet) *records.RecordSet {
	keyCols := make([]string, 0, len(in.Columns))
	for _, c := range in.Columns {
		if c != ProvenanceColumn {
			keyCols = append(keyCols, c)
		}
	}

	out := records.NewRecordSet(in.Columns)
	seen := make(map[uint64]struct{}, len(in.Rows))
	dropped := 0
	for _, row := range in.Rows {
		h := rowHash(row, keyCols)
		if _, dup := seen[h]; dup {
			dropped++
			continue
		}
		seen[h] = struct{}{}
		out.Append(row)
	}
	if dropped > 0 && d.Issues != nil {
		d.Issues.Correctionf(runlog.StageTransform, "dropped duplicate rows", dropped)
	}
	return out
}

// rowHash hashes the row's values in column order. Cells are separated by
// \x1f and nulls encoded as \x00 so "" and adjacent-field collisions cannot
// alias each other.
func rowHash(row records.Record, cols []string) uint64 {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		v := row[c]
		if v == nil {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(records.String(v))
	}
	return xxh3.HashString(b.String())
}
