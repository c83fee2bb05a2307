package transform

import (
	"hretl/internal/records"
	"hretl/internal/runlog"
)

// Project selects and reorders the final output columns. A requested column
// absent from the working set is added as null for every row with a warning;
// working columns not requested are dropped.
type Project struct {
	Columns []string
	Issues  *runlog.Collector
}

func (p Project) Apply(in *records.RecordSet) *records.RecordSet {
	out := records.NewRecordSet(p.Columns)
	for _, col := range p.Columns {
		if !in.HasColumn(col) && p.Issues != nil {
			p.Issues.Warnf(runlog.StageTransform,
				"final column %s not present after transforms; emitting null", col)
		}
	}
	for _, row := range in.Rows {
		rec := make(records.Record, len(p.Columns))
		for _, col := range p.Columns {
			if v, ok := row[col]; ok {
				rec[col] = v
			} else {
				rec[col] = nil
			}
		}
		out.Append(rec)
	}
	return out
}
