package transform

import (
	"time"

	"hretl/internal/records"
	"hretl/internal/runlog"
)

// dateLayouts are tried in order. The canonical layout comes first so already
// normalized values round-trip unchanged. Ambiguous numeric forms are read
// month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Dates rewrites the configured columns to YYYY-MM-DD. Values no layout
// matches are nulled with a warning; nulls pass through untouched.
type Dates struct {
	Columns []string
	Issues  *runlog.Collector
}

// NormalizeDate parses raw against the candidate layouts and reformats it.
// The second return is false when nothing matched.
func NormalizeDate(raw string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func (d Dates) Apply(in *records.RecordSet) *records.RecordSet {
	for _, col := range d.Columns {
		if !in.HasColumn(col) {
			continue
		}
		changed := 0
		for _, row := range in.Rows {
			v := row[col]
			if records.IsNull(v) {
				row[col] = nil
				continue
			}
			raw := records.String(v)
			norm, ok := NormalizeDate(raw)
			if !ok {
				row[col] = nil
				if d.Issues != nil {
					d.Issues.Warnf(runlog.StageTransform,
						"unparseable date %q in column %s; value nulled", raw, col)
				}
				continue
			}
			if norm != raw {
				changed++
			}
			row[col] = norm
		}
		if changed > 0 && d.Issues != nil {
			d.Issues.Correctionf(runlog.StageTransform,
				"reformatted column "+col+" to YYYY-MM-DD", changed)
		}
	}
	return in
}
