package transform

import (
	"strings"

	"hretl/internal/records"
	"hretl/internal/runlog"
)

// Gender rewrites one column into the closed set {"M", "F", "Unknown"}. The
// mapping is total: any value it does not recognize, including null, becomes
// "Unknown", so a second application is a no-op.
type Gender struct {
	Column string
	Issues *runlog.Collector
}

var genderAliases = map[string]string{
	"m":      "M",
	"mm":     "M",
	"male":   "M",
	"1":      "M",
	"f":      "F",
	"ff":     "F",
	"female": "F",
	"2":      "F",
}

// NormalizeGender maps a single raw value to its canonical form.
func NormalizeGender(v any) string {
	if records.IsNull(v) {
		return "Unknown"
	}
	key := strings.ToLower(strings.TrimSpace(records.String(v)))
	if canon, ok := genderAliases[key]; ok {
		return canon
	}
	return "Unknown"
}

func (g Gender) Apply(in *records.RecordSet) *records.RecordSet {
	if g.Column == "" || !in.HasColumn(g.Column) {
		return in
	}
	changed := 0
	for _, row := range in.Rows {
		before := row[g.Column]
		after := NormalizeGender(before)
		if records.String(before) != after {
			changed++
		}
		row[g.Column] = after
	}
	if changed > 0 && g.Issues != nil {
		g.Issues.Correctionf(runlog.StageTransform,
			"normalized column "+g.Column+" to M/F/Unknown", changed)
	}
	return in
}
