package transform

import (
	"log/slog"
	"strings"
	"testing"

	"hretl/internal/records"
	"hretl/internal/runlog"
)

/*
TestFillApply verifies the fill rule:

  - nil and empty-string cells receive the configured default
  - non-null cells are never overwritten
  - columns outside the set are ignored
  - filled cells are counted as one correction per column
*/
func TestFillApply(t *testing.T) {
	issues := runlog.New("test", slog.New(slog.DiscardHandler))
	in := set([]string{"gender", "status"},
		records.Record{"gender": nil, "status": "active"},
		records.Record{"gender": "", "status": nil},
		records.Record{"gender": "M", "status": "left"},
	)

	out := Fill{
		Defaults: map[string]string{"gender": "Unknown", "status": "unknown", "ghost": "x"},
		Issues:   issues,
	}.Apply(in)

	want := []records.Record{
		{"gender": "Unknown", "status": "active"},
		{"gender": "Unknown", "status": "unknown"},
		{"gender": "M", "status": "left"},
	}
	for i, row := range out.Rows {
		for col, v := range want[i] {
			if row[col] != v {
				t.Fatalf("row %d col %s = %v, want %v", i, col, row[col], v)
			}
		}
	}
	if issues.Corrections() != 2 {
		t.Fatalf("corrections = %d, want 2 (one per filled column)", issues.Corrections())
	}
}

/*
TestFillApplyDeterministicOrder verifies corrections are logged in sorted
column order regardless of map iteration order.
*/
func TestFillApplyDeterministicOrder(t *testing.T) {
	defaults := map[string]string{
		"status": "unknown", "gender": "Unknown", "department": "unassigned",
	}
	wantOrder := []string{"department", "gender", "status"}

	for i := 0; i < 10; i++ {
		issues := runlog.New("test", slog.New(slog.DiscardHandler))
		in := set([]string{"gender", "status", "department"},
			records.Record{"gender": nil, "status": nil, "department": nil},
		)
		Fill{Defaults: defaults, Issues: issues}.Apply(in)

		entries := issues.Entries()
		if len(entries) != len(wantOrder) {
			t.Fatalf("entries = %d, want %d", len(entries), len(wantOrder))
		}
		for j, col := range wantOrder {
			if !strings.Contains(entries[j].Message, "column "+col) {
				t.Fatalf("entry %d = %q, want column %s", j, entries[j].Message, col)
			}
		}
	}
}
