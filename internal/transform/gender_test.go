package transform

import (
	"testing"

	"hretl/internal/records"
)

/*
TestNormalizeGender verifies the closed-set mapping:

  - recognized male/female spellings collapse to "M"/"F" regardless of case
  - numeric codes 1 and 2 map to "M" and "F"
  - nulls, empty strings and unrecognized values all become "Unknown"
*/
func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"lower_m", "m", "M"},
		{"upper_male", "MALE", "M"},
		{"double_m", "mm", "M"},
		{"code_one", "1", "M"},
		{"lower_f", "f", "F"},
		{"female_mixed_case", "Female", "F"},
		{"double_f", "ff", "F"},
		{"code_two", "2", "F"},
		{"code_zero", "0", "Unknown"},
		{"nil_value", nil, "Unknown"},
		{"empty_string", "", "Unknown"},
		{"unrecognized", "xyz", "Unknown"},
		{"whitespace_padding", "  male  ", "M"},
		{"already_canonical_m", "M", "M"},
		{"already_canonical_unknown", "Unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeGender(tt.in); got != tt.want {
				t.Fatalf("NormalizeGender(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

/*
TestGenderApply_Idempotent verifies that applying the rule twice yields the
same set as applying it once, and that every output value lands in
{M, F, Unknown}.
*/
func TestGenderApply_Idempotent(t *testing.T) {
	set := records.NewRecordSet([]string{"gender"})
	for _, v := range []any{"male", "F", "0", nil, "whatever", "2"} {
		set.Append(records.Record{"gender": v})
	}

	g := Gender{Column: "gender"}
	once := g.Apply(set)

	valid := map[string]bool{"M": true, "F": true, "Unknown": true}
	first := make([]string, 0, once.Len())
	for _, row := range once.Rows {
		s := records.String(row["gender"])
		if !valid[s] {
			t.Fatalf("value %q outside closed set", s)
		}
		first = append(first, s)
	}

	twice := g.Apply(once)
	for i, row := range twice.Rows {
		if got := records.String(row["gender"]); got != first[i] {
			t.Fatalf("row %d changed on second application: %q -> %q", i, first[i], got)
		}
	}
}

/*
TestGenderApply_MissingColumn verifies the rule is a no-op when the configured
column is absent from the set.
*/
func TestGenderApply_MissingColumn(t *testing.T) {
	set := records.NewRecordSet([]string{"name"})
	set.Append(records.Record{"name": "a"})

	out := Gender{Column: "gender"}.Apply(set)
	if out.Rows[0]["name"] != "a" {
		t.Fatalf("unexpected mutation: %v", out.Rows[0])
	}
}
