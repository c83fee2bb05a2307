package records

import (
	"reflect"
	"testing"
)

/*
TestIsNull verifies the single null representation: nil and the empty string
are null, everything else is not.
*/
func TestIsNull(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, true},
		{"empty_string", "", true},
		{"space", " ", false},
		{"zero_int", 0, false},
		{"text", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNull(tt.in); got != tt.want {
				t.Fatalf("IsNull(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

/*
TestString verifies cell rendering for output boundaries.
*/
func TestString(t *testing.T) {
	if got := String(nil); got != "" {
		t.Fatalf("String(nil) = %q", got)
	}
	if got := String("a"); got != "a" {
		t.Fatalf("String(a) = %q", got)
	}
	if got := String(42); got != "42" {
		t.Fatalf("String(42) = %q", got)
	}
}

/*
TestRecordSet verifies column copying and membership checks.
*/
func TestRecordSet(t *testing.T) {
	cols := []string{"a", "b"}
	rs := NewRecordSet(cols)
	cols[0] = "mutated"
	if !reflect.DeepEqual(rs.Columns, []string{"a", "b"}) {
		t.Fatalf("columns aliased caller slice: %v", rs.Columns)
	}
	if !rs.HasColumn("b") || rs.HasColumn("c") {
		t.Fatal("HasColumn misbehaves")
	}
	rs.Append(Record{"a": "1"})
	if rs.Len() != 1 {
		t.Fatalf("len = %d", rs.Len())
	}
}
