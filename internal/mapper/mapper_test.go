package mapper

import (
	"reflect"
	"testing"

	"hretl/internal/config"
	"hretl/internal/records"
	"hretl/internal/source"
)

/*
TestMap verifies projection onto the canonical schema:

  - mapped source columns are renamed
  - unmapped source columns are dropped
  - canonical columns nothing maps to are nil
  - mapped columns absent from the file are reported and nil
*/
func TestMap(t *testing.T) {
	schema := []string{"employee_id", "first_name", "gender", "salary"}
	tbl := &source.Table{
		Name:    "s1",
		Columns: []string{"emp_id", "fname", "extra"},
		Rows: []records.Record{
			{"emp_id": "1", "fname": "Ada", "extra": "x"},
			{"emp_id": "2", "fname": nil, "extra": "y"},
		},
	}
	src := config.Source{
		Name: "s1",
		Columns: map[string]string{
			"emp_id": "employee_id",
			"fname":  "first_name",
			"sex":    "gender", // not in the file
		},
	}

	res := Map(tbl, src, schema)

	if !reflect.DeepEqual(res.MissingColumns, []string{"sex"}) {
		t.Fatalf("missing = %v", res.MissingColumns)
	}
	if !reflect.DeepEqual(res.UnmappedCanonical, []string{"salary"}) {
		t.Fatalf("unmapped canonical = %v", res.UnmappedCanonical)
	}
	if !reflect.DeepEqual(res.Set.Columns, schema) {
		t.Fatalf("columns = %v", res.Set.Columns)
	}
	if res.Set.Len() != 2 {
		t.Fatalf("rows = %d", res.Set.Len())
	}

	row := res.Set.Rows[0]
	if row["employee_id"] != "1" || row["first_name"] != "Ada" {
		t.Fatalf("row 0 = %v", row)
	}
	if row["gender"] != nil || row["salary"] != nil {
		t.Fatalf("unmapped columns should be nil: %v", row)
	}
	if _, kept := row["extra"]; kept {
		t.Fatalf("unmapped source column leaked through: %v", row)
	}
}

/*
TestMapUnmappedCanonical verifies that a canonical column no mapping entry
targets is both nulled and reported, and that the report preserves schema
order. A column the mapping names is never in the unmapped list, even when
its source header is absent from the file.
*/
func TestMapUnmappedCanonical(t *testing.T) {
	schema := []string{"employee_id", "salary", "department"}
	tbl := &source.Table{
		Name:    "s1",
		Columns: []string{"emp_id"},
		Rows:    []records.Record{{"emp_id": "1"}},
	}
	src := config.Source{
		Name:    "s1",
		Columns: map[string]string{"emp_id": "employee_id"},
	}

	res := Map(tbl, src, schema)

	if !reflect.DeepEqual(res.UnmappedCanonical, []string{"salary", "department"}) {
		t.Fatalf("unmapped canonical = %v", res.UnmappedCanonical)
	}
	if len(res.MissingColumns) != 0 {
		t.Fatalf("missing = %v", res.MissingColumns)
	}
	row := res.Set.Rows[0]
	if row["salary"] != nil || row["department"] != nil {
		t.Fatalf("unmapped canonical columns should be nil: %v", row)
	}

	// Mapping sex -> gender with no sex header in the file keeps gender out
	// of the unmapped list; it is a missing mapped column instead.
	src.Columns["sex"] = "gender"
	res = Map(tbl, src, append(schema, "gender"))
	if !reflect.DeepEqual(res.MissingColumns, []string{"sex"}) {
		t.Fatalf("missing = %v", res.MissingColumns)
	}
	if !reflect.DeepEqual(res.UnmappedCanonical, []string{"salary", "department"}) {
		t.Fatalf("unmapped canonical = %v", res.UnmappedCanonical)
	}
}
