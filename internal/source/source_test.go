package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hretl/internal/config"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

/*
TestRead verifies the happy path: headers are trimmed and BOM-stripped, empty
cells become nil, and values are keyed by the file's own header names.
*/
func TestRead(t *testing.T) {
	path := writeTemp(t, "\uFEFFemp_id, fname ,sex\n1,Ada,F\n2,,m\n")

	tbl, err := Read(config.Source{Name: "s1", Path: path})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := strings.Join(tbl.Columns, "|"); got != "emp_id|fname|sex" {
		t.Fatalf("columns = %q", got)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0]["fname"] != "Ada" {
		t.Fatalf("row 0 fname = %v", tbl.Rows[0]["fname"])
	}
	if tbl.Rows[1]["fname"] != nil {
		t.Fatalf("empty cell should be nil, got %v", tbl.Rows[1]["fname"])
	}
	if tbl.Name != "s1" {
		t.Fatalf("name = %q", tbl.Name)
	}
}

/*
TestRead_SkipsMalformedRows verifies the soft-fail path: rows whose width
differs from the header are dropped and counted, the rest parse normally.
*/
func TestRead_SkipsMalformedRows(t *testing.T) {
	path := writeTemp(t, "a,b\n1,2\n1,2,3\nonly_one\n3,4\n")

	tbl, err := Read(config.Source{Name: "s", Path: path})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", tbl.Skipped)
	}
}

/*
TestRead_Unavailable verifies a missing file is reported as ErrUnavailable so
the caller can skip the source and continue.
*/
func TestRead_Unavailable(t *testing.T) {
	_, err := Read(config.Source{Name: "s", Path: filepath.Join(t.TempDir(), "absent.csv")})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

/*
TestRead_NoData verifies a header-only file is reported as ErrNoData, and a
fully empty file as ErrUnavailable (no header to read).
*/
func TestRead_NoData(t *testing.T) {
	headerOnly := writeTemp(t, "a,b\n")
	if _, err := Read(config.Source{Name: "s", Path: headerOnly}); !errors.Is(err, ErrNoData) {
		t.Fatalf("header-only err = %v, want ErrNoData", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(config.Source{Name: "s", Path: empty}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("empty-file err = %v, want ErrUnavailable", err)
	}
}
