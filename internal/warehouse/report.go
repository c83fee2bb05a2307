package warehouse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Upload statuses recorded in the report artifact.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// Report is the human-readable summary of the warehouse step written at the
// end of every run, including runs where the step never started.
type Report struct {
	RunID      string
	Time       time.Time
	Status     string
	Target     string
	Mode       string
	State      State
	RowsLoaded int
	Columns    int
	TableRows  int64
	Detail     string
}

// Render returns the report text.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "UPLOAD REPORT\n")
	fmt.Fprintf(&b, "run:    %s\n", r.RunID)
	fmt.Fprintf(&b, "time:   %s\n", r.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "status: %s\n", r.Status)
	if r.Target != "" {
		fmt.Fprintf(&b, "target: %s (mode %s)\n", r.Target, r.Mode)
	}
	fmt.Fprintf(&b, "state:  %s\n", r.State)
	if r.Columns > 0 {
		fmt.Fprintf(&b, "loaded: %d rows x %d columns\n", r.RowsLoaded, r.Columns)
	} else {
		fmt.Fprintf(&b, "loaded: %d rows\n", r.RowsLoaded)
	}
	if r.Status == StatusSuccess {
		fmt.Fprintf(&b, "table:  %d rows after load\n", r.TableRows)
	}
	if r.Detail != "" {
		fmt.Fprintf(&b, "detail: %s\n", r.Detail)
	}
	return b.String()
}

// Write persists the report to path, creating parent directories as needed.
func (r Report) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return fmt.Errorf("write upload report: %w", err)
	}
	return nil
}
