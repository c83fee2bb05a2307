// Package runlog implements the run-scoped issue collector threaded through
// every pipeline stage. Entries are append-only for the lifetime of a run and
// are persisted as a JSON artifact at the end, so a failed or partially
// successful run always leaves an inspectable trail.
//
// The collector is a side channel, not a logger: stages pass it explicitly and
// record recoverable problems (a skipped source, an unparseable date) together
// with the remediation taken. Console narration is the caller's slog logger;
// the collector only mirrors entries to it so both views stay in sync.
package runlog

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bytedance/sonic"
)

// Severity classifies an entry. Warnings are recovered locally; errors mark a
// stage that gave up (the run may still continue on other paths).
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Stage identifiers used across the pipeline. Kept as plain strings so new
// stages don't require changes here, but the well-known ones are constants.
const (
	StageExtract     = "extract"
	StageMap         = "map"
	StageConsolidate = "consolidate"
	StageTransform   = "transform"
	StageOutput      = "output"
	StageLoad        = "load"
)

// Entry is one recorded issue or correction.
type Entry struct {
	Time        time.Time `json:"time"`
	Stage       string    `json:"stage"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Remediation string    `json:"remediation,omitempty"`
}

// Report is the persisted artifact shape: counters first, then the entries in
// the order they were recorded.
type Report struct {
	RunID       string  `json:"run_id"`
	Warnings    int     `json:"total_warnings"`
	Errors      int     `json:"total_errors"`
	Corrections int     `json:"total_corrections"`
	Entries     []Entry `json:"entries"`
}

// Collector accumulates entries for one run. It is not safe for concurrent
// use; the pipeline is single-threaded by design.
type Collector struct {
	runID       string
	log         *slog.Logger
	entries     []Entry
	warnings    int
	errors      int
	corrections int

	now func() time.Time // test seam
}

// New returns a Collector that mirrors entries to log. log may not be nil.
func New(runID string, log *slog.Logger) *Collector {
	return &Collector{runID: runID, log: log, now: time.Now}
}

// Warnf records a warning for stage.
func (c *Collector) Warnf(stage, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.append(Entry{Time: c.now(), Stage: stage, Severity: SeverityWarning, Message: msg})
	c.log.Warn(msg, "stage", stage)
}

// Errorf records an error for stage.
func (c *Collector) Errorf(stage, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.append(Entry{Time: c.now(), Stage: stage, Severity: SeverityError, Message: msg})
	c.log.Error(msg, "stage", stage)
}

// Correctionf records an automatic remediation (filled default, dropped
// duplicate) as a warning entry carrying the action text.
func (c *Collector) Correctionf(stage, action string, affectedRows int) {
	e := Entry{
		Time:        c.now(),
		Stage:       stage,
		Severity:    SeverityWarning,
		Message:     action,
		Remediation: fmt.Sprintf("corrected %d rows", affectedRows),
	}
	c.entries = append(c.entries, e)
	c.corrections++
	c.log.Info(action, "stage", stage, "rows", affectedRows)
}

func (c *Collector) append(e Entry) {
	c.entries = append(c.entries, e)
	switch e.Severity {
	case SeverityError:
		c.errors++
	default:
		c.warnings++
	}
}

// Warnings returns the number of warning entries recorded so far.
func (c *Collector) Warnings() int { return c.warnings }

// Errors returns the number of error entries recorded so far.
func (c *Collector) Errors() int { return c.errors }

// Corrections returns the number of correction entries recorded so far.
func (c *Collector) Corrections() int { return c.corrections }

// Entries returns the recorded entries in order. The returned slice is the
// collector's own; callers must not mutate it.
func (c *Collector) Entries() []Entry { return c.entries }

// Report assembles the persisted artifact for the run.
func (c *Collector) Report() Report {
	return Report{
		RunID:       c.runID,
		Warnings:    c.warnings,
		Errors:      c.errors,
		Corrections: c.corrections,
		Entries:     c.entries,
	}
}

// Save writes the JSON artifact to path, replacing any previous run's file.
func (c *Collector) Save(path string) error {
	b, err := sonic.ConfigDefault.MarshalIndent(c.Report(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode run log: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}
