// This file drives one pipeline run end-to-end: extract each source, map it
// onto the canonical schema, consolidate, transform, write the CSV artifact,
// then ensure-load-verify the warehouse table. Sources fail independently;
// only a run that produces zero rows, an invalid config or an unwritable CSV
// is fatal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hretl/internal/config"
	"hretl/internal/csvout"
	"hretl/internal/mapper"
	"hretl/internal/records"
	"hretl/internal/runlog"
	"hretl/internal/source"
	"hretl/internal/transform"
	"hretl/internal/warehouse"
)

// loaderRunner is the minimal surface of warehouse.Loader used here.
type loaderRunner interface {
	Run(ctx context.Context, rs *records.RecordSet, typeOf func(string) string) (warehouse.Result, error)
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	readSourceFn = source.Read

	credentialsFn = warehouse.CredentialsFromEnv

	newLoaderFn = func(cfg config.Warehouse, creds warehouse.Credentials, log *slog.Logger) loaderRunner {
		return warehouse.NewLoader(cfg, creds, log)
	}

	writeCSVFn = csvout.WriteFile
)

// sourceStatus records how each configured source fared, for the end-of-run
// summary.
type sourceStatus struct {
	name   string
	rows   int
	detail string
}

// run executes the pipeline and returns the process exit code.
func run(ctx context.Context, p config.Pipeline, log *slog.Logger) int {
	runID := uuid.NewString()
	issues := runlog.New(runID, log)
	log.Info("run started", "run_id", runID, "sources", len(p.Sources))

	// Extract and map each source independently.
	schema := p.SchemaColumns()
	var parts []transform.Part
	statuses := make([]sourceStatus, 0, len(p.Sources))
	for _, src := range p.Sources {
		st := sourceStatus{name: src.Name}
		t, err := readSourceFn(src)
		if err != nil {
			switch {
			case errors.Is(err, source.ErrNoData):
				st.detail = "no data rows"
			case errors.Is(err, source.ErrUnavailable):
				st.detail = "unavailable"
			default:
				st.detail = "failed"
			}
			issues.Warnf(runlog.StageExtract, "skipping source %s: %v", src.Name, err)
			statuses = append(statuses, st)
			continue
		}
		if t.Skipped > 0 {
			issues.Warnf(runlog.StageExtract,
				"source %s: skipped %d malformed rows", src.Name, t.Skipped)
		}

		res := mapper.Map(t, src, schema)
		for _, col := range res.MissingColumns {
			issues.Warnf(runlog.StageMap,
				"source %s: mapped column %q missing from file header", src.Name, col)
		}
		for _, col := range res.UnmappedCanonical {
			issues.Warnf(runlog.StageMap,
				"source %s: no mapping for canonical column %q; emitting null", src.Name, col)
		}
		st.rows = res.Set.Len()
		st.detail = "ok"
		statuses = append(statuses, st)
		parts = append(parts, transform.Part{Name: src.Name, Set: res.Set})
	}

	consolidated := transform.Consolidate(schema, parts)
	if consolidated.Len() == 0 {
		issues.Errorf(runlog.StageConsolidate, "no source contributed any rows; nothing to process")
		finish(p, issues, statuses, log)
		writeSkippedReport(p, runID, warehouse.StatusSkipped, "no data", log)
		return exitFatal
	}
	log.Info("consolidated", "rows", consolidated.Len(), "columns", len(consolidated.Columns))

	// Normalization rules run in fixed order; projection is always last.
	chain := transform.Chain{
		transform.Gender{Column: p.Transform.GenderColumn, Issues: issues},
		transform.Dates{Columns: p.Transform.DateColumns, Issues: issues},
	}
	if p.Transform.Dedupe {
		chain = append(chain, transform.Dedup{Issues: issues})
	}
	chain = append(chain,
		transform.Fill{Defaults: p.Transform.Fill, Issues: issues},
		transform.Project{Columns: p.Transform.FinalColumns, Issues: issues},
	)
	final := chain.Apply(consolidated)
	log.Info("transformed", "rows", final.Len(), "columns", len(final.Columns))

	if err := writeCSVFn(p.Output.CSV, final); err != nil {
		issues.Errorf(runlog.StageOutput, "write consolidated csv: %v", err)
		finish(p, issues, statuses, log)
		writeSkippedReport(p, runID, warehouse.StatusSkipped, "csv output failed", log)
		return exitFatal
	}
	log.Info("csv written", "path", p.Output.CSV, "rows", final.Len())

	code := exitOK
	report := warehouse.Report{
		RunID:  runID,
		Time:   time.Now(),
		Mode:   p.Warehouse.Mode,
		Status: warehouse.StatusSkipped,
	}
	switch {
	case !p.Warehouse.Enabled:
		report.Detail = "disabled in config"
		log.Info("warehouse load skipped", "reason", "disabled")
	default:
		report.Target = warehouseTarget(p.Warehouse)
		loader := newLoaderFn(p.Warehouse, credentialsFn(), log)
		res, err := loader.Run(ctx, final, p.SchemaType)
		report.State = res.State
		report.RowsLoaded = res.RowsLoaded
		report.Columns = res.Columns
		report.TableRows = res.TableRows
		switch {
		case err == nil:
			report.Status = warehouse.StatusSuccess
		case errors.Is(err, warehouse.ErrUnavailable):
			report.Detail = err.Error()
			issues.Warnf(runlog.StageLoad, "warehouse skipped: %v", err)
			code = exitPartial
		default:
			report.Status = warehouse.StatusFailed
			report.Detail = err.Error()
			issues.Errorf(runlog.StageLoad, "warehouse load: %v", err)
			code = exitPartial
		}
	}
	if err := report.Write(p.Output.Report); err != nil {
		issues.Errorf(runlog.StageOutput, "%v", err)
	}

	finish(p, issues, statuses, log)
	return code
}

// finish logs the per-source summary and persists the run log. Failures to
// persist are logged but never change the exit code; the console already has
// the full story.
func finish(p config.Pipeline, issues *runlog.Collector, statuses []sourceStatus, log *slog.Logger) {
	for _, st := range statuses {
		log.Info("source summary", "source", st.name, "rows", st.rows, "status", st.detail)
	}
	log.Info("run summary",
		"warnings", issues.Warnings(),
		"errors", issues.Errors(),
		"corrections", issues.Corrections(),
	)
	if err := ensureDirAndSave(issues, p.Output.Log); err != nil {
		log.Error("persist run log", "err", err)
	}
}

func ensureDirAndSave(issues *runlog.Collector, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return issues.Save(path)
}

// writeSkippedReport records that the warehouse step never started, so a
// fatal run still leaves a complete artifact set.
func writeSkippedReport(p config.Pipeline, runID, status, detail string, log *slog.Logger) {
	report := warehouse.Report{
		RunID:  runID,
		Time:   time.Now(),
		Status: status,
		Mode:   p.Warehouse.Mode,
		Detail: detail,
	}
	if p.Warehouse.Enabled {
		report.Target = warehouseTarget(p.Warehouse)
	}
	if err := report.Write(p.Output.Report); err != nil {
		log.Error("persist upload report", "err", err)
	}
}

func warehouseTarget(w config.Warehouse) string {
	return fmt.Sprintf("%s.%s.%s", w.Database, w.Schema, w.Table)
}
