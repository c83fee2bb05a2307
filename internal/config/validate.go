// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "sources[1].path",
// "transform.final_columns"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Callers may decide whether to treat
// warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	issues = append(issues, validateSources(p)...)
	issues = append(issues, validateSchema(p)...)
	issues = append(issues, validateTransform(p)...)
	issues = append(issues, validateWarehouse(p.Warehouse)...)

	return issues
}

func validateSources(p Pipeline) []Issue {
	var issues []Issue

	if len(p.Sources) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sources",
			Message:  "at least one source is required",
		})
		return issues
	}

	canonical := map[string]struct{}{}
	for _, c := range p.Schema {
		canonical[c.Name] = struct{}{}
	}

	seen := map[string]int{}
	for i, s := range p.Sources {
		if strings.TrimSpace(s.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("sources[%d].name", i),
				Message:  "source name must not be empty; it becomes the provenance tag",
			})
		}
		if prev, dup := seen[s.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("sources[%d].name", i),
				Message:  fmt.Sprintf("duplicate source name %q (first at sources[%d])", s.Name, prev),
			})
		}
		seen[s.Name] = i

		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("sources[%d].path", i),
				Message:  "source requires a non-empty path",
			})
		}
		if len(s.Columns) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("sources[%d].columns", i),
				Message:  "source requires a column mapping; mappings are hand-authored, not inferred",
			})
		}

		// Mapping targets must be canonical columns; anything else would be
		// silently dropped downstream, which is almost certainly a typo.
		for src, dst := range s.Columns {
			if _, ok := canonical[dst]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("sources[%d].columns.%s", i, src),
					Message:  fmt.Sprintf("maps to %q which is not a canonical schema column", dst),
				})
			}
		}
	}

	return issues
}

func validateSchema(p Pipeline) []Issue {
	var issues []Issue

	if len(p.Schema) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "schema",
			Message:  "canonical schema must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{TypeString: {}, TypeDate: {}, TypeNumber: {}, "": {}}
	seen := map[string]struct{}{}
	for i, c := range p.Schema {
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("schema[%d].name", i),
				Message:  "column name must not be empty",
			})
			continue
		}
		if _, dup := seen[c.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("schema[%d].name", i),
				Message:  fmt.Sprintf("duplicate canonical column %q", c.Name),
			})
		}
		seen[c.Name] = struct{}{}
		if _, ok := known[c.Type]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("schema[%d].type", i),
				Message:  fmt.Sprintf("unknown type %q; treated as %q", c.Type, TypeString),
			})
		}
	}

	return issues
}

func validateTransform(p Pipeline) []Issue {
	var issues []Issue

	canonical := map[string]struct{}{}
	for _, c := range p.Schema {
		canonical[c.Name] = struct{}{}
	}

	t := p.Transform
	if t.GenderColumn != "" {
		if _, ok := canonical[t.GenderColumn]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "transform.gender_column",
				Message:  fmt.Sprintf("%q is not a canonical schema column", t.GenderColumn),
			})
		}
	}
	for i, col := range t.DateColumns {
		if _, ok := canonical[col]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform.date_columns[%d]", i),
				Message:  fmt.Sprintf("%q is not a canonical schema column", col),
			})
		}
	}
	fillCols := make([]string, 0, len(t.Fill))
	for col := range t.Fill {
		fillCols = append(fillCols, col)
	}
	sort.Strings(fillCols)
	for _, col := range fillCols {
		if _, ok := canonical[col]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "transform.fill." + col,
				Message:  fmt.Sprintf("%q is not a canonical schema column", col),
			})
		}
	}

	if len(t.FinalColumns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.final_columns",
			Message:  "final column list must not be empty",
		})
	}
	for i, col := range t.FinalColumns {
		// "source" is the provenance tag appended at consolidation; it is a
		// legitimate final column without being part of the canonical schema.
		if col == "source" {
			continue
		}
		if _, ok := canonical[col]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform.final_columns[%d]", i),
				Message:  fmt.Sprintf("%q is not a canonical schema column; it will be null for every row", col),
			})
		}
	}

	return issues
}

func validateWarehouse(w Warehouse) []Issue {
	var issues []Issue

	if !w.Enabled {
		return issues
	}
	for _, f := range []struct {
		path  string
		value string
	}{
		{"warehouse.database", w.Database},
		{"warehouse.schema", w.Schema},
		{"warehouse.table", w.Table},
	} {
		if strings.TrimSpace(f.value) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     f.path,
				Message:  "required when warehouse.enabled is true",
			})
		}
	}
	switch w.Mode {
	case ModeReplace, ModeAppend:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.mode",
			Message:  fmt.Sprintf("unknown mode %q; expected %q or %q", w.Mode, ModeReplace, ModeAppend),
		})
	}

	return issues
}
