// Package config defines the canonical, YAML-serializable configuration model
// for the consolidation pipeline. It is intentionally small and explicit so a
// pipeline can be loaded from disk and handed to each component at
// construction time; no component reads configuration from globals.
//
// Example (trimmed):
//
//	sources:
//	  - name: dataset_1
//	    path: data/dataset_1.csv
//	    columns: { emp_id: employee_id, fname: first_name }
//	schema:
//	  - { name: employee_id, type: string }
//	  - { name: date_of_birth, type: date }
//	transform:
//	  gender_column: gender
//	  date_columns: [date_of_birth, hire_date]
//	  dedupe: true
//	  fill: { gender: Unknown }
//	  final_columns: [employee_id, first_name, gender, date_of_birth]
//	output:
//	  csv: output/consolidated.csv
//	warehouse:
//	  enabled: true
//	  database: HR_DB
//	  schema: CONSOLIDATED
//	  table: EMPLOYEES
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Column types understood by the canonical schema. They drive warehouse DDL
// and nothing else; inside the pipeline every value travels as a string/nil.
const (
	TypeString = "string"
	TypeDate   = "date"
	TypeNumber = "number"
)

// Load modes for the warehouse table.
const (
	ModeReplace = "replace"
	ModeAppend  = "append"
)

// Pipeline is the top-level object decoded from the pipeline file.
type Pipeline struct {
	// Sources lists the input files in registration order. Consolidation
	// preserves this order.
	Sources []Source `yaml:"sources"`

	// Schema is the ordered canonical column list every source is mapped onto.
	Schema []Column `yaml:"schema"`

	// Transform configures the normalization rules applied after consolidation.
	Transform Transform `yaml:"transform"`

	// Output names the artifacts written by every run.
	Output Output `yaml:"output"`

	// Warehouse describes the destination table and load behavior.
	Warehouse Warehouse `yaml:"warehouse"`
}

// Source pairs one input file with its column-rename mapping. Created once at
// configuration time and never mutated during a run.
type Source struct {
	// Name uniquely identifies the source; it becomes the provenance tag.
	Name string `yaml:"name"`

	// Path is the local filesystem path to the CSV file.
	Path string `yaml:"path"`

	// Columns maps source header names to canonical column names. Source
	// columns absent from this map carry no canonical meaning and are dropped.
	Columns map[string]string `yaml:"columns"`
}

// Column is one canonical schema entry.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Transform holds the normalization configuration.
type Transform struct {
	// GenderColumn names the column receiving gender normalization. Empty
	// disables the rule.
	GenderColumn string `yaml:"gender_column"`

	// DateColumns lists columns reformatted to YYYY-MM-DD.
	DateColumns []string `yaml:"date_columns"`

	// Dedupe collapses fully identical rows (provenance excluded) when true.
	Dedupe bool `yaml:"dedupe"`

	// Fill maps column names to the default substituted for null/empty cells.
	Fill map[string]string `yaml:"fill"`

	// FinalColumns is the ordered output column list. Columns missing from the
	// working set are inserted as null with a warning.
	FinalColumns []string `yaml:"final_columns"`
}

// Output names the files a run produces. Relative paths resolve against the
// working directory.
type Output struct {
	CSV    string `yaml:"csv"`
	Log    string `yaml:"log"`
	Report string `yaml:"report"`
}

// Warehouse identifies the destination objects. Credentials are environment
// supplied (see warehouse.CredentialsFromEnv), never part of this file.
type Warehouse struct {
	Enabled  bool   `yaml:"enabled"`
	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`
	Table    string `yaml:"table"`

	// Mode is "replace" (default; table contents reflect the latest run) or
	// "append".
	Mode string `yaml:"mode"`
}

// Load reads and decodes the pipeline file at path and applies defaults.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("decode config: %w", err)
	}
	p.applyDefaults()
	return p, nil
}

func (p *Pipeline) applyDefaults() {
	if p.Output.CSV == "" {
		p.Output.CSV = "output/consolidated.csv"
	}
	if p.Output.Log == "" {
		p.Output.Log = "output/run_log.json"
	}
	if p.Output.Report == "" {
		p.Output.Report = "output/upload_report.txt"
	}
	if p.Warehouse.Mode == "" {
		p.Warehouse.Mode = ModeReplace
	}
}

// SchemaColumns returns the canonical column names in schema order.
func (p Pipeline) SchemaColumns() []string {
	out := make([]string, len(p.Schema))
	for i, c := range p.Schema {
		out[i] = c.Name
	}
	return out
}

// SchemaType returns the declared type for a canonical column, or TypeString
// when the column is unknown.
func (p Pipeline) SchemaType(name string) string {
	for _, c := range p.Schema {
		if c.Name == name {
			if c.Type == "" {
				return TypeString
			}
			return c.Type
		}
	}
	return TypeString
}
