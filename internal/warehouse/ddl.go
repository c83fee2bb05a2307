package warehouse

import (
	"fmt"
	"strings"

	"hretl/internal/config"
	"hretl/internal/transform"
)

// ColumnDef describes one column of the destination table. Names are emitted
// unquoted in upper case, the conventional Snowflake form.
type ColumnDef struct {
	Name    string
	SQLType string
}

// TableDef holds the fully qualified destination name (DATABASE.SCHEMA.TABLE)
// and the ordered column list.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// sqlTypeFor maps a canonical schema type onto the Snowflake type system.
func sqlTypeFor(canonical string) string {
	switch canonical {
	case config.TypeDate:
		return "DATE"
	case config.TypeNumber:
		return "NUMBER"
	default:
		return "VARCHAR"
	}
}

// ident renders an identifier in upper case. Callers validate names at config
// load; this does no quoting.
func ident(name string) string { return strings.ToUpper(name) }

// TableDefFor builds the destination table definition from the final output
// columns. typeOf resolves a column's canonical type; the provenance column
// is always VARCHAR.
func TableDefFor(w config.Warehouse, columns []string, typeOf func(string) string) TableDef {
	def := TableDef{
		FQN: fmt.Sprintf("%s.%s.%s", ident(w.Database), ident(w.Schema), ident(w.Table)),
	}
	for _, col := range columns {
		typ := "VARCHAR"
		if col != transform.ProvenanceColumn {
			typ = sqlTypeFor(typeOf(col))
		}
		def.Columns = append(def.Columns, ColumnDef{Name: ident(col), SQLType: typ})
	}
	return def
}

// BuildCreateTableSQL renders the idempotent CREATE TABLE statement for def.
func BuildCreateTableSQL(def TableDef) (string, error) {
	if strings.TrimSpace(def.FQN) == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(def.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	cols := make([]string, 0, len(def.Columns))
	for _, c := range def.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", def.FQN)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}
		cols = append(cols, name+" "+typ)
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		def.FQN,
		strings.Join(cols, ",\n  "),
	), nil
}
