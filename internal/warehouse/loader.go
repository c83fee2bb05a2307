package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hretl/internal/config"
	"hretl/internal/records"
)

var (
	// ErrUnavailable means the connector cannot run at all, typically because
	// credentials are incomplete. The caller degrades to CSV-only output.
	ErrUnavailable = errors.New("warehouse connector unavailable")

	// ErrVerification means the post-load row count did not match what the
	// load should have produced.
	ErrVerification = errors.New("warehouse verification failed")
)

// State tracks the loader's progress through a run. Transitions are strictly
// forward; the state reached when an error occurs tells the caller exactly
// which step failed.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateDatabaseEnsured
	StateSchemaEnsured
	StateTableEnsured
	StateLoaded
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateDatabaseEnsured:
		return "database_ensured"
	case StateSchemaEnsured:
		return "schema_ensured"
	case StateTableEnsured:
		return "table_ensured"
	case StateLoaded:
		return "loaded"
	case StateVerified:
		return "verified"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// rowScanner is the subset of *sql.Row the loader needs.
type rowScanner interface {
	Scan(dest ...any) error
}

// executor abstracts the SQL connection so tests run without a driver.
type executor interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryRow(ctx context.Context, query string, args ...any) rowScanner
	Close() error
}

// sqlExecutor adapts *sql.DB to the executor interface.
type sqlExecutor struct{ db *sql.DB }

func (e sqlExecutor) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e sqlExecutor) QueryRow(ctx context.Context, query string, args ...any) rowScanner {
	return e.db.QueryRowContext(ctx, query, args...)
}

func (e sqlExecutor) Close() error { return e.db.Close() }

// openSnowflake dials the warehouse and verifies the connection with a ping.
func openSnowflake(ctx context.Context, creds Credentials) (executor, error) {
	dsn, err := creds.DSN()
	if err != nil {
		return nil, fmt.Errorf("build dsn: %w", err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return sqlExecutor{db: db}, nil
}

// insertBatchSize bounds the number of rows per multi-row INSERT.
const insertBatchSize = 500

// Result reports what a load run achieved.
type Result struct {
	State      State
	RowsLoaded int
	Columns    int
	TableRows  int64
}

// Loader drives one ensure-load-verify cycle against the destination table.
type Loader struct {
	cfg   config.Warehouse
	creds Credentials
	log   *slog.Logger

	open func(context.Context, Credentials) (executor, error) // test seam
}

// NewLoader returns a Loader for the configured destination.
func NewLoader(cfg config.Warehouse, creds Credentials, log *slog.Logger) *Loader {
	return &Loader{cfg: cfg, creds: creds, log: log, open: openSnowflake}
}

// Run ensures the destination objects exist, loads rs and verifies the result
// by row count. typeOf resolves a column's canonical type for DDL. The
// returned Result is meaningful even on error: its State names the last step
// that completed.
func (l *Loader) Run(ctx context.Context, rs *records.RecordSet, typeOf func(string) string) (Result, error) {
	res := Result{State: StateDisconnected}

	if !l.creds.Complete() {
		return res, fmt.Errorf("%w: %s, %s and %s must be set",
			ErrUnavailable, EnvAccount, EnvUser, EnvPassword)
	}

	db, err := l.open(ctx, l.creds)
	if err != nil {
		return res, fmt.Errorf("connect: %w", err)
	}
	defer db.Close()
	l.advance(&res, StateConnected)

	dbName := ident(l.cfg.Database)
	if err := db.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+dbName); err != nil {
		return res, fmt.Errorf("ensure database %s: %w", dbName, err)
	}
	if err := db.Exec(ctx, "USE DATABASE "+dbName); err != nil {
		return res, fmt.Errorf("use database %s: %w", dbName, err)
	}
	l.advance(&res, StateDatabaseEnsured)

	schemaName := ident(l.cfg.Schema)
	if err := db.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schemaName); err != nil {
		return res, fmt.Errorf("ensure schema %s: %w", schemaName, err)
	}
	if err := db.Exec(ctx, "USE SCHEMA "+schemaName); err != nil {
		return res, fmt.Errorf("use schema %s: %w", schemaName, err)
	}
	l.advance(&res, StateSchemaEnsured)

	def := TableDefFor(l.cfg, rs.Columns, typeOf)
	res.Columns = len(def.Columns)
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return res, fmt.Errorf("build ddl: %w", err)
	}
	if err := db.Exec(ctx, create); err != nil {
		return res, fmt.Errorf("ensure table %s: %w", def.FQN, err)
	}
	l.advance(&res, StateTableEnsured)

	if l.cfg.Mode == config.ModeReplace {
		if err := db.Exec(ctx, "TRUNCATE TABLE "+def.FQN); err != nil {
			return res, fmt.Errorf("truncate %s: %w", def.FQN, err)
		}
	}
	before, err := countRows(ctx, db, def.FQN)
	if err != nil {
		return res, fmt.Errorf("count before load: %w", err)
	}

	if err := l.insert(ctx, db, def, rs); err != nil {
		return res, fmt.Errorf("load %s: %w", def.FQN, err)
	}
	res.RowsLoaded = rs.Len()
	l.advance(&res, StateLoaded)

	after, err := countRows(ctx, db, def.FQN)
	if err != nil {
		return res, fmt.Errorf("count after load: %w", err)
	}
	res.TableRows = after
	if want := before + int64(rs.Len()); after != want {
		return res, fmt.Errorf("%w: %s has %d rows, want %d", ErrVerification, def.FQN, after, want)
	}
	cols, err := countColumns(ctx, db, l.cfg)
	if err != nil {
		return res, fmt.Errorf("count columns: %w", err)
	}
	if want := int64(len(def.Columns)); cols != want {
		return res, fmt.Errorf("%w: %s has %d columns, want %d", ErrVerification, def.FQN, cols, want)
	}
	l.advance(&res, StateVerified)
	l.log.Info("warehouse load verified", "table", def.FQN, "rows", after)
	return res, nil
}

func (l *Loader) advance(res *Result, s State) {
	res.State = s
	l.log.Debug("loader state", "state", s.String())
}

// insert writes rs in bounded multi-row INSERT batches. Null cells bind as
// SQL NULL.
func (l *Loader) insert(ctx context.Context, db executor, def TableDef, rs *records.RecordSet) error {
	if rs.Len() == 0 {
		return nil
	}
	names := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		names[i] = c.Name
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(names)), ",") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", def.FQN, strings.Join(names, ", "))

	for start := 0; start < rs.Len(); start += insertBatchSize {
		end := start + insertBatchSize
		if end > rs.Len() {
			end = rs.Len()
		}
		batch := rs.Rows[start:end]

		values := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(names))
		for i, row := range batch {
			values[i] = placeholder
			for _, col := range rs.Columns {
				v := row[col]
				if records.IsNull(v) {
					args = append(args, nil)
					continue
				}
				args = append(args, records.String(v))
			}
		}
		if err := db.Exec(ctx, prefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert batch at row %d: %w", start, err)
		}
	}
	return nil
}

func countRows(ctx context.Context, db executor, fqn string) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+fqn).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// countColumns reads the table's column count from information_schema. The
// USE statements above scope the lookup to the run's database.
func countColumns(ctx context.Context, db executor, cfg config.Warehouse) (int64, error) {
	var n int64
	err := db.QueryRow(ctx,
		"SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
		ident(cfg.Schema), ident(cfg.Table),
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
