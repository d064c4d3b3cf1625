package migration

import (
	"context"
	"fmt"
	"strconv"

	"cetaksoal/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// Migration is one forward-only schema step. Each holds a single statement.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// ledgerMigrations builds the import ledger schema. Append only.
var ledgerMigrations = []Migration{
	{1, "create_import_events", `CREATE TABLE IF NOT EXISTS import_events (
		id             UUID PRIMARY KEY,
		source_name    TEXT NOT NULL,
		sheet_name     TEXT NOT NULL DEFAULT '',
		question_count INTEGER NOT NULL DEFAULT 0,
		status         TEXT NOT NULL,
		error_code     TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`},
	{2, "index_import_events_created_at",
		`CREATE INDEX IF NOT EXISTS import_events_created_at_idx ON import_events (created_at DESC)`},
	{3, "index_import_events_status",
		`CREATE INDEX IF NOT EXISTS import_events_status_idx ON import_events (status)`},
}

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	migrations []Migration
}

// NewRunner creates a runner for the import ledger schema
func NewRunner() *MigrationRunner {
	return &MigrationRunner{migrations: ledgerMigrations}
}

// Version returns the schema version after all migrations ran
func (r *MigrationRunner) Version() string {
	if len(r.migrations) == 0 {
		return "0"
	}
	return strconv.Itoa(r.migrations[len(r.migrations)-1].Version)
}

// Pending lists the migrations not yet applied to db, in order
func (r *MigrationRunner) Pending(ctx context.Context, db *sqlx.DB) ([]Migration, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, errors.Wrap(err, "failed to create schema_migrations table")
	}

	var applied []int
	if err := db.SelectContext(ctx, &applied, "SELECT version FROM schema_migrations"); err != nil {
		return nil, errors.Wrap(err, "failed to read applied migrations")
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	var pending []Migration
	for _, m := range r.migrations {
		if !done[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Run applies every pending migration, each in its own transaction
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	pending, err := r.Pending(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := r.apply(ctx, db, m); err != nil {
			return errors.Wrapf(err, "migration %d (%s) failed", m.Version, m.Name)
		}
	}
	return nil
}

func (r *MigrationRunner) apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	insert := tx.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, insert, m.Version, m.Name); err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}
	return tx.Commit()
}
