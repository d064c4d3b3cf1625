package postgres

import (
	"context"
	"fmt"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/migration"
	"cetaksoal/ports"

	"github.com/jmoiron/sqlx"
)

// importLedger implements the ImportLedger interface on PostgreSQL
type importLedger struct {
	db *sqlx.DB
}

// NewImportLedger creates a ledger backed by db
func NewImportLedger(db *sqlx.DB) ports.ImportLedger {
	return &importLedger{db: db}
}

// EnsureSchema applies any pending ledger migrations
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	return migration.NewRunner().Run(ctx, db)
}

// Record inserts an import event
func (r *importLedger) Record(ctx context.Context, event exam.ImportEvent) error {
	query := `INSERT INTO import_events (
		id, source_name, sheet_name, question_count, status, error_code, created_at
	) VALUES (
		:id, :source_name, :sheet_name, :question_count, :status, :error_code, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to record import event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first
func (r *importLedger) Recent(ctx context.Context, limit int) ([]exam.ImportEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT
		id, source_name, sheet_name, question_count, status, error_code, created_at
	FROM import_events ORDER BY created_at DESC LIMIT $1`

	var events []exam.ImportEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list import events: %w", err)
	}
	return events, nil
}
