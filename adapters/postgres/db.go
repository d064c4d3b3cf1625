package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and makes sure the ledger schema exists
func Open(ctx context.Context, url string, maxOpenConns int) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	if err := EnsureSchema(connectCtx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
