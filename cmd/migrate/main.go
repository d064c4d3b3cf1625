package main

import (
	"context"
	"log"
	"os"
	"time"

	"cetaksoal/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	pending, err := runner.Pending(ctx, db)
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	if len(pending) == 0 {
		log.Printf("Schema is up to date (version %s)", runner.Version())
		return
	}
	for _, m := range pending {
		log.Printf("Pending migration %d: %s", m.Version, m.Name)
	}

	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Applied %d migrations, schema version %s", len(pending), runner.Version())
}
