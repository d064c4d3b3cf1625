package container

import (
	"context"
	"fmt"

	"cetaksoal/adapters/excel"
	"cetaksoal/adapters/memory"
	"cetaksoal/adapters/postgres"
	"cetaksoal/internal"
	"cetaksoal/internal/config"
	"cetaksoal/internal/errors"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"
	"cetaksoal/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB     *sqlx.DB
	Ledger ports.ImportLedger

	// Document pipeline
	Store     *state.Store
	Renderer  *render.Renderer
	Refresher *render.Refresher
	Importer  *importer.Service

	cancel context.CancelFunc
}

// New creates a container backed by the in-memory import ledger. Call
// InitWithDatabase to switch the ledger to Postgres.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	ctx, cancel := context.WithCancel(context.Background())

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Ledger:   memory.NewImportLedger(cfg.Import.LedgerLimit),
		Store:    state.NewStore(cfg.Document.Header, cfg.Document.Settings),
		Renderer: renderer,
		cancel:   cancel,
	}
	c.Refresher = render.NewRefresher(ctx, renderer, c.Store, logger)
	c.Importer = importer.NewService(c.ExcelConfig(), c.Store, c.Ledger, logger)

	logger.Named("Container").Info("initialized with in-memory import ledger")
	return c, nil
}

// Open builds the container and, when a database URL is configured, moves
// the import ledger to Postgres
func Open(ctx context.Context, cfg *config.Config) (*Container, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return c, nil
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		c.Shutdown(ctx)
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		c.Shutdown(ctx)
		return nil, errors.DatabaseError("failed to initialize import ledger", err)
	}
	return c, nil
}

// InitWithDatabase moves the import ledger to Postgres
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.Ledger = postgres.NewImportLedger(db)
	c.Importer = importer.NewService(c.ExcelConfig(), c.Store, c.Ledger, c.Logger)

	c.Logger.Named("Container").Info("import ledger stored in Postgres")
	return nil
}

// ExcelConfig returns the reader settings derived from the import config
func (c *Container) ExcelConfig() excel.ExcelConfig {
	cfg := excel.DefaultExcelConfig()
	cfg.MaxBytes = c.Config.Import.MaxUploadBytes()
	return cfg
}

// DetachedImporter parses uploads without touching the shared store. The
// JSON API uses it so API calls never replace what the editor shows.
func (c *Container) DetachedImporter() *importer.Service {
	return importer.NewService(c.ExcelConfig(), nil, c.Ledger, c.Logger)
}

// Shutdown stops background rendering and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.Refresher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
