package testkit

import (
	"bytes"
	"context"
	"fmt"

	"cetaksoal/adapters/excel"
	"cetaksoal/adapters/memory"
	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"
	"cetaksoal/ports"
)

// TestKit wires the whole document pipeline in memory: store, renderer,
// importer and an in-memory import ledger
type TestKit struct {
	Store    *state.Store
	Renderer *render.Renderer
	Importer *importer.Service
	Ledger   ports.ImportLedger
}

// NewTestKit creates a kit with default letterhead and print settings
func NewTestKit() (*TestKit, error) {
	return NewTestKitWithSettings(exam.DefaultHeaderInfo(), exam.DefaultSettings())
}

// NewTestKitWithSettings creates a kit starting from the given document state
func NewTestKitWithSettings(header exam.HeaderInfo, settings exam.Settings) (*TestKit, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	store := state.NewStore(header, settings)
	ledger := memory.NewImportLedger(50)
	logger := internal.NewLogger(internal.LogLevelError)

	return &TestKit{
		Store:    store,
		Renderer: renderer,
		Importer: importer.NewService(excel.DefaultExcelConfig(), store, ledger, logger),
		Ledger:   ledger,
	}, nil
}

// ImportBank generates a sample workbook and imports it into the kit's store
func (t *TestKit) ImportBank(ctx context.Context, config BankConfig) (*importer.Result, error) {
	var buf bytes.Buffer
	if err := NewBankGenerator(config).WriteWorkbook(&buf); err != nil {
		return nil, err
	}
	return t.Importer.Import(ctx, "bank.xlsx", &buf)
}

// RenderDocument renders the current store snapshot as a full page
func (t *TestKit) RenderDocument() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Renderer.Document(&buf, t.Store.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
