// Package importer turns an uploaded workbook into the current question set.
package importer

import (
	"context"
	"io"
	"time"

	"cetaksoal/adapters/excel"
	"cetaksoal/domain/core"
	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/errors"
	"cetaksoal/internal/state"
	"cetaksoal/ports"
)

// Result describes a successful import
type Result struct {
	ImportID  core.ImportID   `json:"importId"`
	SheetName string          `json:"sheetName"`
	Count     int             `json:"count"`
	Questions []exam.Question `json:"questions"`
}

// Service reads uploads and publishes them to the store
type Service struct {
	config excel.ExcelConfig
	store  *state.Store
	ledger ports.ImportLedger
	logger *internal.Logger
	now    func() time.Time
}

// NewService creates an import service. A nil store makes Import parse
// only, which the CLI uses.
func NewService(config excel.ExcelConfig, store *state.Store, ledger ports.ImportLedger, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		config: config,
		store:  store,
		ledger: ledger,
		logger: logger.Named("Importer"),
		now:    time.Now,
	}
}

// Import reads the first sheet of src and replaces the current question
// set. Every failure comes back as IMPORT_FAILED and leaves the store as
// it was.
func (s *Service) Import(ctx context.Context, name string, src io.Reader) (*Result, error) {
	id := core.NewImportID()

	data, err := excel.NewDataReader(name, s.config).ReadData(ctx, src)
	if err != nil {
		s.logger.Warn("import %s of %q failed: %v", id, name, err)
		s.record(ctx, exam.ImportEvent{
			ID:         id,
			SourceName: name,
			Status:     exam.ImportFailed,
			ErrorCode:  errors.CodeImportFailed,
		})
		return nil, errors.ImportFailed(err)
	}

	questions := exam.MapRecords(data.Rows)
	if s.store != nil {
		s.store.ReplaceQuestions(id, name, questions)
	}
	s.logger.Info("imported %d questions from %q sheet %q", len(questions), name, data.SheetName)

	s.record(ctx, exam.ImportEvent{
		ID:            id,
		SourceName:    name,
		SheetName:     data.SheetName,
		QuestionCount: len(questions),
		Status:        exam.ImportSucceeded,
	})

	return &Result{
		ImportID:  id,
		SheetName: data.SheetName,
		Count:     len(questions),
		Questions: questions,
	}, nil
}

// Recent lists the latest import events, newest first
func (s *Service) Recent(ctx context.Context, limit int) ([]exam.ImportEvent, error) {
	if s.ledger == nil {
		return []exam.ImportEvent{}, nil
	}
	events, err := s.ledger.Recent(ctx, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list imports", err)
	}
	return events, nil
}

// record writes to the ledger. Ledger trouble never fails an import.
func (s *Service) record(ctx context.Context, event exam.ImportEvent) {
	if s.ledger == nil {
		return
	}
	event.CreatedAt = s.now().UTC()
	if err := s.ledger.Record(ctx, event); err != nil {
		s.logger.Error("failed to record import %s: %v", event.ID, err)
	}
}
