package ports

import (
	"context"

	"cetaksoal/domain/exam"
)

// ImportLedger records import attempts for the recent-imports panel
type ImportLedger interface {
	Record(ctx context.Context, event exam.ImportEvent) error
	// Recent returns at most limit events, newest first.
	Recent(ctx context.Context, limit int) ([]exam.ImportEvent, error)
}
