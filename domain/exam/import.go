package exam

import (
	"time"

	"cetaksoal/domain/core"
)

// ImportStatus is the outcome of one workbook import
type ImportStatus string

const (
	ImportSucceeded ImportStatus = "succeeded"
	ImportFailed    ImportStatus = "failed"
)

// ImportEvent is the ledger entry for one import attempt. It never holds
// question content.
type ImportEvent struct {
	ID            core.ImportID `json:"id" db:"id"`
	SourceName    string        `json:"sourceName" db:"source_name"`
	SheetName     string        `json:"sheetName" db:"sheet_name"`
	QuestionCount int           `json:"questionCount" db:"question_count"`
	Status        ImportStatus  `json:"status" db:"status"`
	ErrorCode     string        `json:"errorCode,omitempty" db:"error_code"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
}
