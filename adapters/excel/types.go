package excel

import "cetaksoal/domain/exam"

// RawRowData represents a row of raw sheet data keyed by header text
type RawRowData = exam.Record

// ExcelData represents the first sheet of a workbook
type ExcelData struct {
	SheetName string       // Sheet the rows came from
	Headers   []string     // Column headers, de-duplicated
	Rows      []RawRowData // Data rows, blank rows skipped
}
