package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cetaksoal/domain/core"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading workbook and CSV uploads
type DataReader struct {
	name     string
	fileType string // "xlsx" or "csv"
	config   ExcelConfig
}

// NewDataReader creates a reader for an upload called name. The extension
// picks the decoder.
func NewDataReader(name string, config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(name))
	fileType := ""
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		fileType = "xlsx"
	case ".csv":
		fileType = "csv"
	}
	return &DataReader{name: name, fileType: fileType, config: config}
}

// SupportedExtension reports whether name has an extension the reader decodes
func SupportedExtension(name string) bool {
	return NewDataReader(name, ExcelConfig{}).fileType != ""
}

// ReadData reads the first sheet of the upload into header-keyed rows
func (r *DataReader) ReadData(ctx context.Context, src io.Reader) (*ExcelData, error) {
	if r.fileType == "" {
		return nil, core.NewUnsupportedFormatError(filepath.Ext(r.name))
	}

	payload, err := r.readAll(src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("[DataReader] Starting to read %s upload: %s (%d bytes)", r.fileType, r.name, len(payload))

	switch r.fileType {
	case "csv":
		return r.readCSVData(payload)
	default:
		return r.readExcelData(payload)
	}
}

func (r *DataReader) readAll(src io.Reader) ([]byte, error) {
	if r.config.MaxBytes <= 0 {
		payload, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		return payload, nil
	}

	payload, err := io.ReadAll(io.LimitReader(src, r.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(payload)) > r.config.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", core.ErrUploadTooLarge, r.config.MaxBytes)
	}
	return payload, nil
}

// readExcelData reads the first sheet of the workbook, whatever its name
func (r *DataReader) readExcelData(payload []byte) (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(payload), excelize.Options{Password: r.config.Password})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data := r.processRows(rows)
	data.SheetName = sheet
	return data, nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(payload []byte) (*ExcelData, error) {
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV upload read (%d rows)", len(rows))

	data := r.processRows(rows)
	data.SheetName = strings.TrimSuffix(filepath.Base(r.name), filepath.Ext(r.name))
	return data, nil
}

// processRows converts raw string rows into ExcelData. Row 0 is the
// header row. Empty cells are left out of a row and rows without any
// cell are dropped, so a key is present only when the sheet had a value.
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	if len(rows) == 0 {
		return &ExcelData{}
	}

	headers := uniqueHeaders(rows[0])

	var dataRows []RawRowData
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j >= len(headers) || cell == "" {
				continue
			}
			rowData[headers[j]] = cell
		}
		if len(rowData) == 0 {
			continue
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s upload processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}
}

// uniqueHeaders names blank headers __EMPTY, __EMPTY_1, ... and suffixes
// repeated headers with _1, _2, ... Header text is otherwise kept verbatim.
func uniqueHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))

	for i, h := range row {
		base := h
		if strings.TrimSpace(h) == "" {
			base = "__EMPTY"
		}
		name := base
		if _, dup := seen[name]; dup {
			n := seen[base]
			for {
				n++
				name = base + "_" + strconv.Itoa(n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		headers[i] = name
	}
	return headers
}
