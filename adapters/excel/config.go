package excel

// ExcelConfig holds configuration for workbook reading
type ExcelConfig struct {
	// MaxBytes caps how much of an upload is read; zero means no cap.
	MaxBytes int64 `json:"max_bytes"`
	// Password opens encrypted workbooks when set.
	Password string `json:"-"`
}

// DefaultExcelConfig returns sensible defaults for workbook processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		MaxBytes: 10 << 20,
	}
}
