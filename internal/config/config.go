package config

import (
	"os"
	"strconv"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Import    ImportConfig
	Document  DocumentConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DatabaseConfig holds the optional import ledger connection. An empty URL
// selects the in-memory ledger.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
}

// ImportConfig holds upload limits
type ImportConfig struct {
	MaxUploadMB  int
	LedgerLimit  int
	AllowedTypes []string
}

// MaxUploadBytes returns the upload cap in bytes
func (c ImportConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// ProfilingConfig controls the optional pprof listener
type ProfilingConfig struct {
	Enabled bool
	Port    string
}

// DocumentConfig holds the initial letterhead and print settings
type DocumentConfig struct {
	Header   exam.HeaderInfo
	Settings exam.Settings
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Import:   loadImportConfig(),
		Document: loadDocumentConfig(),
		Profiling: ProfilingConfig{
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 4),
	}
}

func loadImportConfig() ImportConfig {
	return ImportConfig{
		MaxUploadMB:  getEnvIntOrDefault("MAX_UPLOAD_MB", 10),
		LedgerLimit:  getEnvIntOrDefault("IMPORT_LEDGER_LIMIT", 50),
		AllowedTypes: []string{".xlsx", ".xlsm", ".csv"},
	}
}

func loadDocumentConfig() DocumentConfig {
	defaults := exam.DefaultSettings()
	header := exam.DefaultHeaderInfo().Merge(exam.HeaderInfo{
		SchoolName:   os.Getenv("KOP_SCHOOL_NAME"),
		Subject:      os.Getenv("KOP_SUBJECT"),
		Grade:        os.Getenv("KOP_GRADE"),
		AcademicYear: os.Getenv("KOP_ACADEMIC_YEAR"),
		TimeLimit:    os.Getenv("KOP_TIME_LIMIT"),
	})

	settings := exam.Settings{
		Columns:         getEnvIntOrDefault("DEFAULT_COLUMNS", defaults.Columns),
		ShowKop:         getEnvBoolOrDefault("DEFAULT_SHOW_KOP", defaults.ShowKop),
		ShowExplanation: getEnvBoolOrDefault("DEFAULT_SHOW_EXPLANATION", defaults.ShowExplanation),
		FontSize:        getEnvFloatOrDefault("DEFAULT_FONT_SIZE", defaults.FontSize),
		GlobalAlign:     exam.Align(getEnvOrDefault("DEFAULT_ALIGN", string(defaults.GlobalAlign))),
	}

	return DocumentConfig{Header: header, Settings: settings.Normalize()}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if config.Import.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Import.LedgerLimit <= 0 {
		return errors.ConfigInvalid("IMPORT_LEDGER_LIMIT must be positive")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
