package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata"

	"ledger/internal/logger"
)

type Config struct {
	// Ledger API Configuration
	APIURL     string
	APITimeout time.Duration

	// Presentation
	TimeZone       string
	CurrencyPrefix string

	// Statement Export Configuration
	StatementOutputDir   string
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Google Cloud Configuration (receipt scanning)
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// OpenAI Configuration (receipt completion)
	OpenAIAPIKey string
	OpenAIModel  string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string

	location *time.Location
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("LEDGER_API_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: LEDGER_API_TIMEOUT: %w", err)
	}

	config := &Config{
		APIURL:                     getEnv("LEDGER_API_URL", "http://localhost:5050/"),
		APITimeout:                 timeout,
		TimeZone:                   getEnv("LEDGER_TIMEZONE", ""),
		CurrencyPrefix:             getEnv("LEDGER_CURRENCY_PREFIX", "Rs"),
		StatementOutputDir:         getEnv("STATEMENT_OUTPUT_DIR", "."),
		GoogleSheetURL:             getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:       getEnv("GOOGLE_SHEET_WORKSHEET", "Statement"),
		GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		OpenAIAPIKey:               getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:                getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		LogFormat:                  getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                  getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks the settings every command depends on. Google and OpenAI
// settings are checked by the commands that use them.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LEDGER_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("LEDGER_API_TIMEOUT must not be negative")
	}

	loc := time.Local
	if c.TimeZone != "" {
		if loc, err = time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("LEDGER_TIMEZONE: %w", err)
		}
	}
	c.location = loc

	return nil
}

// Location is the time zone used for date filters and timestamps.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
