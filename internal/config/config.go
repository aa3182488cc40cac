package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"finboard/internal/fetchlog"
	"finboard/internal/log"
	"finboard/internal/upstream"
)

type Config struct {
	// HTTP Server
	Port         string
	RateLimitRPM int
	DisplayName  string

	// Finance API
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
	CacheSize       int

	// Fetch log
	FetchLogBackend  string
	FetchLogCapacity int
	SQLiteDBPath     string

	// AMQP (optional; empty URL disables outage events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string
	ExportInterval      time.Duration

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		RateLimitRPM: getEnvInt("RATE_LIMIT_RPM", 120),
		DisplayName:  getEnv("DISPLAY_NAME", "Nhien, Pham"),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", upstream.DefaultBaseURL),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		CacheTTL:        getEnvDuration("UPSTREAM_CACHE_TTL", 0),
		CacheSize:       getEnvInt("UPSTREAM_CACHE_SIZE", 64),

		FetchLogBackend:  getEnv("FETCHLOG_BACKEND", fetchlog.MemoryBackend.String()),
		FetchLogCapacity: getEnvInt("FETCHLOG_CAPACITY", fetchlog.DefaultCapacity),
		SQLiteDBPath:     getEnv("SQLITE_DB_PATH", "./data/finboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "upstream_fallbacks"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		ExportInterval:      getEnvDuration("EXPORT_INTERVAL", 15*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitRPM < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be zero (disabled) or positive", c.RateLimitRPM))
	}

	// Validate finance API
	if parsedURL, err := url.Parse(c.UpstreamBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid upstream URL '%s': %v", c.UpstreamBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid upstream URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	} else if parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid upstream URL '%s': missing host", c.UpstreamBaseURL))
	}

	if c.UpstreamTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must be at least 100ms", c.UpstreamTimeout))
	} else if c.UpstreamTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must be at most 5 minutes", c.UpstreamTimeout))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.CacheTTL > 0 && c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1 when caching is enabled", c.CacheSize))
	}

	// Validate fetch log backend
	backend := fetchlog.BackendType(c.FetchLogBackend)
	if !backend.IsValid() {
		errors = append(errors, fmt.Sprintf("invalid fetch log backend '%s': must be one of %v", c.FetchLogBackend, fetchlog.BackendTypes()))
	}
	if backend == fetchlog.SQLiteBackend && strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}
	if backend == fetchlog.MemoryBackend && c.FetchLogCapacity < 1 {
		errors = append(errors, fmt.Sprintf("invalid fetch log capacity %d: must be at least 1", c.FetchLogCapacity))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateExport checks the settings the sheets exporter needs on top of
// Validate.
func (c *Config) ValidateExport() error {
	var errors []string

	if strings.TrimSpace(c.GoogleSpreadsheetID) == "" {
		errors = append(errors, "Google Spreadsheet ID is required for the sheets export")
	}
	if strings.TrimSpace(c.GoogleSheetName) == "" {
		errors = append(errors, "Google Sheet name is required for the sheets export")
	}
	if c.ExportInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 minute", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// FetchLog returns the fetch log backend settings.
func (c *Config) FetchLog() fetchlog.Config {
	return fetchlog.Config{
		Backend:      fetchlog.BackendType(c.FetchLogBackend),
		SQLiteDBPath: c.SQLiteDBPath,
		Capacity:     c.FetchLogCapacity,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
