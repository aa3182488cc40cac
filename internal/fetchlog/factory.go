package fetchlog

import (
	"fmt"

	"finboard/internal/log"
)

// BackendType selects where fetch events are kept.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// BackendTypes returns all valid backend types
func BackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend}
}

// Config holds what Open needs to build a backend.
type Config struct {
	Backend      BackendType
	SQLiteDBPath string
	// Capacity bounds the memory backend; zero means DefaultCapacity.
	Capacity int
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Backend.IsValid() {
		return fmt.Errorf("invalid fetch log backend: %q", c.Backend)
	}
	if c.Backend == SQLiteBackend && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	return nil
}

// Open builds the backend selected by cfg.
func Open(cfg Config, logger *log.Logger) (Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentFetchLog)

	switch cfg.Backend {
	case SQLiteBackend:
		store, err := OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite fetch log: %w", err)
		}
		logger.Info("Initialized SQLite fetch log", "db_path", cfg.SQLiteDBPath)
		return store, nil
	default:
		logger.Info("Initialized memory fetch log", "capacity", cfg.Capacity)
		return NewMemory(cfg.Capacity), nil
	}
}
