package fetchlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite persists fetch events in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Log = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// the schema migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Record(ctx context.Context, e Event) error {
	const q = `INSERT INTO fetch_events (id, endpoint, status, duration_ms, fallback, error, at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		e.ID, e.Endpoint, e.Status, e.DurationMs, boolToInt(e.Fallback), e.Error, e.At.UnixNano())
	if err != nil {
		return fmt.Errorf("insert fetch event: %w", err)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = -1
	}
	const q = `SELECT id, endpoint, status, duration_ms, fallback, error, at
FROM fetch_events ORDER BY at DESC, rowid DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent fetch events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e        Event
			fallback int
			at       int64
		)
		if err := rows.Scan(&e.ID, &e.Endpoint, &e.Status, &e.DurationMs, &fallback, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("scan fetch event: %w", err)
		}
		e.Fallback = fallback != 0
		e.At = time.Unix(0, at).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetch events: %w", err)
	}
	return out, nil
}

func (s *SQLite) Stats(ctx context.Context) ([]Stat, error) {
	const q = `SELECT e.endpoint, agg.requests, agg.fallbacks, e.status, e.error, e.at
FROM fetch_events e
JOIN (
    SELECT endpoint, COUNT(*) AS requests, SUM(fallback) AS fallbacks, MAX(rowid) AS last_row
    FROM fetch_events GROUP BY endpoint
) agg ON e.rowid = agg.last_row
ORDER BY e.endpoint`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query fetch stats: %w", err)
	}
	defer rows.Close()

	var out []Stat
	for rows.Next() {
		var (
			st Stat
			at int64
		)
		if err := rows.Scan(&st.Endpoint, &st.Requests, &st.Fallbacks, &st.LastStatus, &st.LastError, &at); err != nil {
			return nil, fmt.Errorf("scan fetch stat: %w", err)
		}
		st.LastAt = time.Unix(0, at).UTC()
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetch stats: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
