package fetchlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func event(id, endpoint string, status int, fallback bool, at time.Time) Event {
	e := Event{ID: id, Endpoint: endpoint, Status: status, DurationMs: 12, Fallback: fallback, At: at}
	if fallback {
		e.Error = "fetch " + endpoint + ": boom"
	}
	return e
}

func backends(t *testing.T) map[string]Log {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "fetch.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Log{
		"memory": NewMemory(10),
		"sqlite": sq,
	}
}

func TestLog_RecentAndStats(t *testing.T) {
	base := time.Date(2025, 10, 16, 9, 0, 0, 0, time.UTC)
	events := []Event{
		event("1", "/dashboard", 200, false, base),
		event("2", "/transactions", 500, true, base.Add(time.Second)),
		event("3", "/dashboard", 0, true, base.Add(2*time.Second)),
		event("4", "/transactions", 200, false, base.Add(3*time.Second)),
	}

	for name, l := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, e := range events {
				if err := l.Record(ctx, e); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}

			recent, err := l.Recent(ctx, 3)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if diff := cmp.Diff([]Event{events[3], events[2], events[1]}, recent); diff != "" {
				t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
			}

			stats, err := l.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			want := []Stat{
				{Endpoint: "/dashboard", Requests: 2, Fallbacks: 1, LastStatus: 0, LastError: "fetch /dashboard: boom", LastAt: events[2].At},
				{Endpoint: "/transactions", Requests: 2, Fallbacks: 1, LastStatus: 200, LastAt: events[3].At},
			}
			if diff := cmp.Diff(want, stats); diff != "" {
				t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
			}
			if stats[0].Healthy() || !stats[1].Healthy() {
				t.Error("Healthy() reports the wrong endpoint")
			}
		})
	}
}

func TestMemory_RingWraps(t *testing.T) {
	m := NewMemory(3)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		_ = m.Record(ctx, event(id, "/rewards", 200, false, time.Unix(int64(i), 0).UTC()))
	}

	recent, _ := m.Recent(ctx, 0)
	var ids []string
	for _, e := range recent {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"e", "d", "c"}, ids); diff != "" {
		t.Errorf("Recent() ids mismatch (-want +got):\n%s", diff)
	}

	stats, _ := m.Stats(ctx)
	if len(stats) != 1 || stats[0].Requests != 5 {
		t.Errorf("Stats() = %+v, want 5 requests kept past the ring", stats)
	}
}

func TestMemory_Empty(t *testing.T) {
	m := NewMemory(0)
	recent, err := m.Recent(context.Background(), 5)
	if err != nil || len(recent) != 0 {
		t.Errorf("Recent() = %v, %v", recent, err)
	}
}

func TestSQLite_ReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := first.Record(ctx, event("x", "/accounts", 200, false, time.Unix(100, 0).UTC())); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	first.Close()

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() again error = %v", err)
	}
	defer second.Close()
	recent, err := second.Recent(ctx, 10)
	if err != nil || len(recent) != 1 || recent[0].ID != "x" {
		t.Errorf("Recent() after reopen = %v, %v", recent, err)
	}
}

func TestNewEvent(t *testing.T) {
	ok := NewEvent("/dashboard", 200, 1500*time.Millisecond, nil)
	if ok.ID == "" || ok.Fallback || ok.Error != "" || ok.DurationMs != 1500 {
		t.Errorf("NewEvent(ok) = %+v", ok)
	}
	failed := NewEvent("/dashboard", 502, 0, errors.New("bad gateway"))
	if !failed.Fallback || failed.Error != "bad gateway" {
		t.Errorf("NewEvent(err) = %+v", failed)
	}
	if ok.ID == failed.ID {
		t.Error("NewEvent reused an id")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Backend: MemoryBackend}, false},
		{"sqlite", Config{Backend: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "f.db")}, false},
		{"sqlite without path", Config{Backend: SQLiteBackend}, true},
		{"unknown", Config{Backend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Open(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if l != nil {
				l.Close()
			}
		})
	}
}
