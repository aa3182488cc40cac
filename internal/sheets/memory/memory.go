// Package memory is an in-process TransactionExporter used for dry runs and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finboard/internal/core"
	ports "finboard/internal/sheets"
)

var _ ports.TransactionExporter = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	rows [][]any
	ids  map[string]bool
}

func New() *Store {
	return &Store{ids: map[string]bool{}}
}

// Export appends the records not exported before and returns a synthetic
// range reference.
func (s *Store) Export(ctx context.Context, list []core.Transaction) (ports.ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.ExportResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, skipped := ports.NewRows(list, s.ids)
	res := ports.ExportResult{Appended: len(rows), Skipped: skipped}
	if len(rows) == 0 {
		return res, nil
	}
	if len(s.rows) == 0 {
		s.rows = append(s.rows, ports.Header)
	}
	first := len(s.rows) + 1
	for _, r := range rows {
		s.rows = append(s.rows, r)
		s.ids[fmt.Sprint(r[0])] = true
	}
	res.Range = fmt.Sprintf("mem!A%d:G%d", first, len(s.rows))
	return res, nil
}

// Rows returns a copy of everything written so far, header included.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.rows...)
}
