package transactions

import (
	"strings"

	"finboard/internal/core"
)

// Filter returns the records whose name, id, category or description
// contains query, compared case-insensitively after trimming the query.
//
// An empty or whitespace-only query returns list itself. Otherwise a new
// slice is returned, in input order.
func Filter(list []core.Transaction, query string) []core.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}

	out := make([]core.Transaction, 0, len(list))
	for _, t := range list {
		if matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t core.Transaction, q string) bool {
	for _, field := range [...]string{t.DisplayName(), t.ID.String(), t.Category, t.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
