package sheets

import (
	"strings"

	"finboard/internal/core"
)

// Header is the first row of an export sheet.
var Header = []any{"ID", "Date", "Time", "Description", "Category", "Amount", "Account"}

// Row lays t out in Header order. The amount keeps its sign and two
// decimals so the sheet can total it.
func Row(t core.Transaction) []any {
	return []any{
		t.ID.String(),
		t.Date,
		t.Time,
		t.Description,
		t.Category,
		t.Amount.StringFixed(2),
		t.AccountID,
	}
}

// NewRows returns the rows for the records of list whose ID is not in
// existing, plus how many were skipped. Duplicate IDs within list are
// written once.
func NewRows(list []core.Transaction, existing map[string]bool) (rows [][]any, skipped int) {
	seen := make(map[string]bool, len(existing)+len(list))
	for id := range existing {
		seen[id] = true
	}
	for _, t := range list {
		id := strings.TrimSpace(t.ID.String())
		if id != "" && seen[id] {
			skipped++
			continue
		}
		if id != "" {
			seen[id] = true
		}
		rows = append(rows, Row(t))
	}
	return rows, skipped
}
