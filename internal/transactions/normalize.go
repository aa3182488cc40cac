// Package transactions implements the transaction pipeline behind the
// transactions view: normalization of API records, free-text filtering,
// ordering, and the view state that ties them together.
package transactions

import (
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/category"
	"finboard/internal/core"
)

var minusHundred = decimal.NewFromInt(-100)

// Normalize fills the derived display fields of every record and returns a
// new slice; raw is left untouched.
//
//   - Name defaults to the description.
//   - Icon comes from the category resolver.
//   - Time is taken from the date when the date carries a time of day.
//   - AccountID is assigned from spending patterns when the API sent none.
func Normalize(raw []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(raw))
	for i, t := range raw {
		if strings.TrimSpace(t.Name) == "" {
			t.Name = t.Description
		}
		if t.Icon == "" {
			t.Icon = category.Icon(t.Category)
		}
		if t.Time == "" {
			if d, hasClock, ok := ParseDate(t.Date); ok && hasClock {
				t.Time = formatClock(d)
			}
		}
		if strings.TrimSpace(t.AccountID) == "" {
			t.AccountID = AssignAccount(t, i)
		}
		out[i] = t
	}
	return out
}

// AssignAccount guesses the account a transaction belongs to from its
// category, description, amount and position in the feed. It only matters
// for feeds that do not carry account ids.
func AssignAccount(t core.Transaction, index int) string {
	cat := strings.ToLower(t.Category)
	desc := strings.ToLower(t.Description)

	switch {
	case strings.Contains(cat, "food"), strings.Contains(cat, "groceries"),
		strings.Contains(desc, "starbucks"), strings.Contains(desc, "wholefoods"):
		return "acc-002"
	case strings.Contains(cat, "transport"), strings.Contains(cat, "gas"),
		strings.Contains(desc, "gas"), strings.Contains(desc, "uber"):
		return "acc-003"
	case t.Amount.IsPositive():
		if index%2 == 0 {
			return "acc-001"
		}
		return "acc-006"
	case t.Amount.GreaterThan(minusHundred):
		if index%2 == 0 {
			return "acc-005"
		}
		return "acc-007"
	}

	switch index % 3 {
	case 0:
		return "acc-001"
	case 1:
		return "acc-004"
	default:
		return "acc-006"
	}
}
