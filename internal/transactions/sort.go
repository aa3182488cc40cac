package transactions

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// SortMode selects the ordering of the transactions view.
type SortMode string

const (
	SortLatest     SortMode = "Latest"
	SortOldest     SortMode = "Oldest"
	SortAmountHigh SortMode = "Amount High"
	SortAmountLow  SortMode = "Amount Low"
)

// DefaultSort is the ordering used when none was chosen.
const DefaultSort = SortLatest

// SortModes lists every mode in the order the sort selector shows them.
func SortModes() []SortMode {
	return []SortMode{SortLatest, SortOldest, SortAmountHigh, SortAmountLow}
}

// Valid reports whether m is one of the known modes.
func (m SortMode) Valid() bool {
	switch m {
	case SortLatest, SortOldest, SortAmountHigh, SortAmountLow:
		return true
	}
	return false
}

// ParseSortMode maps a selector value to a mode. Matching ignores case and
// surrounding space; anything else yields DefaultSort and false.
func ParseSortMode(s string) (SortMode, bool) {
	s = strings.TrimSpace(s)
	for _, m := range SortModes() {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return DefaultSort, false
}

type keyed struct {
	tx     core.Transaction
	at     time.Time
	amount decimal.Decimal
}

// Sort returns list ordered by mode without modifying it. Equal keys keep
// their input order. An unknown mode returns a copy in the original order.
func Sort(list []core.Transaction, mode SortMode) []core.Transaction {
	if !mode.Valid() {
		return slices.Clone(list)
	}

	items := make([]keyed, len(list))
	for i, t := range list {
		items[i] = keyed{tx: t, amount: t.Amount}
		if mode == SortLatest || mode == SortOldest {
			items[i].at = Timestamp(t)
		}
	}

	var cmp func(a, b keyed) int
	switch mode {
	case SortLatest:
		cmp = func(a, b keyed) int { return b.at.Compare(a.at) }
	case SortOldest:
		cmp = func(a, b keyed) int { return a.at.Compare(b.at) }
	case SortAmountHigh:
		cmp = func(a, b keyed) int { return b.amount.Cmp(a.amount) }
	case SortAmountLow:
		cmp = func(a, b keyed) int { return a.amount.Cmp(b.amount) }
	}
	slices.SortStableFunc(items, cmp)

	out := make([]core.Transaction, len(items))
	for i, it := range items {
		out[i] = it.tx
	}
	return out
}
