package transactions

import (
	"strings"

	"finboard/internal/core"
)

// AllAccounts scopes the view to every account.
const AllAccounts = "all"

// View is the user-controlled state of the transactions view.
type View struct {
	Account string
	Query   string
	Sort    SortMode
}

// DefaultView shows all accounts, unfiltered, latest first.
func DefaultView() View {
	return View{Account: AllAccounts, Sort: DefaultSort}
}

// ParseAccount accepts AllAccounts or one of the known account numbers.
// Any other value resolves to AllAccounts.
func ParseAccount(value string, known []core.Account) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, AllAccounts) {
		return AllAccounts
	}
	for _, a := range known {
		if a.AccountNumber == value {
			return value
		}
	}
	return AllAccounts
}

// Apply derives the visible list from raw: filter by the query, then sort.
func Apply(raw []core.Transaction, v View) []core.Transaction {
	return Sort(Filter(raw, v.Query), v.Sort)
}

// Listing pairs the raw list fetched for one account scope with the list
// derived from it. Visible is always recomputed from Raw and never edited
// in place.
type Listing struct {
	View    View
	Raw     []core.Transaction
	Visible []core.Transaction
}

// NewListing derives a listing for raw under v.
func NewListing(raw []core.Transaction, v View) Listing {
	return Listing{View: v, Raw: raw, Visible: Apply(raw, v)}
}

// WithQuery changes the search text and re-derives the visible list.
func (l Listing) WithQuery(q string) Listing {
	v := l.View
	v.Query = q
	return NewListing(l.Raw, v)
}

// WithSort changes the ordering and re-derives the visible list.
func (l Listing) WithSort(m SortMode) Listing {
	v := l.View
	v.Sort = m
	return NewListing(l.Raw, v)
}

// Reload replaces the raw list wholesale after an account switch. The
// query and ordering are kept and applied to the new data.
func (l Listing) Reload(account string, raw []core.Transaction) Listing {
	v := l.View
	v.Account = account
	return NewListing(raw, v)
}
