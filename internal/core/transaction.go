// Package core holds the data model shared by the fetch layer, the
// transaction pipeline and the views.
//
// None of these entities are owned by this application: they are received
// from the finance API (or a fallback payload), displayed, and discarded.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a record identifier that the API sends either as a JSON number or
// as a JSON string. It is always kept in its string form.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

func (id ID) String() string { return string(id) }

// Transaction is a single ledger entry. A negative Amount is a debit,
// anything else is a credit.
//
// Name, Time and Icon are derived for display; the API leaves them empty.
type Transaction struct {
	ID          ID              `json:"id"`
	AccountID   string          `json:"accountId"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`

	Name string `json:"name,omitempty"`
	Time string `json:"time,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// IsDebit reports whether the transaction takes money out of the account.
func (t Transaction) IsDebit() bool { return t.Amount.IsNegative() }

// DisplayName is the name shown in lists, falling back to the description.
func (t Transaction) DisplayName() string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	return t.Description
}

// Account is one of the user's bank or card accounts.
type Account struct {
	AccountNumber    string          `json:"accountNumber"`
	AccountName      string          `json:"accountName"`
	Balance          decimal.Decimal `json:"balance"`
	SubscriptionPlan string          `json:"subscriptionPlan"`
}
