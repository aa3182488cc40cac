package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Amounts is a category->amount mapping that keeps the key order of the
// JSON object it was decoded from. The API sends breakdowns as plain
// objects and the views render them in that order.
type Amounts []CategoryAmount

// Get returns the amount stored under name.
func (a Amounts) Get(name string) (decimal.Decimal, bool) {
	for _, c := range a {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}

// Total sums every amount.
func (a Amounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a {
		total = total.Add(c.Amount)
	}
	return total
}

// Max returns the entry with the largest amount and false when empty.
func (a Amounts) Max() (CategoryAmount, bool) {
	if len(a) == 0 {
		return CategoryAmount{}, false
	}
	best := a[0]
	for _, c := range a[1:] {
		if c.Amount.GreaterThan(best.Amount) {
			best = c
		}
	}
	return best, true
}

// Clone returns a copy that shares nothing with a.
func (a Amounts) Clone() Amounts {
	if a == nil {
		return nil
	}
	out := make(Amounts, len(a))
	copy(out, a)
	return out
}

// UnmarshalJSON decodes a JSON object, preserving key order. Values may be
// numbers or numeric strings; null yields an empty mapping.
func (a *Amounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode amounts: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("decode amounts: expected object")
	}

	out := Amounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode amounts: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("decode amounts: expected string key")
		}
		var v decimal.NullDecimal
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode amount %q: %w", key, err)
		}
		out = append(out, CategoryAmount{Name: key, Amount: v.Decimal})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode amounts: %w", err)
	}
	*a = out
	return nil
}

// MarshalJSON encodes the mapping as an object in slice order.
func (a Amounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(c.Amount.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
