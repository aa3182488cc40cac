package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Colours used for credit and debit amounts in transaction lists.
const (
	CreditColor = "#7ED321"
	DebitColor  = "#ff4757"
)

// FormattedAmount is an amount ready for display in a transaction row.
type FormattedAmount struct {
	Text  string
	Color string
}

// FormatAmount renders a signed transaction amount.
//
// Credits are shown with a leading '+' and no decimals ("+$1000"). Debits
// keep two decimals unless they are whole ("-$7.49", "-$200").
//
//	FormatAmount(decimal.NewFromInt(1000))      -> {"+$1000", CreditColor}
//	FormatAmount(decimal.RequireFromString("-7.49")) -> {"-$7.49", DebitColor}
func FormatAmount(amount decimal.Decimal) FormattedAmount {
	abs := amount.Abs()
	if !amount.IsNegative() {
		return FormattedAmount{Text: "+$" + abs.StringFixed(0), Color: CreditColor}
	}
	places := int32(2)
	if abs.Equal(abs.Truncate(0)) {
		places = 0
	}
	return FormattedAmount{Text: "-$" + abs.StringFixed(places), Color: DebitColor}
}

// FormatCurrency renders an amount in dollars with thousands separators and
// two decimals, e.g. "$15,847.90" or "-$42.89".
func FormatCurrency(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatWhole renders an amount rounded to whole dollars with separators.
func FormatWhole(amount decimal.Decimal) string {
	s := FormatCurrency(amount.Round(0))
	return strings.TrimSuffix(s, ".00")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
