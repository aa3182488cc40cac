package transactions

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

var hundred = decimal.NewFromInt(100)

// RecentPurchases returns up to limit debits in feed order.
func RecentPurchases(list []core.Transaction, limit int) []core.Transaction {
	if limit <= 0 {
		return nil
	}
	out := make([]core.Transaction, 0, limit)
	for _, t := range list {
		if len(out) == limit {
			break
		}
		if t.IsDebit() {
			out = append(out, t)
		}
	}
	return out
}

type yearMonth struct {
	year  int
	month time.Month
}

func (ym yearMonth) previous() yearMonth {
	if ym.month == time.January {
		return yearMonth{ym.year - 1, time.December}
	}
	return yearMonth{ym.year, ym.month - 1}
}

func (ym yearMonth) less(o yearMonth) bool {
	if ym.year != o.year {
		return ym.year < o.year
	}
	return ym.month < o.month
}

// Summarize compares the two most recent months present in list. With a
// single month of data the previous month is the calendar month before it;
// with no parseable dates the current month is taken from now.
//
// Spending is the sum of debits. Income counts credits categorised as
// "income" or whose description mentions a salary or paycheck.
func Summarize(list []core.Transaction, now time.Time) core.MonthlySummary {
	months := map[yearMonth]bool{}
	for _, t := range list {
		if d, _, ok := ParseDate(t.Date); ok {
			months[yearMonth{d.Year(), d.Month()}] = true
		}
	}
	present := make([]yearMonth, 0, len(months))
	for ym := range months {
		present = append(present, ym)
	}
	slices.SortFunc(present, func(a, b yearMonth) int {
		switch {
		case b.less(a):
			return -1
		case a.less(b):
			return 1
		}
		return 0
	})

	var current, previous yearMonth
	switch len(present) {
	case 0:
		current = yearMonth{now.Year(), now.Month()}
		previous = current.previous()
	case 1:
		current = present[0]
		previous = current.previous()
	default:
		current, previous = present[0], present[1]
	}

	cur := totalsFor(list, current)
	prev := totalsFor(list, previous)

	spendingChange := cur.TotalSpent.Sub(prev.TotalSpent)
	incomeChange := cur.TotalIncome.Sub(prev.TotalIncome)
	return core.MonthlySummary{
		CurrentMonth:  cur,
		PreviousMonth: prev,
		Comparison: core.Comparison{
			SpendingChange:        spendingChange,
			SpendingChangePercent: percentOf(spendingChange, prev.TotalSpent),
			IncomeChange:          incomeChange,
			IncomeChangePercent:   percentOf(incomeChange, prev.TotalIncome),
		},
	}
}

func totalsFor(list []core.Transaction, ym yearMonth) core.MonthTotals {
	spent, income := decimal.Zero, decimal.Zero
	for _, t := range list {
		d, _, ok := ParseDate(t.Date)
		if !ok || d.Year() != ym.year || d.Month() != ym.month {
			continue
		}
		switch {
		case t.IsDebit():
			spent = spent.Add(t.Amount.Abs())
		case t.Amount.IsPositive() && isIncome(t):
			income = income.Add(t.Amount)
		}
	}
	return core.MonthTotals{
		Month:       ym.month.String(),
		Year:        ym.year,
		TotalSpent:  spent,
		TotalIncome: income,
		NetAmount:   income.Sub(spent),
	}
}

func isIncome(t core.Transaction) bool {
	if t.Category == "income" {
		return true
	}
	desc := strings.ToLower(t.Description)
	return strings.Contains(desc, "salary") || strings.Contains(desc, "paycheck")
}

// percentOf returns change as a percentage of base, rounded to two places,
// or zero when base is not positive.
func percentOf(change, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return change.Div(base).Mul(hundred).Round(2)
}
