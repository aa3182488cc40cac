package core

import "github.com/shopspring/decimal"

// MonthTotals holds spending and income for a single month.
type MonthTotals struct {
	Month       string          `json:"month"` // English month name
	Year        int             `json:"year"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// Comparison is the change from the previous month to the current one.
type Comparison struct {
	SpendingChange        decimal.Decimal `json:"spendingChange"`
	SpendingChangePercent decimal.Decimal `json:"spendingChangePercent"`
	IncomeChange          decimal.Decimal `json:"incomeChange"`
	IncomeChangePercent   decimal.Decimal `json:"incomeChangePercent"`
}

// MonthlySummary compares the two most recent months of activity.
type MonthlySummary struct {
	CurrentMonth  MonthTotals `json:"currentMonth"`
	PreviousMonth MonthTotals `json:"previousMonth"`
	Comparison    Comparison  `json:"comparison"`
}

// CategorySlice is one slice of the spending pie, with a positive amount.
type CategorySlice struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}
