// Package fallback holds the fixed payloads served when the finance API
// cannot be reached. Every constructor returns a fresh value, so callers
// may modify what they get.
package fallback

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// amounts builds an ordered mapping from name, value pairs.
func amounts(pairs ...string) core.Amounts {
	out := make(core.Amounts, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, core.CategoryAmount{Name: pairs[i], Amount: d(pairs[i+1])})
	}
	return out
}

// Dashboard is served in place of GET /dashboard.
func Dashboard() core.DashboardData {
	return core.DashboardData{
		Recent: []core.Transaction{},
		Breakdown: amounts(
			"Food & Groceries", "45.50",
			"Transportation", "23.75",
			"Housing & Utilities", "120.00",
			"Entertainment", "35.20",
			"Healthcare", "0",
			"Education", "0",
			"Shopping", "67.80",
			"Other", "15.30",
		),
		BestCardRecommendation: core.RewardCard{
			Card: core.CreditCard{
				ID:                  "fallback",
				CardName:            "Chase Sapphire Preferred",
				Issuer:              "Chase",
				AnnualFee:           d("95"),
				BaseRewardRate:      d("0.01"),
				CategoryRewardRates: amounts("dining", "0.03", "travel", "0.02"),
				SignupBonus:         "60,000 points after spending $4,000",
			},
			ProjectedAnnualRewards: d("245.50"),
			RewardsByCategory:      amounts("dining", "125.30", "travel", "89.20", "other", "31.00"),
			RecommendationReason:   "Best for dining and travel",
		},
		MonthlySpending: []core.MonthSpending{
			{Month: "2025-11", TotalSpent: d("307.55"), TransactionCount: 8},
			{Month: "2025-10", TotalSpent: d("284.30"), TransactionCount: 12},
			{Month: "2025-09", TotalSpent: d("198.75"), TransactionCount: 7},
			{Month: "2025-08", TotalSpent: d("445.20"), TransactionCount: 15},
			{Month: "2025-07", TotalSpent: d("367.90"), TransactionCount: 11},
			{Month: "2025-06", TotalSpent: d("234.60"), TransactionCount: 9},
			{Month: "2025-05", TotalSpent: d("189.40"), TransactionCount: 6},
			{Month: "2025-04", TotalSpent: d("278.80"), TransactionCount: 10},
			{Month: "2025-03", TotalSpent: d("156.25"), TransactionCount: 5},
			{Month: "2025-02", TotalSpent: d("298.45"), TransactionCount: 8},
			{Month: "2025-01", TotalSpent: d("423.10"), TransactionCount: 13},
			{Month: "2024-12", TotalSpent: d("567.25"), TransactionCount: 18},
		},
	}
}

// Rewards is served in place of GET /rewards.
func Rewards() core.RewardsData {
	return core.RewardsData{
		CurrentRewards: core.CurrentRewards{
			TotalPointsEarned:  d("2450"),
			EstimatedCashValue: d("245.50"),
			PointsByCategory: amounts(
				"Grocery", "850",
				"Gas", "620",
				"Dining", "480",
				"Online Shopping", "500",
			),
		},
		RecommendedCards: []core.RewardCard{
			{
				Card: core.CreditCard{
					ID:                  "csp",
					CardName:            "Chase Sapphire Preferred",
					Issuer:              "Chase",
					AnnualFee:           d("95"),
					BaseRewardRate:      d("0.01"),
					CategoryRewardRates: amounts("streaming", "0.03", "dining", "0.03", "travel", "0.02"),
					SignupBonus:         "60,000 points after spending $4,000 in first 3 months",
				},
				ProjectedAnnualRewards: d("855.50"),
				RewardsByCategory:      amounts("Grocery", "125.30", "Gas", "89.20"),
				RecommendationReason:   "Good for grocery and gas spending",
			},
			{
				Card: core.CreditCard{
					ID:                  "bcp",
					CardName:            "Blue Cash Preferred",
					Issuer:              "American Express",
					AnnualFee:           d("95"),
					BaseRewardRate:      d("0.01"),
					CategoryRewardRates: amounts("streaming", "0.06", "transit", "0.03", "gas", "0.03", "groceries", "0.06"),
					SignupBonus:         "$350 back after spending $3,000 in first 6 months",
				},
				ProjectedAnnualRewards: d("649.80"),
				RewardsByCategory:      amounts("Grocery", "180.50", "Gas", "145.75"),
				RecommendationReason:   "Best for streaming and groceries",
			},
			{
				Card: core.CreditCard{
					ID:                  "cov",
					CardName:            "Capital One Venture",
					Issuer:              "Capital One",
					AnnualFee:           d("95"),
					BaseRewardRate:      d("0.02"),
					CategoryRewardRates: amounts("travel", "0.025", "dining", "0.025"),
					SignupBonus:         "75,000 miles after spending $4,000 in first 3 months",
				},
				ProjectedAnnualRewards: d("437.25"),
				RewardsByCategory:      amounts("Travel", "95.50", "Dining", "78.30"),
				RecommendationReason:   "Great for travel and dining",
			},
		},
		MerchantRecommendations: []any{},
	}
}

// Transactions is served in place of GET /transactions.
func Transactions() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "1",
			AccountID:   "ACC-001",
			Date:        "October 19, 2025",
			Description: "Transfer from bank",
			Amount:      d("1000"),
			Category:    "Transfer",
			Name:        "Transfer from bank",
			Time:        "09:09 AM",
			Icon:        "🏦",
		},
	}
}

// Accounts is served in place of GET /accounts.
func Accounts() []core.Account {
	return []core.Account{
		{SubscriptionPlan: "Basic", AccountName: "Chase Checking", Balance: d("5000"), AccountNumber: "acc-001"},
		{SubscriptionPlan: "Basic", AccountName: "Wells Fargo Savings", Balance: d("10000"), AccountNumber: "acc-002"},
	}
}

// AccountTransactions is served in place of GET /accounts/{id}/transactions.
func AccountTransactions() []core.Transaction {
	return []core.Transaction{}
}

// MonthlySummary is served when the transactions behind the monthly
// comparison cannot be fetched.
func MonthlySummary() core.MonthlySummary {
	return core.MonthlySummary{
		CurrentMonth: core.MonthTotals{
			Month:       "November",
			Year:        2024,
			TotalSpent:  d("307.55"),
			TotalIncome: d("8000.00"),
			NetAmount:   d("7692.45"),
		},
		PreviousMonth: core.MonthTotals{
			Month:       "October",
			Year:        2024,
			TotalSpent:  d("284.30"),
			TotalIncome: d("8000.00"),
			NetAmount:   d("7715.70"),
		},
		Comparison: core.Comparison{
			SpendingChange:        d("23.25"),
			SpendingChangePercent: d("8.18"),
			IncomeChange:          decimal.Zero,
			IncomeChangePercent:   decimal.Zero,
		},
	}
}

// CategorySlices is served in place of GET /expenses/pie.
func CategorySlices() []core.CategorySlice {
	return []core.CategorySlice{
		{Label: "Food & Groceries", Amount: d("45.50")},
		{Label: "Transportation", Amount: d("23.75")},
		{Label: "Shopping", Amount: d("67.80")},
		{Label: "Entertainment", Amount: d("35.20")},
		{Label: "Other", Amount: d("15.30")},
	}
}

// Set bundles the payload constructors so they can be swapped in tests.
type Set struct {
	Dashboard           func() core.DashboardData
	Rewards             func() core.RewardsData
	Transactions        func() []core.Transaction
	Accounts            func() []core.Account
	AccountTransactions func() []core.Transaction
	MonthlySummary      func() core.MonthlySummary
	CategorySlices      func() []core.CategorySlice
}

// Default returns the payloads above.
func Default() Set {
	return Set{
		Dashboard:           Dashboard,
		Rewards:             Rewards,
		Transactions:        Transactions,
		Accounts:            Accounts,
		AccountTransactions: AccountTransactions,
		MonthlySummary:      MonthlySummary,
		CategorySlices:      CategorySlices,
	}
}
