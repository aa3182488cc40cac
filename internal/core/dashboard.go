package core

import "github.com/shopspring/decimal"

// CreditCard describes a card product the API can recommend.
type CreditCard struct {
	ID                  string          `json:"id"`
	CardName            string          `json:"cardName"`
	Issuer              string          `json:"issuer"`
	AnnualFee           decimal.Decimal `json:"annualFee"`
	BaseRewardRate      decimal.Decimal `json:"baseRewardRate"`
	CategoryRewardRates Amounts         `json:"categoryRewardRates"`
	SignupBonus         string          `json:"signupBonus"`
	Benefits            *string         `json:"benefits"`
	APR                 *string         `json:"apr"`
}

// RewardCard is a card scored against the user's spending.
type RewardCard struct {
	Card                   CreditCard      `json:"card"`
	ProjectedAnnualRewards decimal.Decimal `json:"projectedAnnualRewards"`
	RewardsByCategory      Amounts         `json:"rewardsByCategory"`
	RecommendationReason   string          `json:"recommendationReason"`
}

// MonthSpending is the spending total for one calendar month, keyed "YYYY-MM".
type MonthSpending struct {
	Month            string          `json:"month"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TransactionCount int             `json:"transactionCount"`
}

// DashboardData is the payload of GET /dashboard.
type DashboardData struct {
	Recent                 []Transaction   `json:"recent"`
	Breakdown              Amounts         `json:"breakdown"`
	BestCardRecommendation RewardCard      `json:"bestCardRecommendation"`
	MonthlySpending        []MonthSpending `json:"monthlySpending"`
}

// CurrentRewards summarises points already earned.
type CurrentRewards struct {
	TotalPointsEarned   decimal.Decimal `json:"totalPointsEarned"`
	EstimatedCashValue  decimal.Decimal `json:"estimatedCashValue"`
	PointsByCategory    Amounts         `json:"pointsByCategory"`
	MissedOpportunities []any           `json:"missedOpportunities"`
}

// RewardsData is the payload of GET /rewards.
type RewardsData struct {
	CurrentRewards          CurrentRewards `json:"currentRewards"`
	RecommendedCards        []RewardCard   `json:"recommendedCards"`
	MerchantRecommendations []any          `json:"merchantRecommendations"`
}
