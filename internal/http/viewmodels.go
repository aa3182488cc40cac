package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"finboard/internal/category"
	"finboard/internal/core"
	"finboard/internal/fetchlog"
	"finboard/internal/services"
	"finboard/internal/transactions"
)

// Number of card gradients defined in app.css.
const cardGradients = 3

var hundred = decimal.NewFromInt(100)

type bar struct {
	Label string
	Value string
	Color string
	Width int // percent of the largest value, 0-100
}

// newBars scales amounts against the largest one. Non-zero values get at
// least 2% so they stay visible.
func newBars(labels []string, values []decimal.Decimal, format func(decimal.Decimal) string) []bar {
	largest := decimal.Zero
	for _, v := range values {
		if v.Abs().GreaterThan(largest) {
			largest = v.Abs()
		}
	}
	out := make([]bar, 0, len(values))
	for i, v := range values {
		b := bar{Label: labels[i], Value: format(v), Color: category.Color(labels[i])}
		if largest.IsPositive() && !v.IsZero() {
			b.Width = int(v.Abs().Mul(hundred).Div(largest).Round(0).IntPart())
			b.Width = min(max(b.Width, 2), 100)
		}
		out = append(out, b)
	}
	return out
}

func amountBars(a core.Amounts) []bar {
	labels := make([]string, len(a))
	values := make([]decimal.Decimal, len(a))
	for i, ca := range a {
		labels[i], values[i] = ca.Name, ca.Amount
	}
	return newBars(labels, values, core.FormatCurrency)
}

type txRow struct {
	ID       string
	Name     string
	Icon     string
	Category string
	Date     string
	Time     string
	Amount   string
	Debit    bool
}

func newTxRows(list []core.Transaction) []txRow {
	rows := make([]txRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, txRow{
			ID:       t.ID.String(),
			Name:     t.DisplayName(),
			Icon:     txIcon(t),
			Category: t.Category,
			Date:     displayDate(t.Date, "Jan 2, 2006"),
			Time:     t.Time,
			Amount:   core.FormatAmount(t.Amount).Text,
			Debit:    t.IsDebit(),
		})
	}
	return rows
}

func txIcon(t core.Transaction) string {
	if t.Icon != "" {
		return t.Icon
	}
	return category.Icon(t.Category)
}

// displayDate reformats a parseable date and passes anything else through.
func displayDate(s, layout string) string {
	if d, _, ok := transactions.ParseDate(s); ok {
		return d.Format(layout)
	}
	return s
}

type accountOption struct {
	Value    string
	Label    string
	Selected bool
}

type sortOption struct {
	Value    string
	Selected bool
}

type transactionsModel struct {
	Accounts []accountOption
	Sorts    []sortOption
	Query    string
	Rows     []txRow
	Shown    int
	Total    int
}

func newTransactionsModel(tv services.TransactionsView) transactionsModel {
	v := tv.Listing.View
	m := transactionsModel{
		Query: v.Query,
		Rows:  newTxRows(tv.Listing.Visible),
		Shown: len(tv.Listing.Visible),
		Total: len(tv.Listing.Raw),
	}
	m.Accounts = append(m.Accounts, accountOption{
		Value:    transactions.AllAccounts,
		Label:    "All Accounts",
		Selected: v.Account == transactions.AllAccounts,
	})
	for _, a := range tv.Accounts {
		m.Accounts = append(m.Accounts, accountOption{
			Value:    a.AccountNumber,
			Label:    a.AccountName,
			Selected: v.Account == a.AccountNumber,
		})
	}
	for _, s := range transactions.SortModes() {
		m.Sorts = append(m.Sorts, sortOption{Value: string(s), Selected: s == v.Sort})
	}
	return m
}

type recentItem struct {
	Icon string
	Name string
	Date string
}

type cardModel struct {
	Name       string
	Issuer     string
	Reward     string
	Reason     string
	Fee        string
	Bonus      string
	Gradient   int
	Categories []bar
}

func newCardModel(rc core.RewardCard, index int) cardModel {
	return cardModel{
		Name:       rc.Card.CardName,
		Issuer:     rc.Card.Issuer,
		Reward:     core.FormatCurrency(rc.ProjectedAnnualRewards),
		Reason:     rc.RecommendationReason,
		Fee:        core.FormatWhole(rc.Card.AnnualFee),
		Bonus:      rc.Card.SignupBonus,
		Gradient:   index % cardGradients,
		Categories: amountBars(rc.RewardsByCategory),
	}
}

type summaryModel struct {
	Month          string
	Previous       string
	Spent          string
	Income         string
	Net            string
	SpendingChange string
	SpendingUp     bool
	IncomeChange   string
	IncomeUp       bool
}

func newSummaryModel(s core.MonthlySummary) summaryModel {
	cur, prev := s.CurrentMonth, s.PreviousMonth
	return summaryModel{
		Month:          monthLabel(cur.Month, cur.Year),
		Previous:       monthLabel(prev.Month, prev.Year),
		Spent:          core.FormatCurrency(cur.TotalSpent),
		Income:         core.FormatCurrency(cur.TotalIncome),
		Net:            core.FormatCurrency(cur.NetAmount),
		SpendingChange: percentLabel(s.Comparison.SpendingChangePercent),
		SpendingUp:     s.Comparison.SpendingChange.IsPositive(),
		IncomeChange:   percentLabel(s.Comparison.IncomeChangePercent),
		IncomeUp:       s.Comparison.IncomeChange.IsPositive(),
	}
}

func monthLabel(month string, year int) string {
	if month == "" {
		return ""
	}
	if year == 0 {
		return month
	}
	return month + " " + strconv.Itoa(year)
}

func percentLabel(p decimal.Decimal) string {
	s := p.StringFixed(1) + "%"
	if p.IsPositive() {
		return "+" + s
	}
	return s
}

type dashboardModel struct {
	Summary   summaryModel
	Months    []bar
	Recent    []recentItem
	Breakdown []bar
	Slices    []bar
	BestCard  cardModel
	Cards     []cardModel
}

// bestCards is how many recommendations the dashboard lists beside the
// best card.
const bestCards = 3

func newDashboardModel(dv services.DashboardView) dashboardModel {
	m := dashboardModel{
		Summary:   newSummaryModel(dv.Summary),
		Breakdown: amountBars(dv.Data.Breakdown),
		BestCard:  newCardModel(dv.Data.BestCardRecommendation, 0),
	}

	labels := make([]string, len(dv.Data.MonthlySpending))
	values := make([]decimal.Decimal, len(dv.Data.MonthlySpending))
	for i, ms := range dv.Data.MonthlySpending {
		labels[i], values[i] = monthShort(ms.Month), ms.TotalSpent
	}
	m.Months = newBars(labels, values, core.FormatWhole)

	labels = make([]string, len(dv.Slices))
	values = make([]decimal.Decimal, len(dv.Slices))
	for i, s := range dv.Slices {
		labels[i], values[i] = s.Label, s.Amount
	}
	m.Slices = newBars(labels, values, core.FormatCurrency)
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	if total.IsPositive() {
		for i := range m.Slices {
			m.Slices[i].Value = values[i].Mul(hundred).Div(total).StringFixed(0) + "%"
		}
	}

	for _, t := range dv.Recent {
		m.Recent = append(m.Recent, recentItem{
			Icon: txIcon(t),
			Name: t.DisplayName(),
			Date: displayDate(t.Date, "Jan 2"),
		})
	}
	for i, rc := range dv.Rewards.RecommendedCards {
		if i == bestCards {
			break
		}
		m.Cards = append(m.Cards, newCardModel(rc, i))
	}
	return m
}

// monthShort turns "2025-03" into "Mar".
func monthShort(s string) string {
	if t, err := time.Parse("2006-01", s); err == nil {
		return t.Format("Jan")
	}
	return s
}

type rewardsModel struct {
	Points     string
	CashValue  string
	ByCategory []bar
	Cards      []cardModel
}

func newRewardsModel(r core.RewardsData) rewardsModel {
	m := rewardsModel{
		Points:     humanize.Comma(r.CurrentRewards.TotalPointsEarned.Round(0).IntPart()),
		CashValue:  core.FormatCurrency(r.CurrentRewards.EstimatedCashValue),
		ByCategory: amountBars(r.CurrentRewards.PointsByCategory),
	}
	for i := range m.ByCategory {
		m.ByCategory[i].Value = humanize.Comma(r.CurrentRewards.PointsByCategory[i].Amount.Round(0).IntPart())
	}
	for i, rc := range r.RecommendedCards {
		m.Cards = append(m.Cards, newCardModel(rc, i))
	}
	return m
}

type accountModel struct {
	Name    string
	Masked  string
	Balance string
	Plan    string
}

func newAccountModels(list []core.Account) []accountModel {
	out := make([]accountModel, 0, len(list))
	for _, a := range list {
		out = append(out, accountModel{
			Name:    a.AccountName,
			Masked:  maskAccount(a.AccountNumber),
			Balance: core.FormatCurrency(a.Balance),
			Plan:    a.SubscriptionPlan,
		})
	}
	return out
}

// maskAccount keeps the last four characters of an account number.
func maskAccount(n string) string {
	r := []rune(strings.TrimSpace(n))
	if len(r) <= 4 {
		return "••••" + string(r)
	}
	return "••••" + string(r[len(r)-4:])
}

type sourceRow struct {
	Endpoint   string
	Requests   int
	Fallbacks  int
	LastStatus string
	LastError  string
	LastSeen   string
	Healthy    bool
}

type eventRow struct {
	At       string
	Endpoint string
	Status   string
	Duration string
	Fallback bool
}

type sourcesModel struct {
	Backend string
	Stats   []sourceRow
	Events  []eventRow
}

func newSourcesModel(backend string, stats []fetchlog.Stat, events []fetchlog.Event, now time.Time) sourcesModel {
	m := sourcesModel{Backend: backend}
	for _, s := range stats {
		m.Stats = append(m.Stats, sourceRow{
			Endpoint:   s.Endpoint,
			Requests:   s.Requests,
			Fallbacks:  s.Fallbacks,
			LastStatus: statusLabel(s.LastStatus),
			LastError:  s.LastError,
			LastSeen:   humanize.RelTime(s.LastAt, now, "ago", "from now"),
			Healthy:    s.Healthy(),
		})
	}
	for _, e := range events {
		m.Events = append(m.Events, eventRow{
			At:       e.At.Local().Format("15:04:05"),
			Endpoint: e.Endpoint,
			Status:   statusLabel(e.Status),
			Duration: humanize.Comma(e.DurationMs) + " ms",
			Fallback: e.Fallback,
		})
	}
	return m
}

func statusLabel(code int) string {
	if code == 0 {
		return "no response"
	}
	return strconv.Itoa(code)
}
