package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/fallback"
	"finboard/internal/services"
	"finboard/internal/transactions"
)

func servicesDashboard() services.DashboardView {
	return services.DashboardView{
		Data:    fallback.Dashboard(),
		Rewards: fallback.Rewards(),
		Summary: fallback.MonthlySummary(),
		Slices:  fallback.CategorySlices(),
	}
}

func servicesTransactions(raw []core.Transaction, v transactions.View) services.TransactionsView {
	return services.TransactionsView{
		Accounts: fallback.Accounts(),
		Listing:  transactions.NewListing(raw, v),
	}
}

func TestTabs(t *testing.T) {
	tests := []struct {
		in        string
		want      Tab
		wantPath  string
		wantLabel string
	}{
		{"dashboard", TabDashboard, "/", "Dashboard"},
		{"transactions", TabTransactions, "/transactions", "Transaction"},
		{"settings", TabSettings, "/settings", "Settings"},
		{"", TabDashboard, "/", "Dashboard"},
		{"Budgets", TabDashboard, "/", "Dashboard"},
	}
	for _, tt := range tests {
		got := ParseTab(tt.in)
		if got != tt.want || got.Path() != tt.wantPath || got.Label() != tt.wantLabel {
			t.Errorf("ParseTab(%q) = %q (%s, %s)", tt.in, got, got.Path(), got.Label())
		}
	}
	if len(Tabs()) != 5 || Tabs()[0] != TabDashboard {
		t.Errorf("Tabs() = %v", Tabs())
	}
}

func TestViewFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  transactions.View
	}{
		{"defaults", "", transactions.DefaultView()},
		{
			name:  "all values",
			query: "account=acc-002&q=+Star%00bucks+&sort=amount+high",
			want:  transactions.View{Account: "acc-002", Query: "Starbucks", Sort: transactions.SortAmountHigh},
		},
		{
			name:  "unknown sort keeps default",
			query: "sort=cheapest",
			want:  transactions.View{Account: transactions.AllAccounts, Sort: transactions.DefaultSort},
		},
		{
			name:  "long query truncated",
			query: "q=" + strings.Repeat("a", 150),
			want:  transactions.View{Account: transactions.AllAccounts, Query: strings.Repeat("a", maxQueryLen), Sort: transactions.DefaultSort},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viewFromQuery(httptest.NewRequest("GET", "/ui/transactions?"+tt.query, nil))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("viewFromQuery() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestViewQuery(t *testing.T) {
	if got := viewQuery(transactions.DefaultView()); got != "" {
		t.Errorf("default view encodes as %q", got)
	}
	v := transactions.View{Account: "acc-001", Query: "coffee & tea", Sort: transactions.SortOldest}
	if got := viewQuery(v); got != "account=acc-001&q=coffee+%26+tea&sort=Oldest" {
		t.Errorf("viewQuery() = %q", got)
	}
	if got := withQuery("/transactions", ""); got != "/transactions" {
		t.Errorf("withQuery() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 2); got != "h" {
		t.Errorf("truncate split a rune: %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestNewBars(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(200),
		decimal.NewFromInt(50),
		decimal.NewFromFloat(0.5),
		decimal.Zero,
	}
	bars := newBars([]string{"Shopping", "Transportation", "Other", "Healthcare"}, values, core.FormatCurrency)

	var widths []int
	for _, b := range bars {
		widths = append(widths, b.Width)
	}
	if diff := cmp.Diff([]int{100, 25, 2, 0}, widths); diff != "" {
		t.Errorf("widths mismatch (-want +got):\n%s", diff)
	}
	if bars[0].Value != "$200.00" || bars[0].Color == "" {
		t.Errorf("bar = %+v", bars[0])
	}
}

func TestMaskAccount(t *testing.T) {
	for in, want := range map[string]string{
		"1234567890": "••••7890",
		"acc-001":    "••••-001",
		"12":         "••••12",
	} {
		if got := maskAccount(in); got != want {
			t.Errorf("maskAccount(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewDashboardModel(t *testing.T) {
	m := newDashboardModel(servicesDashboard())

	if m.Summary.Month != "November 2024" || m.Summary.SpendingChange != "+8.2%" || !m.Summary.SpendingUp {
		t.Errorf("summary = %+v", m.Summary)
	}
	if len(m.Months) != 12 || m.Months[0].Label != "Nov" {
		t.Errorf("months = %+v", m.Months)
	}
	if m.BestCard.Name != "Chase Sapphire Preferred" || m.BestCard.Reward != "$245.50" {
		t.Errorf("best card = %+v", m.BestCard)
	}
	if len(m.Cards) != 3 || m.Cards[2].Gradient != 2 {
		t.Errorf("cards = %+v", m.Cards)
	}

	// 45.50 of 187.55 in total.
	if m.Slices[0].Value != "24%" {
		t.Errorf("first slice = %+v", m.Slices[0])
	}
}

func TestNewTransactionsModel(t *testing.T) {
	raw := []core.Transaction{
		{ID: "7", Date: "2025-10-16T08:30:00Z", Description: "Starbucks", Amount: decimal.RequireFromString("-7.49"), Category: "Food & Dining"},
		{ID: "8", Date: "2025-10-01", Description: "Salary", Amount: decimal.NewFromInt(5000), Category: "Income"},
	}
	v := transactions.View{Account: "acc-001", Sort: transactions.SortAmountLow}
	m := newTransactionsModel(servicesTransactions(raw, v))

	if m.Shown != 2 || m.Total != 2 {
		t.Fatalf("counts = %d/%d", m.Shown, m.Total)
	}
	want := []txRow{
		{ID: "7", Name: "Starbucks", Icon: m.Rows[0].Icon, Category: "Food & Dining", Date: "Oct 16, 2025", Amount: "-$7.49", Debit: true},
		{ID: "8", Name: "Salary", Icon: m.Rows[1].Icon, Category: "Income", Date: "Oct 1, 2025", Amount: "+$5000"},
	}
	if diff := cmp.Diff(want, m.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	var selected []string
	for _, a := range m.Accounts {
		if a.Selected {
			selected = append(selected, a.Value)
		}
	}
	if diff := cmp.Diff([]string{"acc-001"}, selected); diff != "" {
		t.Errorf("selected accounts mismatch:\n%s", diff)
	}
	if m.Accounts[0].Label != "All Accounts" {
		t.Errorf("first option = %+v", m.Accounts[0])
	}
}

func TestStatusLabel(t *testing.T) {
	if statusLabel(0) != "no response" || statusLabel(503) != "503" {
		t.Error("unexpected status labels")
	}
}

func TestMonthShort(t *testing.T) {
	if got := monthShort("2025-03"); got != "Mar" {
		t.Errorf("monthShort() = %q", got)
	}
	if got := monthShort("March"); got != "March" {
		t.Errorf("unparseable month changed: %q", got)
	}
}
