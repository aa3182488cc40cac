package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/transactions"
)

// recentPurchases is how many debits the dashboard timeline shows.
const recentPurchases = 6

// DashboardView is everything the dashboard renders, fetched together.
type DashboardView struct {
	Data    core.DashboardData
	Rewards core.RewardsData
	Summary core.MonthlySummary
	Slices  []core.CategorySlice
	Recent  []core.Transaction
}

// LoadDashboard fetches the dashboard, rewards, monthly summary and pie
// data concurrently and returns once all of them have settled.
func (s *DataService) LoadDashboard(ctx context.Context) DashboardView {
	var v DashboardView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v.Data = s.Dashboard(gctx)
		return nil
	})
	g.Go(func() error {
		v.Rewards = s.Rewards(gctx)
		return nil
	})
	g.Go(func() error {
		v.Summary = s.MonthlySummary(gctx)
		return nil
	})
	g.Go(func() error {
		v.Slices = s.CategorySlices(gctx)
		return nil
	})
	_ = g.Wait()

	v.Recent = transactions.RecentPurchases(v.Data.Recent, recentPurchases)
	return v
}

// TransactionsView is the transactions page: the account selector choices
// and the listing for the requested view.
type TransactionsView struct {
	Accounts []core.Account
	Listing  transactions.Listing
}

// LoadTransactions fetches the transactions of the requested account. A
// specific account is only asked for once the account list confirms it;
// an unknown one falls back to every account. For every account the
// account list and the transactions are fetched concurrently. The query
// and ordering of v are applied to the fetched list.
func (s *DataService) LoadTransactions(ctx context.Context, v transactions.View) TransactionsView {
	requested := strings.TrimSpace(v.Account)
	if requested == "" || strings.EqualFold(requested, transactions.AllAccounts) {
		requested = transactions.AllAccounts
	}

	var (
		accounts []core.Account
		raw      []core.Transaction
	)
	if requested == transactions.AllAccounts {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			accounts = s.Accounts(gctx)
			return nil
		})
		g.Go(func() error {
			raw = s.Transactions(gctx, transactions.AllAccounts)
			return nil
		})
		_ = g.Wait()
	} else {
		accounts = s.Accounts(ctx)
		raw = s.Transactions(ctx, transactions.ParseAccount(requested, accounts))
	}

	v.Account = transactions.ParseAccount(requested, accounts)
	return TransactionsView{
		Accounts: accounts,
		Listing:  transactions.NewListing(raw, v),
	}
}
