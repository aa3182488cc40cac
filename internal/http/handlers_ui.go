package http

import (
	"net/http"
	"time"

	"finboard/internal/log"
)

// recentEvents is how many fetch log entries the settings page lists.
const recentEvents = 10

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	dv := s.data.LoadDashboard(ctx)
	if s.abandoned(r) {
		return
	}
	s.render(w, r, "dashboard", newDashboardModel(dv), nil)
}

// handleTransactionsPartial renders the transactions list for the account,
// q and sort parameters. The three are always sent together, so a reload
// for another account keeps the search and the ordering.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	v := viewFromQuery(r)
	tv := s.data.LoadTransactions(ctx, v)
	if s.abandoned(r) {
		return
	}

	resolved := tv.Listing.View
	s.logger.DebugContext(ctx, "Transactions view loaded",
		log.NewFields().
			WithView(resolved.Account, resolved.Query, string(resolved.Sort)).
			ToSlice()...)

	b := NewHTMXResponse()
	// Requests fired by the view controls carry the control name; record
	// the resolved view in the history so a reload shows the same list.
	if isHTMX(r) && r.Header.Get("HX-Trigger-Name") != "" {
		b.PushURL(withQuery(TabTransactions.Path(), viewQuery(resolved)))
	}
	s.render(w, r, "transactions", newTransactionsModel(tv), b)
}

func (s *Server) handleRewardsPartial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	rewards := s.data.Rewards(ctx)
	if s.abandoned(r) {
		return
	}
	s.render(w, r, "rewards", newRewardsModel(rewards), nil)
}

func (s *Server) handleAccountsPartial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	accounts := s.data.Accounts(ctx)
	if s.abandoned(r) {
		return
	}
	s.render(w, r, "accounts", newAccountModels(accounts), nil)
}

// handleSourcesPartial renders the health of each upstream endpoint from
// the fetch log.
func (s *Server) handleSourcesPartial(w http.ResponseWriter, r *http.Request) {
	m := sourcesModel{Backend: s.cfg.FetchLogBackend}
	if s.sources != nil {
		ctx, cancel := s.partialContext(r)
		defer cancel()

		stats, err := s.sources.Stats(ctx)
		if err != nil {
			s.logger.Failure(ctx, "Fetch log stats failed", log.OpRender, err, nil)
		}
		events, err := s.sources.Recent(ctx, recentEvents)
		if err != nil {
			s.logger.Failure(ctx, "Fetch log read failed", log.OpRender, err, nil)
		}
		m = newSourcesModel(s.cfg.FetchLogBackend, stats, events, time.Now())
	}
	s.render(w, r, "sources", m, nil)
}
