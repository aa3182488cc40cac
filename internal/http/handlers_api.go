package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/log"
)

type transactionsResponse struct {
	Account      string             `json:"account"`
	Query        string             `json:"query"`
	Sort         string             `json:"sort"`
	Count        int                `json:"count"`
	Total        int                `json:"total"`
	Transactions []core.Transaction `json:"transactions"`
}

// handleAPITransactions returns the derived list for the requested view.
func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	tv := s.data.LoadTransactions(ctx, viewFromQuery(r))
	if s.abandoned(r) {
		return
	}
	l := tv.Listing
	s.writeJSON(w, r, transactionsResponse{
		Account:      l.View.Account,
		Query:        l.View.Query,
		Sort:         string(l.View.Sort),
		Count:        len(l.Visible),
		Total:        len(l.Raw),
		Transactions: nonNil(l.Visible),
	})
}

type monthlyResponse struct {
	Summary core.MonthlySummary  `json:"summary"`
	Series  []core.MonthSpending `json:"series"`
}

// handleAPIMonthly returns the month-over-month summary and the spending
// series of the income analysis chart, fetched together.
func (s *Server) handleAPIMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	var resp monthlyResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp.Summary = s.data.MonthlySummary(gctx)
		return nil
	})
	g.Go(func() error {
		resp.Series = nonNil(s.data.Dashboard(gctx).MonthlySpending)
		return nil
	})
	_ = g.Wait()
	if s.abandoned(r) {
		return
	}
	s.writeJSON(w, r, resp)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.partialContext(r)
	defer cancel()

	slices := s.data.CategorySlices(ctx)
	if s.abandoned(r) {
		return
	}
	s.writeJSON(w, r, map[string]any{"slices": nonNil(slices)})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		s.logger.Failure(r.Context(), "JSON encode failed", log.OpRender, err, nil)
	}
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the templates and, when configured, the fetch log.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.sources == nil {
		checks["fetch_log"] = "not_configured"
	} else if _, err := s.sources.Stats(ctx); err != nil {
		checks["fetch_log"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["fetch_log"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"enabled":        s.rateLimiter.Enabled(),
		"active_clients": s.rateLimiter.ActiveClients(),
	}

	_ = writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides request, security and upstream counters in the
// Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests rejected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	if s.sources != nil {
		if stats, err := s.sources.Stats(r.Context()); err == nil && len(stats) > 0 {
			fmt.Fprintf(w, "# HELP upstream_requests_total Upstream fetches by endpoint\n")
			fmt.Fprintf(w, "# TYPE upstream_requests_total counter\n")
			for _, st := range stats {
				fmt.Fprintf(w, "upstream_requests_total{endpoint=%q} %d\n", st.Endpoint, st.Requests)
			}
			fmt.Fprintf(w, "\n# HELP upstream_fallbacks_total Fallback payloads served by endpoint\n")
			fmt.Fprintf(w, "# TYPE upstream_fallbacks_total counter\n")
			for _, st := range stats {
				fmt.Fprintf(w, "upstream_fallbacks_total{endpoint=%q} %d\n", st.Endpoint, st.Fallbacks)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}
