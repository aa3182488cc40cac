package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/cache"
	"finboard/internal/category"
	"finboard/internal/core"
	"finboard/internal/fallback"
	"finboard/internal/fetchlog"
	"finboard/internal/log"
	"finboard/internal/transactions"
	"finboard/internal/upstream"
)

// Upstream is the finance API as seen by the data service.
type Upstream interface {
	Dashboard(ctx context.Context) (core.DashboardData, error)
	Rewards(ctx context.Context) (core.RewardsData, error)
	Transactions(ctx context.Context) ([]core.Transaction, error)
	Accounts(ctx context.Context) ([]core.Account, error)
	AccountTransactions(ctx context.Context, accountNumber string) ([]core.Transaction, error)
	ExpensesPie(ctx context.Context) (core.Amounts, error)
}

var _ Upstream = (*upstream.Client)(nil)

// Publisher announces served fallbacks.
type Publisher interface {
	PublishFallback(ctx context.Context, ev *amqp.FallbackEvent) error
}

var _ Publisher = (*amqp.Client)(nil)

// DataService fetches every document the views need. A failed fetch is
// logged, recorded and answered with the matching fallback payload, so
// callers never see an error.
type DataService struct {
	api       Upstream
	fallbacks fallback.Set
	recorder  fetchlog.Recorder
	publisher Publisher
	cache     *cache.LRUCache[any]
	logger    *log.Logger
	now       func() time.Time
}

// Option configures a DataService.
type Option func(*DataService)

// WithFallbacks replaces the default fallback payloads.
func WithFallbacks(set fallback.Set) Option {
	return func(s *DataService) { s.fallbacks = set }
}

// WithFetchLog records the outcome of every fetch.
func WithFetchLog(r fetchlog.Recorder) Option {
	return func(s *DataService) { s.recorder = r }
}

// WithPublisher publishes an event each time a fallback is served.
func WithPublisher(p Publisher) Option {
	return func(s *DataService) { s.publisher = p }
}

// WithCache keeps live responses in c. Fallback payloads are never cached.
func WithCache(c *cache.LRUCache[any]) Option {
	return func(s *DataService) { s.cache = c }
}

// WithLogger sets the logger; the data component name is applied.
func WithLogger(l *log.Logger) Option {
	return func(s *DataService) { s.logger = l.WithComponent(log.ComponentData) }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *DataService) { s.now = now }
}

func NewDataService(api Upstream, opts ...Option) *DataService {
	s := &DataService{
		api:       api,
		fallbacks: fallback.Default(),
		logger:    log.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetch runs load for endpoint. It returns the live value and true, or
// the fallback payload and false.
func fetch[T any](ctx context.Context, s *DataService, endpoint string, load func(context.Context) (T, error), fb func() T) (T, bool) {
	if s.cache != nil {
		if v, ok := s.cache.Get(endpoint); ok {
			if typed, ok := v.(T); ok {
				return typed, true
			}
		}
	}

	start := s.now()
	v, err := load(ctx)
	elapsed := s.now().Sub(start)

	if err == nil {
		s.record(ctx, fetchlog.NewEvent(endpoint, http.StatusOK, elapsed, nil))
		if s.cache != nil {
			s.cache.Set(endpoint, v)
		}
		return v, true
	}

	if ctx.Err() != nil {
		// The caller went away; nothing will render this.
		s.logger.DebugContext(ctx, "Fetch abandoned",
			log.FieldEndpoint, endpoint, log.FieldError, err.Error())
		return fb(), false
	}

	status := statusOf(err)
	s.logger.Failure(ctx, "Serving fallback data", log.OpFallback, err,
		log.NewFields().WithEndpoint(endpoint, true))
	s.record(ctx, fetchlog.NewEvent(endpoint, status, elapsed, err))
	s.publish(ctx, amqp.NewFallbackEvent(endpoint, status, err))
	return fb(), false
}

func statusOf(err error) int {
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}

func (s *DataService) record(ctx context.Context, e fetchlog.Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		s.logger.WarnContext(ctx, "Failed to record fetch outcome",
			log.FieldEndpoint, e.Endpoint, log.FieldError, err.Error())
	}
}

func (s *DataService) publish(ctx context.Context, ev *amqp.FallbackEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFallback(context.WithoutCancel(ctx), ev); err != nil {
		// The fallback has been served; the event is best effort.
		s.logger.WarnContext(ctx, "Failed to publish fallback event",
			log.FieldEndpoint, ev.Endpoint, log.FieldError, err.Error())
	}
}

// Dashboard returns the dashboard document with its recent transactions
// normalized for display.
func (s *DataService) Dashboard(ctx context.Context) core.DashboardData {
	d, _ := fetch(ctx, s, upstream.EndpointDashboard, s.api.Dashboard, s.fallbacks.Dashboard)
	d.Recent = transactions.Normalize(d.Recent)
	return d
}

// Rewards returns current rewards and recommended cards.
func (s *DataService) Rewards(ctx context.Context) core.RewardsData {
	r, _ := fetch(ctx, s, upstream.EndpointRewards, s.api.Rewards, s.fallbacks.Rewards)
	return r
}

// Accounts returns the connected accounts.
func (s *DataService) Accounts(ctx context.Context) []core.Account {
	a, _ := fetch(ctx, s, upstream.EndpointAccounts, s.api.Accounts, s.fallbacks.Accounts)
	return a
}

// Transactions returns the normalized transactions of account, or of every
// account for transactions.AllAccounts.
func (s *DataService) Transactions(ctx context.Context, account string) []core.Transaction {
	list, _ := s.TransactionsLive(ctx, account)
	return list
}

// TransactionsLive is Transactions that also reports whether the list came
// from the API rather than the fallback payload.
func (s *DataService) TransactionsLive(ctx context.Context, account string) ([]core.Transaction, bool) {
	if account == "" || account == transactions.AllAccounts {
		list, live := fetch(ctx, s, upstream.EndpointTransactions, s.api.Transactions, s.fallbacks.Transactions)
		return transactions.Normalize(list), live
	}
	load := func(ctx context.Context) ([]core.Transaction, error) {
		return s.api.AccountTransactions(ctx, account)
	}
	list, live := fetch(ctx, s, upstream.AccountTransactionsEndpoint(account), load, s.fallbacks.AccountTransactions)
	return transactions.Normalize(list), live
}

// MonthlySummary compares the two most recent months of transactions. When
// the transactions cannot be fetched the fallback summary is returned.
func (s *DataService) MonthlySummary(ctx context.Context) core.MonthlySummary {
	list, live := fetch(ctx, s, upstream.EndpointTransactions, s.api.Transactions, s.fallbacks.Transactions)
	if !live {
		return s.fallbacks.MonthlySummary()
	}
	return transactions.Summarize(list, s.now())
}

// CategorySlices returns spending per category for the pie chart. Category
// keys get their display names and amounts become positive; empty
// categories are left out.
func (s *DataService) CategorySlices(ctx context.Context) []core.CategorySlice {
	pie, live := fetch(ctx, s, upstream.EndpointExpensesPie, s.api.ExpensesPie, func() core.Amounts { return nil })
	if !live {
		return s.fallbacks.CategorySlices()
	}
	return PieSlices(pie)
}

// PieSlices converts raw per-category totals into chart slices.
func PieSlices(pie core.Amounts) []core.CategorySlice {
	out := make([]core.CategorySlice, 0, len(pie))
	for _, c := range pie {
		amount := c.Amount.Abs()
		if !amount.IsPositive() {
			continue
		}
		out = append(out, core.CategorySlice{Label: category.DisplayName(c.Name), Amount: amount})
	}
	return out
}

// Close releases the publisher and the fetch log when they hold resources.
func (s *DataService) Close() error {
	var errs []error

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if c, ok := s.recorder.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("fetch log: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close data service: %w", errors.Join(errs...))
	}
	return nil
}
