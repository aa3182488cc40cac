package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"finboard/internal/core"
	"finboard/internal/fetchlog"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/recovery"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
	"finboard/internal/transactions"
	appweb "finboard/web"
)

// DataSource is what the handlers read. Implementations never fail: a
// failed fetch is answered with fallback data.
type DataSource interface {
	LoadDashboard(ctx context.Context) services.DashboardView
	LoadTransactions(ctx context.Context, v transactions.View) services.TransactionsView
	Dashboard(ctx context.Context) core.DashboardData
	Rewards(ctx context.Context) core.RewardsData
	Accounts(ctx context.Context) []core.Account
	MonthlySummary(ctx context.Context) core.MonthlySummary
	CategorySlices(ctx context.Context) []core.CategorySlice
}

var _ DataSource = (*services.DataService)(nil)

// Config holds the server settings.
type Config struct {
	Addr            string
	DisplayName     string
	RateLimitRPM    int
	FetchLogBackend string
	// PartialTimeout bounds the data loads behind one partial.
	PartialTimeout time.Duration
}

const defaultPartialTimeout = 20 * time.Second

type Server struct {
	http.Server
	templates *template.Template
	data      DataSource
	sources   fetchlog.Reader
	cfg       Config
	logger    *log.Logger
	started   time.Time

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
// sources may be nil, in which case the data sources card stays empty.
func NewServer(cfg Config, data DataSource, sources fetchlog.Reader, logger *log.Logger) (*Server, error) {
	if data == nil {
		return nil, errors.New("data source is required")
	}
	if logger == nil {
		logger = log.Discard()
	}
	if cfg.PartialTimeout <= 0 {
		cfg.PartialTimeout = defaultPartialTimeout
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: t,
		data:      data,
		sources:   sources,
		cfg:       cfg,
		logger:    logger.WithComponent(log.ComponentHTTP),
		started:   time.Now(),
	}
	s.securityDetector = security.NewDetector(logger)
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitRPM}, logger)

	mux, err := s.routes()
	if err != nil {
		s.rateLimiter.Stop()
		return nil, err
	}

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit)(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = recovery.Middleware(handler)
	handler = log.Middleware(logger, trace.GetRequestID)(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Pages
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /{tab}", s.handlePage)

	// UI partials
	mux.Handle("GET /ui/dashboard", security.NoStore(http.HandlerFunc(s.handleDashboardPartial)))
	mux.Handle("GET /ui/transactions", security.NoStore(http.HandlerFunc(s.handleTransactionsPartial)))
	mux.Handle("GET /ui/rewards", security.NoStore(http.HandlerFunc(s.handleRewardsPartial)))
	mux.Handle("GET /ui/accounts", security.NoStore(http.HandlerFunc(s.handleAccountsPartial)))
	mux.Handle("GET /ui/sources", security.NoStore(http.HandlerFunc(s.handleSourcesPartial)))

	// JSON
	mux.HandleFunc("GET /api/transactions", s.handleAPITransactions)
	mux.HandleFunc("GET /api/dashboard/monthly", s.handleAPIMonthly)
	mux.HandleFunc("GET /api/dashboard/categories", s.handleAPICategories)

	return mux, nil
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		TooManyRequestsError("Too many requests. Please wait a moment.").Write(w)
		return
	}
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// render executes a template into a buffer and writes it through b, so a
// failing template never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any, b *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery)
		fields["template"] = name
		s.logger.Failure(r.Context(), "Template execution failed", log.OpRender, err, fields)
		InternalServerError("Unable to render view").Write(w)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.Header("Content-Type", "text/html; charset=utf-8").Body(buf.Bytes()).Write(w)
}

// abandoned reports whether the client went away while data was loading.
// htmx aborts a superseded request, so its response is never rendered.
func (s *Server) abandoned(r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		s.logger.DebugContext(r.Context(), "Request abandoned before render",
			log.FieldPath, r.URL.Path,
			log.FieldError, err.Error())
		return true
	}
	return false
}

func (s *Server) partialContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.PartialTimeout)
}
