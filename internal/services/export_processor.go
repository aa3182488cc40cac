package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/sheets"
	"finboard/internal/transactions"
)

// ErrNoLiveData is returned by RunOnce when the API could not be reached.
// Fallback payloads are never exported.
var ErrNoLiveData = errors.New("no live transactions to export")

// TransactionSource yields transactions and whether they are live.
type TransactionSource interface {
	TransactionsLive(ctx context.Context, account string) ([]core.Transaction, bool)
}

var _ TransactionSource = (*DataService)(nil)

// ExportProcessorConfig holds configuration for the export processor
type ExportProcessorConfig struct {
	// Interval is how often transactions are exported (default: 15m)
	Interval time.Duration

	// View selects the account, search text and ordering of exported rows.
	View transactions.View
}

// DefaultExportProcessorConfig returns sensible defaults
func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		Interval: 15 * time.Minute,
		View:     transactions.DefaultView(),
	}
}

// ExportStats summarises the runs so far.
type ExportStats struct {
	Runs      int
	Failures  int
	Appended  int
	LastRange string
	LastError string
	LastAt    time.Time
}

// ExportProcessor periodically appends new transactions to a spreadsheet.
type ExportProcessor struct {
	source   TransactionSource
	exporter sheets.TransactionExporter
	config   ExportProcessorConfig
	logger   *log.Logger
	now      func() time.Time

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	stats   ExportStats
}

// NewExportProcessor creates a new export processor
func NewExportProcessor(source TransactionSource, exporter sheets.TransactionExporter, config ExportProcessorConfig, logger *log.Logger) *ExportProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultExportProcessorConfig().Interval
	}
	if config.View.Sort == "" {
		config.View.Sort = transactions.DefaultSort
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportProcessor{
		source:   source,
		exporter: exporter,
		config:   config,
		logger:   logger.WithComponent(log.ComponentSheets),
		now:      time.Now,
	}
}

// Start begins the export loop. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Export processor started",
		"interval", p.config.Interval,
		log.FieldAccount, p.config.View.Account)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		p.logger.InfoContext(ctx, "Export processor stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the processor is currently running
func (p *ExportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ExportProcessor) runLoop(ctx context.Context) {
	p.mu.Lock()
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()
	defer close(doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	// Export immediately on startup
	p.runLogged(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runLogged(ctx)
		}
	}
}

func (p *ExportProcessor) runLogged(ctx context.Context) {
	if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
		p.logger.Failure(ctx, "Transaction export failed", log.OpExport, err, nil)
	}
}

// RunOnce fetches the configured view and exports it.
func (p *ExportProcessor) RunOnce(ctx context.Context) (sheets.ExportResult, error) {
	res, err := p.export(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Runs++
	p.stats.LastAt = p.now()
	if err != nil {
		p.stats.Failures++
		p.stats.LastError = err.Error()
		return res, err
	}
	p.stats.Appended += res.Appended
	p.stats.LastError = ""
	if res.Range != "" {
		p.stats.LastRange = res.Range
	}
	return res, nil
}

func (p *ExportProcessor) export(ctx context.Context) (sheets.ExportResult, error) {
	list, live := p.source.TransactionsLive(ctx, p.config.View.Account)
	if !live {
		return sheets.ExportResult{}, ErrNoLiveData
	}
	rows := transactions.Apply(list, p.config.View)

	res, err := p.exporter.Export(ctx, rows)
	if err != nil {
		return sheets.ExportResult{}, fmt.Errorf("export transactions: %w", err)
	}
	p.logger.DebugContext(ctx, "Export run finished",
		log.FieldCount, res.Appended,
		"skipped", res.Skipped)
	return res, nil
}

// Stats returns a snapshot of the run statistics
func (p *ExportProcessor) Stats() ExportStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
