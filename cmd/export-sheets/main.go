package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"finboard/internal/cli"
	"finboard/internal/fetchlog"
	"finboard/internal/log"
	"finboard/internal/services"
	ports "finboard/internal/sheets"
	gsheet "finboard/internal/sheets/google"
	mem "finboard/internal/sheets/memory"
	"finboard/internal/transactions"
	"finboard/internal/upstream"
)

func main() {
	account := flag.String("account", transactions.AllAccounts, "account number to export, or \"all\"")
	query := flag.String("q", "", "only export transactions matching this search text")
	sortMode := flag.String("sort", string(transactions.DefaultSort), "row order: Latest, Oldest, Amount High or Amount Low")
	once := flag.Bool("once", false, "export a single time and exit")
	dryRun := flag.Bool("dry-run", false, "print the rows instead of writing to Google Sheets")
	flag.Parse()

	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	mode, ok := transactions.ParseSortMode(*sortMode)
	if !ok {
		cli.Fatal(logger, "Invalid sort mode", fmt.Errorf("unknown sort %q", *sortMode))
	}
	view := transactions.View{Account: *account, Query: *query, Sort: mode}

	var (
		exporter ports.TransactionExporter
		dryStore *mem.Store
	)
	if *dryRun {
		dryStore = mem.New()
		exporter = dryStore
		logger.Info("Dry run, rows are printed instead of exported")
	} else {
		if err := cfg.ValidateExport(); err != nil {
			cli.Fatal(logger, "Export configuration invalid", err)
		}
		client, err := gsheet.New(context.Background(), gsheet.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
		}, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		exporter = client
		logger.Info("Exporting to Google Sheets",
			"sheet", client.Sheet(),
			"url", client.SpreadsheetURL())
	}

	fetchLog, err := fetchlog.Open(cfg.FetchLog(), logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize fetch log", err)
	}
	api := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	data := services.NewDataService(api,
		services.WithLogger(logger),
		services.WithFetchLog(fetchLog))

	processor := services.NewExportProcessor(data, exporter, services.ExportProcessorConfig{
		Interval: cfg.ExportInterval,
		View:     view,
	}, logger)

	os.Exit(run(processor, data, dryStore, *once || *dryRun, logger))
}

// Exit codes of run.
const (
	exitOK     = 0
	exitFailed = 1
	exitNoData = 2
)

// run exports once or keeps exporting until a shutdown signal, and returns
// the process exit code. closer is closed on every return path. dryStore,
// when set, has its rows printed after a single run.
func run(processor *services.ExportProcessor, closer io.Closer, dryStore *mem.Store, single bool, logger *log.Logger) int {
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Failure(context.Background(), "Close failed", log.OpShutdown, err, nil)
		}
	}()

	if single {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := processor.RunOnce(ctx)
		if errors.Is(err, services.ErrNoLiveData) {
			logger.Warn("Finance API unreachable, nothing exported")
			return exitNoData
		}
		if err != nil {
			logger.Failure(ctx, "Export failed", log.OpExport, err, nil)
			return exitFailed
		}
		logger.Info("Export finished",
			log.FieldCount, res.Appended,
			"skipped", res.Skipped,
			"range", res.Range)
		if dryStore != nil {
			for _, row := range dryStore.Rows() {
				fmt.Println(row...)
			}
		}
		return exitOK
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, processor.Stop)
	if err := processor.Start(ctx); err != nil {
		logger.Failure(ctx, "Failed to start export processor", log.OpStartup, err, nil)
		return exitFailed
	}
	cli.WaitForShutdown(ctx, done)

	st := processor.Stats()
	logger.Info("Export processor exited",
		"runs", st.Runs,
		"failures", st.Failures,
		"appended", st.Appended)
	return exitOK
}
