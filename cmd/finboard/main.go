package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/cache"
	"finboard/internal/cli"
	"finboard/internal/fetchlog"
	apphttp "finboard/internal/http"
	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/upstream"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel)

	logger.Info("Starting finboard",
		"port", cfg.Port,
		"upstream", cfg.UpstreamBaseURL,
		log.FieldBackend, cfg.FetchLogBackend)

	fetchLog, err := fetchlog.Open(cfg.FetchLog(), logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize fetch log", err)
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithFetchLog(fetchLog),
	}

	cacheManager := cache.NewManager(logger)
	if cfg.CacheTTL > 0 {
		responses := cache.NewLRUCache[any](cfg.CacheSize, cfg.CacheTTL)
		cacheManager.Register(responses)
		cacheManager.StartCleanup(cfg.CacheTTL)
		opts = append(opts, services.WithCache(responses))
		logger.Info("Response cache enabled", "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
	}

	// Outage events are optional: the dashboard keeps working without a broker.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, fallback events disabled", log.FieldError, err.Error())
		} else {
			opts = append(opts, services.WithPublisher(amqpClient))
			logger.Info("Publishing fallback events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	api := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	data := services.NewDataService(api, opts...)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:            ":" + cfg.Port,
		DisplayName:     cfg.DisplayName,
		RateLimitRPM:    cfg.RateLimitRPM,
		FetchLogBackend: cfg.FetchLogBackend,
	}, data, fetchLog, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to create server", err)
	}

	// data owns the fetch log and the AMQP client from here on.
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) error {
		err := srv.Shutdown(ctx)
		cacheManager.Stop()
		return errors.Join(err, data.Close())
	})

	logger.Info("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cli.Fatal(logger, "Server error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
