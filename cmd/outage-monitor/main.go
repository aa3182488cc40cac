package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"finboard/internal/amqp"
	"finboard/internal/cli"
	"finboard/internal/log"
)

// outages counts fallback events per endpoint since startup.
type outages struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outages) handle(logger *log.Logger) func(context.Context, *amqp.FallbackEvent) error {
	return func(ctx context.Context, ev *amqp.FallbackEvent) error {
		o.mu.Lock()
		o.counts[ev.Endpoint]++
		n := o.counts[ev.Endpoint]
		o.mu.Unlock()

		logger.WarnContext(ctx, "Upstream fallback served",
			log.FieldEndpoint, ev.Endpoint,
			log.FieldStatus, ev.Status,
			log.FieldError, ev.Error,
			"event_id", ev.ID,
			"at", ev.At.Format(time.RFC3339),
			"total_for_endpoint", n)
		return nil
	}
}

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentAMQP)

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "AMQP_URL is required", errors.New("no broker configured"))
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) error {
		return client.Close()
	})

	logger.Info("Watching fallback events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	o := &outages{counts: make(map[string]int)}
	if err := client.ConsumeFallbacks(ctx, o.handle(logger)); err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Message consumption failed", err)
	}
	cli.WaitForShutdown(ctx, done)
}
