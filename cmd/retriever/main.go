package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/department-assistant/internal/adapters/natsrpc"
	"github.com/kirillkom/department-assistant/internal/bootstrap"
	"github.com/kirillkom/department-assistant/internal/config"
	"github.com/kirillkom/department-assistant/internal/observability/logging"
	"github.com/kirillkom/department-assistant/internal/observability/metrics"
)

const (
	serviceName    = "retriever"
	processTimeout = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	if err != nil {
		logger.Error("config_load_failed", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		return err
	}
	defer app.Close()

	m := metrics.NewRetrievalMetrics(serviceName)
	m.MustRegister(metrics.NewIndexCollector(serviceName, app.Index.Sizes))

	handler := natsrpc.NewHandler(app.RetrievalUC, natsrpc.Options{
		Defaults:     cfg.Retrieval,
		Timeout:      cfg.RetrievalTimeout,
		RateLimitRPS: cfg.RetrievalRateLimitRPS,
		RateBurst:    cfg.RetrievalRateLimitBurst,
		Interactions: app.Interactions,
		Metrics:      m,
		Logger:       logger,
	})

	health := metrics.NewHandler(m,
		metrics.HealthCheck{Name: "postgres", Check: app.DB.PingContext},
		metrics.HealthCheck{Name: "nats", Check: func(context.Context) error {
			if !app.Queue.Healthy() {
				return errors.New("not connected")
			}
			return nil
		}},
	)

	logger.Info("retriever_started",
		"departments", app.Departments.Departments(),
		"ingest_subject", cfg.NATSSubject,
		"retrieval_subject", cfg.RetrievalSubject,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Queue.SubscribeDocumentIngested(gctx, func(handlerCtx context.Context, documentID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
			defer cancel()

			m.StartDocument()
			started := time.Now()
			err := app.ProcessUC.ProcessByID(processCtx, documentID)
			m.FinishDocument(time.Since(started), err)
			if err == nil {
				logger.Info("document_indexed", "document_id", documentID, "duration_ms", time.Since(started).Milliseconds())
			}
			return err
		})
	})
	g.Go(func() error {
		return app.Queue.ServeRequests(gctx, cfg.RetrievalSubject, "retrievers", cfg.RetrievalMaxInFlight, handler.Handle)
	})
	g.Go(func() error {
		return metrics.Serve(gctx, cfg.MetricsPort, health, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("retriever_stopped", "error", err)
		return err
	}
	logger.Info("retriever_stopped")
	return nil
}
