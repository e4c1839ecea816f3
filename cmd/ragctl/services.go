package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/department-assistant/internal/adapters/natsrpc"
	"github.com/kirillkom/department-assistant/internal/config"
	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/ports"
	"github.com/kirillkom/department-assistant/internal/core/usecase"
	"github.com/kirillkom/department-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/department-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/department-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/department-assistant/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/department-assistant/internal/observability/logging"
)

type retrievalClient interface {
	Retrieve(ctx context.Context, req natsrpc.RetrievalRequest) (*natsrpc.RetrievalResponse, error)
}

type historyReader interface {
	RecentInteractions(ctx context.Context, department string, limit int) ([]domain.Interaction, error)
}

// Constructors are variables so tests can substitute in-memory services.
var (
	openIngestor  = connectIngestor
	openRetriever = connectRetriever
	openHistory   = connectHistory
)

// An operator command should fail instead of waiting for NATS to come up.
var failFast = false

func cliLogger(cfg config.Config) *slog.Logger {
	return logging.NewJSONLogger("ragctl", cfg.LogLevel)
}

func connectIngestor(ctx context.Context, cfg config.Config) (ports.DocumentIngestor, func(), error) {
	logger := cliLogger(cfg)

	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init object storage: %w", err)
	}
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Name:                 "ragctl",
		RetryOnFailedConnect: &failFast,
		ResilienceExecutor:   resilience.NewExecutor(resilience.DefaultConfig(), logger),
		Logger:               logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init message queue: %w", err)
	}

	departments := usecase.NewDepartmentPolicy(cfg.AllowedDepartments)
	uc := usecase.NewIngestDocumentUseCase(postgres.NewDocumentRepository(db), storage, queue, departments)
	return uc, func() {
		queue.Close()
		_ = db.Close()
	}, nil
}

func connectRetriever(_ context.Context, cfg config.Config) (retrievalClient, func(), error) {
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Name:                 "ragctl",
		RetryOnFailedConnect: &failFast,
		Logger:               cliLogger(cfg),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init message queue: %w", err)
	}
	return natsrpc.NewClient(queue, cfg.RetrievalSubject), queue.Close, nil
}

func connectHistory(ctx context.Context, cfg config.Config) (historyReader, func(), error) {
	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	return postgres.NewInteractionRepository(db), func() { _ = db.Close() }, nil
}
