package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/department-assistant/internal/config"
	"github.com/kirillkom/department-assistant/internal/core/ports"
	"github.com/kirillkom/department-assistant/internal/core/usecase"
	rediscache "github.com/kirillkom/department-assistant/internal/infrastructure/cache/redis"
	"github.com/kirillkom/department-assistant/internal/infrastructure/chunking"
	"github.com/kirillkom/department-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/department-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/department-assistant/internal/infrastructure/llm/openai"
	"github.com/kirillkom/department-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/department-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/department-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/department-assistant/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/department-assistant/internal/infrastructure/vector/memory"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	DB           *sql.DB
	Queue        *nats.Queue
	Repo         ports.DocumentRepository
	Interactions *postgres.InteractionRepository
	Index        *memory.Registry

	Departments *usecase.DepartmentPolicy
	IngestUC    *usecase.IngestDocumentUseCase
	ProcessUC   *usecase.ProcessDocumentUseCase
	RetrievalUC *usecase.RetrievalUseCase

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}
	if err := app.init(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	a.DB = db
	a.onClose(func() { _ = db.Close() })
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	a.Repo = postgres.NewDocumentRepository(db)
	a.Interactions = postgres.NewInteractionRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(a.resilienceConfig(), a.Logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             a.Logger,
	})
	if err != nil {
		return fmt.Errorf("init message queue: %w", err)
	}
	a.Queue = queue
	a.onClose(queue.Close)

	embedder, err := a.newEmbedder(ctx, executor)
	if err != nil {
		return err
	}

	a.Index = memory.NewRegistry()
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extractor := plaintext.NewExtractor(storage)

	a.Departments = usecase.NewDepartmentPolicy(cfg.AllowedDepartments)
	a.RetrievalUC = usecase.NewRetrievalUseCase(embedder, a.Index, a.Departments)
	a.IngestUC = usecase.NewIngestDocumentUseCase(a.Repo, storage, queue, a.Departments)
	a.ProcessUC = usecase.NewProcessDocumentUseCase(a.Repo, extractor, chunker, embedder, a.Index)
	return nil
}

func (a *App) resilienceConfig() resilience.Config {
	rc := resilience.DefaultConfig()
	rc.RetryMaxAttempts = a.Config.ResilienceRetryMaxAttempts
	rc.BreakerEnabled = a.Config.ResilienceBreakerEnabled
	return rc
}

func (a *App) newEmbedder(ctx context.Context, executor *resilience.Executor) (ports.Embedder, error) {
	cfg := a.Config

	var embedder ports.Embedder
	switch cfg.EmbeddingProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("init embedder: OPENAI_API_KEY is required for provider openai")
		}
		embedder = openai.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel, executor)
	case "ollama":
		embedder = ollama.NewEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, executor)
	default:
		return nil, fmt.Errorf("init embedder: unknown provider %q", cfg.EmbeddingProvider)
	}

	if cfg.RedisAddr == "" {
		return embedder, nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.onClose(func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		a.Logger.Warn("embedding_cache_unavailable", "addr", cfg.RedisAddr, "error", err)
	}
	return rediscache.NewCachedEmbedder(embedder, client, cfg.EmbeddingModel, cfg.EmbeddingCacheTTL, a.Logger), nil
}

func (a *App) onClose(fn func()) {
	a.closeFns = append(a.closeFns, fn)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
