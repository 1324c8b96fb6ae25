package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpadapter "github.com/leggal/leggal-agent/internal/adapters/http"
	"github.com/leggal/leggal-agent/internal/adapters/llm"
	memstore "github.com/leggal/leggal-agent/internal/adapters/storage/memory"
	pgstore "github.com/leggal/leggal-agent/internal/adapters/storage/postgres"
	sqlitestore "github.com/leggal/leggal-agent/internal/adapters/storage/sqlite"
	"github.com/leggal/leggal-agent/internal/app/analyze"
	"github.com/leggal/leggal-agent/internal/app/auth"
	"github.com/leggal/leggal-agent/internal/app/chat"
	"github.com/leggal/leggal-agent/internal/app/classify"
	"github.com/leggal/leggal-agent/internal/app/tasks"
	"github.com/leggal/leggal-agent/internal/app/webhook"
	"github.com/leggal/leggal-agent/internal/config"
	"github.com/leggal/leggal-agent/internal/domain"
	"github.com/leggal/leggal-agent/internal/observability"
)

func main() {
	cfg := config.Load()
	logger := observability.Logger()
	ctx := context.Background()

	// LLM: mock locally, Vertex AI in real deployments.
	var llmClient domain.LLMClient
	if cfg.UseMockLLM {
		logger.Info("using mock LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		logger.Info("using Vertex AI LLM client", "model", cfg.ModelName)
		client, err := llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			logger.Error("vertex client init failed", "error", err)
			os.Exit(1)
		}
		llmClient = client
	}

	// Storage: one store implements all three ports.
	var (
		userStore    domain.UserStore
		taskStore    domain.TaskStore
		messageStore domain.MessageStore
		pingers      []httpadapter.Pinger
	)
	switch cfg.StorageBackend {
	case "postgres":
		store, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("connected to PostgreSQL")
		userStore, taskStore, messageStore = store, store, store
		pingers = append(pingers, store)

	case "sqlite":
		store, err := sqlitestore.New(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Error("sqlite init failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("using SQLite storage", "path", cfg.SQLitePath)
		userStore, taskStore, messageStore = store, store, store
		pingers = append(pingers, store)

	default:
		logger.Info("using in-memory storage")
		userStore = memstore.NewUserStore()
		taskStore = memstore.NewTaskStore()
		messageStore = memstore.NewMessageStore()
	}

	// Redis is optional; without it rate limiting is disabled.
	var limiter *httpadapter.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		logger.Info("connected to Redis, rate limiting enabled")
		limiter = httpadapter.NewRateLimiter(client, cfg.RateLimitWhitelist)
		pingers = append(pingers, redisPinger{client})
	}

	analyzer := analyze.New(llmClient, analyze.DefaultPriorityRules())
	taskSvc := tasks.NewService(taskStore, analyzer)
	authSvc := auth.NewService(userStore, cfg.SecretKey, cfg.TokenExpiry)
	chatSvc := chat.NewService(classify.New(classify.DefaultVocabulary()), analyzer, llmClient, userStore, taskSvc, messageStore)
	webhookSvc := webhook.NewService(taskSvc)

	handler := httpadapter.NewHandler(authSvc, taskSvc, chatSvc, webhookSvc, pingers...)
	router := httpadapter.NewRouter(handler, limiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting Leggal API", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// redisPinger adapts the redis client to the health check interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
