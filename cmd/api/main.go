package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gitgpt/internal/catalog"
	"gitgpt/internal/config"
	"gitgpt/internal/db"
	apihttp "gitgpt/internal/http"
	"gitgpt/internal/llm"
	"gitgpt/internal/repository"
	"gitgpt/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if cfg.LLMAPIKey == "" {
		logger.Warn("llm api key not configured; /api/chat will fail upstream")
	}

	var (
		guideStore  service.GuideStore
		limiter     service.RateLimiter
		redisClient *redis.Client
	)

	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.ProxyRateWindow, cfg.ProxyRateLimit)
			guideStore = service.NewRedisGuideStore(redisClient)
		}
		cancel()
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		guideStore = service.NewRepositoryGuideStore(repository.NewPgGuideFlagRepository(pool))
	}

	if guideStore == nil {
		logger.Info("guide flag kept in memory")
		guideStore = service.NewMemoryGuideStore()
	}

	repos := catalog.Default()
	upstream := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	completer := llm.NewCompletionClient(cfg.CompletionURL, cfg.CompletionTimeout, nil)
	chatSvc := service.NewChatService(logger, service.NewMemorySessionStore(), completer, repos, service.ChatOptions{
		RepositoryDelay:       cfg.RepositoryDelay,
		RepositorySelectDelay: cfg.RepositorySelectDelay,
	})

	chatHandler := apihttp.NewChatHandler(logger, chatSvc, repos)
	proxyHandler := apihttp.NewProxyHandler(logger, upstream, limiter)
	guideHandler := apihttp.NewGuideHandler(logger, guideStore)
	router := apihttp.NewRouter(logger, chatHandler, proxyHandler, guideHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("model", cfg.LLMModel),
		zap.String("completion_url", cfg.CompletionURL),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
