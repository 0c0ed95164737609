package main

// @title Mobility Map API
// @version 1.0.0
// @description Backend для дашборда шеринговой мобильности: сессии карты с кластеризацией маркеров, инкрементальным применением обновлений и справочниками из GraphQL API мобильности.
// @description
// @description Основные возможности:
// @description - Сессии карты: viewport, фильтры, опции с debounce
// @description - Кластеры маркеров и zoom-to-expand
// @description - Фиды: polling, GraphQL подписки, Redis Stream
// @description - Операторы, кодспейсы, зоны геофенсинга

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/mobility-map/docs"
	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/config"
	httpDelivery "github.com/mobility-map/internal/delivery/http"
	"github.com/mobility-map/internal/delivery/http/handler"
	"github.com/mobility-map/internal/feed"
	"github.com/mobility-map/internal/infrastructure/graphql"
	"github.com/mobility-map/internal/pkg/logger"
	"github.com/mobility-map/internal/repository/cache"
	redisRepo "github.com/mobility-map/internal/repository/redis"
	"github.com/mobility-map/internal/usecase"
	"github.com/mobility-map/internal/worker"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "mobility-map-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Mobility Map API")

	// 3. Bootstrap descriptor: без него GraphQL клиент не создаётся
	if cfg.Mobility.BootstrapURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		bootstrap, err := config.FetchBootstrap(ctx, &http.Client{Timeout: 10 * time.Second}, cfg.Mobility.BootstrapURL)
		cancel()
		if err != nil {
			log.Fatal("Failed to load bootstrap config",
				zap.String("url", cfg.Mobility.BootstrapURL),
				zap.Error(err))
		}
		cfg.Mobility.Apply(bootstrap)
	}

	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("mobility_env", cfg.Mobility.Env),
		zap.String("graphql_endpoint", cfg.Mobility.GraphQLEndpoint),
		zap.String("feed_mode", cfg.Feed.Mode),
	)

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Initialize Repositories
	gqlClient := graphql.NewClient(&cfg.Mobility, log)
	subClient := graphql.NewSubscriptionClient(&cfg.Mobility, log)

	mobilityRepo := graphql.NewMobilityRepository(gqlClient, log)
	subscriptionRepo := graphql.NewSubscriptionRepository(subClient, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.MaxStreamLen, log)

	log.Info("Repositories initialized")

	// 6. Feed + Use Cases
	mapFeed, err := feed.New(&cfg.Feed, feed.Deps{
		Mobility:      mobilityRepo,
		Subscriptions: subscriptionRepo,
		Streams:       streamRepo,
	}, log)
	if err != nil {
		log.Fatal("Failed to create feed", zap.Error(err))
	}

	sessions := usecase.NewSessionManager(
		mapFeed,
		cluster.OptionsFromConfig(&cfg.Cluster),
		&cfg.Feed,
		&cfg.Session,
		log,
	)
	referenceUC := usecase.NewReferenceUseCase(mobilityRepo, cacheRepo, cfg.Cache, log)

	log.Info("Use cases initialized", zap.String("feed", mapFeed.Name()))

	// 7. Background workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(worker.NewSessionJanitor(sessions, cfg.Session.SweepInterval, log))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Initialize HTTP Handlers + Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewSessionHandler(sessions, log),
		handler.NewReferenceHandler(referenceUC, log),
		handler.NewConfigHandler(cfg),
		handler.NewHealthHandler(map[string]handler.HealthChecker{"redis": redisClient}, sessions.Count, log),
		handler.NewWSHandler(sessions, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	// фиды сессий останавливаются до закрытия Redis
	sessions.CloseAll()

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
