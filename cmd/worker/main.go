package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/infrastructure/graphql"
	"github.com/mobility-map/internal/pkg/logger"
	"github.com/mobility-map/internal/repository/cache"
	redisRepo "github.com/mobility-map/internal/repository/redis"
	"github.com/mobility-map/internal/worker"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "mobility-map-relay")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Mobility Relay Worker")

	if cfg.Mobility.BootstrapURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		bootstrap, err := config.FetchBootstrap(ctx, &http.Client{Timeout: 10 * time.Second}, cfg.Mobility.BootstrapURL)
		cancel()
		if err != nil {
			log.Fatal("Failed to load bootstrap config", zap.Error(err))
		}
		cfg.Mobility.Apply(bootstrap)
	}

	kinds, err := relayKinds(cfg.Worker.Kinds)
	if err != nil {
		log.Fatal("Invalid relay kinds", zap.Error(err))
	}
	bbox := domain.BoundingBox{
		MinLat: cfg.Worker.RelayBBox.MinLat,
		MinLon: cfg.Worker.RelayBBox.MinLon,
		MaxLat: cfg.Worker.RelayBBox.MaxLat,
		MaxLon: cfg.Worker.RelayBBox.MaxLon,
	}

	log.Info("Configuration loaded",
		zap.String("subscriptions_endpoint", cfg.Mobility.SubscriptionsEndpoint),
		zap.String("stream", cfg.Feed.Stream),
		zap.Any("bbox", bbox),
		zap.Strings("kinds", cfg.Worker.Kinds),
		zap.Int64("max_stream_len", cfg.Worker.MaxStreamLen))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	subscriptionRepo := graphql.NewSubscriptionRepository(graphql.NewSubscriptionClient(&cfg.Mobility, log), log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.MaxStreamLen, log)

	// 5. Initialize workers
	relayWorker, err := worker.NewRelayWorker(subscriptionRepo, streamRepo, cfg.Feed.Stream, bbox, kinds, log)
	if err != nil {
		log.Fatal("Failed to create relay worker", zap.Error(err))
	}

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(relayWorker)

	// 6. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}

// relayKinds: "vehicles", "stations" из WORKER_RELAY_KINDS
func relayKinds(names []string) ([]domain.EntityKind, error) {
	kinds := make([]domain.EntityKind, 0, len(names))
	for _, name := range names {
		switch name {
		case "vehicles", "vehicle":
			kinds = append(kinds, domain.KindVehicle)
		case "stations", "station":
			kinds = append(kinds, domain.KindStation)
		default:
			return nil, fmt.Errorf("unknown relay kind %q", name)
		}
	}
	return kinds, nil
}
