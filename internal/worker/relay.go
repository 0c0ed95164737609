package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

const relayRetryBackoff = 5 * time.Second

// RelayWorker держит одну подписку на широкую область и публикует каждый
// батч обновлений в Redis Stream, откуда его читают сессии в режиме stream.
type RelayWorker struct {
	*BaseWorker
	subscriptions repository.SubscriptionRepository
	streamRepo    repository.StreamPublisher
	stream        string
	bbox          domain.BoundingBox
	kinds         []domain.EntityKind
	backoff       time.Duration
}

// NewRelayWorker проверяет bbox и типы сущностей
func NewRelayWorker(
	subscriptions repository.SubscriptionRepository,
	streamRepo repository.StreamPublisher,
	stream string,
	bbox domain.BoundingBox,
	kinds []domain.EntityKind,
	logger *zap.Logger,
) (*RelayWorker, error) {
	if err := bbox.Validate(); err != nil {
		return nil, fmt.Errorf("relay bbox: %w", err)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("relay needs at least one entity kind")
	}
	for _, k := range kinds {
		if k != domain.KindVehicle && k != domain.KindStation {
			return nil, fmt.Errorf("unknown relay kind %q", k)
		}
	}
	if stream == "" {
		stream = domain.StreamMobilityUpdates
	}

	return &RelayWorker{
		BaseWorker:    NewBaseWorker("mobility-relay", logger),
		subscriptions: subscriptions,
		streamRepo:    streamRepo,
		stream:        stream,
		bbox:          bbox,
		kinds:         kinds,
		backoff:       relayRetryBackoff,
	}, nil
}

// Start держит по одной подписке на тип и переподключается после обрыва
func (w *RelayWorker) Start(ctx context.Context) error {
	// Stop отменяет подписки
	ctx, cancel := w.Context(ctx)
	defer cancel()

	w.Logger().Info("Relay worker started",
		zap.String("stream", w.stream),
		zap.Any("bbox", w.bbox),
		zap.Int("kinds", len(w.kinds)))

	var wg sync.WaitGroup
	for _, kind := range w.kinds {
		wg.Add(1)
		go func(kind domain.EntityKind) {
			defer wg.Done()
			w.relay(ctx, kind)
		}(kind)
	}
	wg.Wait()
	return nil
}

func (w *RelayWorker) relay(ctx context.Context, kind domain.EntityKind) {
	for {
		var err error
		switch kind {
		case domain.KindVehicle:
			err = w.subscriptions.SubscribeVehicles(ctx, w.bbox, func(events []domain.VehicleUpdate) {
				w.publish(ctx, domain.RelayBatch{Kind: kind, BBox: w.bbox, Vehicles: events})
			})
		case domain.KindStation:
			err = w.subscriptions.SubscribeStations(ctx, w.bbox, func(events []domain.StationUpdate) {
				w.publish(ctx, domain.RelayBatch{Kind: kind, BBox: w.bbox, Stations: events})
			})
		}
		if ctx.Err() != nil {
			return
		}

		w.Logger().Warn("Relay subscription interrupted, reconnecting",
			zap.String("kind", string(kind)),
			zap.Duration("retry_in", w.backoff),
			zap.Error(err))

		select {
		case <-time.After(w.backoff):
		case <-ctx.Done():
			return
		}
	}
}

func (w *RelayWorker) publish(ctx context.Context, batch domain.RelayBatch) {
	if batch.Len() == 0 {
		return
	}
	batch.PublishedAt = time.Now().UTC()

	if err := w.streamRepo.PublishToStream(ctx, w.stream, batch); err != nil {
		if ctx.Err() == nil {
			metrics.FeedFetchesTotal.WithLabelValues("relay", "error").Inc()
			w.Logger().Error("Failed to relay batch",
				zap.String("kind", string(batch.Kind)),
				zap.Int("events", batch.Len()),
				zap.Error(err))
		}
		return
	}
	metrics.FeedFetchesTotal.WithLabelValues("relay", "ok").Inc()
}
