package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

// SubscriptionFeed - GraphQL подписки по bbox viewport. Для режима all
// открываются обе подписки, их батчи сериализуются перед передачей в Sink.
type SubscriptionFeed struct {
	repo    repository.SubscriptionRepository
	backoff time.Duration
	logger  *zap.Logger
}

// NewSubscriptionFeed создает фид GraphQL подписок
func NewSubscriptionFeed(repo repository.SubscriptionRepository, backoff time.Duration, logger *zap.Logger) *SubscriptionFeed {
	if backoff <= 0 {
		backoff = 5 * time.Second
	}
	return &SubscriptionFeed{
		repo:    repo,
		backoff: backoff,
		logger:  logger.With(zap.String("feed", "subscription")),
	}
}

func (f *SubscriptionFeed) Name() string { return "subscription" }

func (f *SubscriptionFeed) Incremental() bool { return true }

// Run подписывается на включенные коллекции и переподключается с backoff
func (f *SubscriptionFeed) Run(ctx context.Context, q domain.Query, sink Sink) error {
	mode := q.Mode()
	bbox := q.Viewport.BoundingBox

	var (
		sinkMu sync.Mutex
		wg     sync.WaitGroup
	)

	if mode.IncludesVehicles() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.loop(ctx, "vehicles", func(ctx context.Context) error {
				return f.repo.SubscribeVehicles(ctx, bbox, func(events []domain.VehicleUpdate) {
					events = filterVehicles(events, q.Filter, nil)
					sinkMu.Lock()
					defer sinkMu.Unlock()
					if ctx.Err() == nil {
						sink.ApplyVehicles(events)
					}
				})
			})
		}()
	}
	if mode.IncludesStations() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.loop(ctx, "stations", func(ctx context.Context) error {
				return f.repo.SubscribeStations(ctx, bbox, func(events []domain.StationUpdate) {
					events = filterStations(events, q.Filter, nil)
					sinkMu.Lock()
					defer sinkMu.Unlock()
					if ctx.Err() == nil {
						sink.ApplyStations(events)
					}
				})
			})
		}()
	}

	wg.Wait()
	<-ctx.Done()
	return ctx.Err()
}

// loop переподключает подписку после обрыва с фиксированной паузой
func (f *SubscriptionFeed) loop(ctx context.Context, kind string, subscribe func(context.Context) error) {
	for {
		err := subscribe(ctx)
		if ctx.Err() != nil {
			return
		}

		metrics.FeedFetchesTotal.WithLabelValues(f.Name(), "error").Inc()
		f.logger.Warn("Subscription interrupted, reconnecting",
			zap.String("kind", kind),
			zap.Duration("retry_in", f.backoff),
			zap.Error(err))

		if !sleep(ctx, f.backoff) {
			return
		}
	}
}
