// Package feed loads mobility data for one map query and hands it to a Sink.
// Pull feeds deliver full snapshots, push feeds deliver incremental batches.
package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
)

// Sink принимает данные фида. Вызовы из одного Run последовательны.
type Sink interface {
	// Replace - полный снапшот; nil коллекция снапшота означает "не запрашивалась"
	Replace(snap *repository.Snapshot)
	ApplyVehicles(events []domain.VehicleUpdate)
	ApplyStations(events []domain.StationUpdate)
}

// Feed - источник данных. Run блокирует до отмены ctx; сбои источника
// логируются и повторяются, состояние в Sink при этом не трогается.
type Feed interface {
	Name() string

	// Incremental: фид присылает только изменения, поэтому смена области
	// требует сброса коллекций
	Incremental() bool

	Run(ctx context.Context, q domain.Query, sink Sink) error
}

type Deps struct {
	Mobility      repository.MobilityRepository
	Subscriptions repository.SubscriptionRepository
	Streams       repository.StreamConsumer
}

// New выбирает реализацию по FEED_MODE
func New(cfg *config.FeedConfig, deps Deps, logger *zap.Logger) (Feed, error) {
	switch cfg.Mode {
	case config.FeedModePoll, "":
		if deps.Mobility == nil {
			return nil, fmt.Errorf("poll feed requires mobility repository")
		}
		return NewPollFeed(deps.Mobility, cfg.PollInterval, cfg.FetchTimeout, logger), nil
	case config.FeedModeSubscription:
		if deps.Subscriptions == nil {
			return nil, fmt.Errorf("subscription feed requires subscription repository")
		}
		return NewSubscriptionFeed(deps.Subscriptions, cfg.RetryBackoff, logger), nil
	case config.FeedModeStream:
		if deps.Streams == nil {
			return nil, fmt.Errorf("stream feed requires stream repository")
		}
		return NewStreamFeed(deps.Streams, cfg.Stream, logger), nil
	default:
		return nil, fmt.Errorf("unknown feed mode %q", cfg.Mode)
	}
}

// sleep ждёт d или отмены; false если ctx отменён
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
