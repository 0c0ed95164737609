package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

// PollFeed загружает снапшот сразу и затем с фиксированным интервалом
type PollFeed struct {
	repo         repository.MobilityRepository
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewPollFeed создает фид периодических снапшотов
func NewPollFeed(repo repository.MobilityRepository, interval, fetchTimeout time.Duration, logger *zap.Logger) *PollFeed {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PollFeed{
		repo:         repo,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		logger:       logger.With(zap.String("feed", "poll")),
	}
}

func (f *PollFeed) Name() string { return "poll" }

func (f *PollFeed) Incremental() bool { return false }

// Run загружает снапшот сразу и затем каждые interval
func (f *PollFeed) Run(ctx context.Context, q domain.Query, sink Sink) error {
	if q.Mode() == domain.ModeNone {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		f.fetch(ctx, q, sink)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *PollFeed) fetch(ctx context.Context, q domain.Query, sink Sink) {
	fetchCtx := ctx
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	snap, err := f.repo.FetchSnapshot(fetchCtx, q)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// последнее удачное состояние остаётся, повтор на следующем тике
		metrics.FeedFetchesTotal.WithLabelValues(f.Name(), "error").Inc()
		f.logger.Warn("Snapshot fetch failed, keeping last known state",
			zap.Duration("retry_in", f.interval),
			zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		return
	}

	metrics.FeedFetchesTotal.WithLabelValues(f.Name(), "ok").Inc()
	sink.Replace(snap)
}
