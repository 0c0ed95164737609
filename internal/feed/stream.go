package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

// StreamFeed читает батчи, которые relay воркер публикует в Redis Stream.
// Каждый запуск создаёт свою consumer group, чтобы получать все сообщения,
// и удаляет её при выходе.
type StreamFeed struct {
	repo   repository.StreamConsumer
	stream string
	logger *zap.Logger
}

// NewStreamFeed создает фид поверх Redis Stream
func NewStreamFeed(repo repository.StreamConsumer, stream string, logger *zap.Logger) *StreamFeed {
	if stream == "" {
		stream = domain.StreamMobilityUpdates
	}
	return &StreamFeed{
		repo:   repo,
		stream: stream,
		logger: logger.With(zap.String("feed", "stream")),
	}
}

func (f *StreamFeed) Name() string { return "stream" }

func (f *StreamFeed) Incremental() bool { return true }

// Run читает батчи своей группы и отбрасывает вне bbox запроса
func (f *StreamFeed) Run(ctx context.Context, q domain.Query, sink Sink) error {
	mode := q.Mode()
	if mode == domain.ModeNone {
		<-ctx.Done()
		return ctx.Err()
	}

	group := "session-" + uuid.NewString()
	if err := f.repo.CreateConsumerGroup(ctx, f.stream, group); err != nil {
		return err
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = f.repo.DeleteConsumerGroup(cleanupCtx, f.stream, group)
	}()

	messages, err := f.repo.ConsumeStream(ctx, f.stream, group, group)
	if err != nil {
		return err
	}

	bbox := q.Viewport.BoundingBox
	for msg := range messages {
		var batch domain.RelayBatch
		if err := json.Unmarshal([]byte(msg.Data), &batch); err != nil {
			metrics.FeedFetchesTotal.WithLabelValues(f.Name(), "error").Inc()
			f.logger.Warn("Skipping undecodable relay batch",
				zap.String("message_id", msg.ID),
				zap.Error(err))
		} else if ctx.Err() == nil {
			metrics.FeedFetchesTotal.WithLabelValues(f.Name(), "ok").Inc()
			if mode.IncludesVehicles() && len(batch.Vehicles) > 0 {
				sink.ApplyVehicles(filterVehicles(validVehicles(batch.Vehicles), q.Filter, &bbox))
			}
			if mode.IncludesStations() && len(batch.Stations) > 0 {
				sink.ApplyStations(filterStations(validStations(batch.Stations), q.Filter, &bbox))
			}
		}

		if err := f.repo.AckMessage(ctx, f.stream, group, msg.ID); err != nil && ctx.Err() == nil {
			f.logger.Warn("Failed to ack relay batch", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}
	return ctx.Err()
}

// события из стрима проверяются заново, стрим не доверенная граница
func validVehicles(events []domain.VehicleUpdate) []domain.VehicleUpdate {
	out := events[:0:0]
	for _, e := range events {
		if e.Validate() == nil {
			out = append(out, e)
		} else {
			metrics.InvalidEntitiesTotal.WithLabelValues(string(domain.KindVehicle)).Inc()
		}
	}
	return out
}

func validStations(events []domain.StationUpdate) []domain.StationUpdate {
	out := events[:0:0]
	for _, e := range events {
		if e.Validate() == nil {
			out = append(out, e)
		} else {
			metrics.InvalidEntitiesTotal.WithLabelValues(string(domain.KindStation)).Inc()
		}
	}
	return out
}
