package graphql

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

type subscriptionRepository struct {
	client *SubscriptionClient
	logger *zap.Logger
}

// NewSubscriptionRepository создает репозиторий GraphQL подписок
func NewSubscriptionRepository(client *SubscriptionClient, logger *zap.Logger) repository.SubscriptionRepository {
	return &subscriptionRepository{
		client: client,
		logger: logger,
	}
}

// SubscribeVehicles блокирует до отмены ctx или обрыва подписки
func (r *subscriptionRepository) SubscribeVehicles(ctx context.Context, bbox domain.BoundingBox, handle func([]domain.VehicleUpdate)) error {
	query := fmt.Sprintf(vehiclesSubscription, vehicleFieldsFull)
	return r.client.Subscribe(ctx, query, bboxVariables(bbox), func(data json.RawMessage) error {
		var payload struct {
			Vehicles []wireVehicleUpdate `json:"vehicles"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			r.logger.Warn("Skipping undecodable vehicle updates", zap.Error(err))
			return nil
		}
		events := convertUpdates(r.logger, domain.KindVehicle, payload.Vehicles, wireVehicleUpdate.toDomain)
		metrics.FeedFetchesTotal.WithLabelValues("subscription", "ok").Inc()
		if len(events) > 0 {
			handle(events)
		}
		return nil
	})
}

// SubscribeStations - то же для станций
func (r *subscriptionRepository) SubscribeStations(ctx context.Context, bbox domain.BoundingBox, handle func([]domain.StationUpdate)) error {
	query := fmt.Sprintf(stationsSubscription, stationFieldsFull)
	return r.client.Subscribe(ctx, query, bboxVariables(bbox), func(data json.RawMessage) error {
		var payload struct {
			Stations []wireStationUpdate `json:"stations"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			r.logger.Warn("Skipping undecodable station updates", zap.Error(err))
			return nil
		}
		events := convertUpdates(r.logger, domain.KindStation, payload.Stations, wireStationUpdate.toDomain)
		metrics.FeedFetchesTotal.WithLabelValues("subscription", "ok").Inc()
		if len(events) > 0 {
			handle(events)
		}
		return nil
	})
}

func convertUpdates[W any, T any](logger *zap.Logger, kind domain.EntityKind, in []W, convert func(W) (domain.UpdateEvent[T], error)) []domain.UpdateEvent[T] {
	out := make([]domain.UpdateEvent[T], 0, len(in))
	for _, w := range in {
		ev, err := convert(w)
		if err != nil {
			metrics.InvalidEntitiesTotal.WithLabelValues(string(kind)).Inc()
			logger.Warn("Dropping invalid update event", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		out = append(out, ev)
	}
	return out
}
