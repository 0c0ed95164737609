package repository

import (
	"context"

	"github.com/mobility-map/internal/domain"
)

// Snapshot - результат одного запроса; nil срез означает "коллекция не запрашивалась"
type Snapshot struct {
	Vehicles []domain.Vehicle
	Stations []domain.Station
}

// MobilityRepository - pull доступ к GraphQL API мобильности
type MobilityRepository interface {
	// FetchSnapshot загружает транспорт и/или станции для запроса
	FetchSnapshot(ctx context.Context, q domain.Query) (*Snapshot, error)

	GetOperators(ctx context.Context) ([]domain.Operator, error)

	GetCodespaces(ctx context.Context) ([]string, error)

	GetGeofencingZones(ctx context.Context, systemIDs []string) ([]domain.GeofencingZones, error)
}

// SubscriptionRepository - push доступ: подписки по bbox, блокирует до отмены ctx или обрыва
type SubscriptionRepository interface {
	SubscribeVehicles(ctx context.Context, bbox domain.BoundingBox, handle func([]domain.VehicleUpdate)) error

	SubscribeStations(ctx context.Context, bbox domain.BoundingBox, handle func([]domain.StationUpdate)) error
}
