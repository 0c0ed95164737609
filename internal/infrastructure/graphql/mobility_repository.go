package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/metrics"
)

type mobilityRepository struct {
	client *Client
	logger *zap.Logger
}

// NewMobilityRepository создает репозиторий запросов к GraphQL API
func NewMobilityRepository(client *Client, logger *zap.Logger) repository.MobilityRepository {
	return &mobilityRepository{
		client: client,
		logger: logger,
	}
}

// FetchSnapshot: для режима none ничего не запрашивает и возвращает пустой снапшот
func (r *mobilityRepository) FetchSnapshot(ctx context.Context, q domain.Query) (*repository.Snapshot, error) {
	mode := q.Mode()
	if mode == domain.ModeNone {
		return &repository.Snapshot{}, nil
	}

	start := time.Now()
	var data struct {
		Vehicles []json.RawMessage `json:"vehicles"`
		Stations []json.RawMessage `json:"stations"`
	}
	err := r.client.Do(ctx, snapshotQuery(mode, q.Options.MapType), snapshotVariables(q), &data)
	metrics.FeedFetchDuration.WithLabelValues("poll").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	snap := &repository.Snapshot{}
	if mode.IncludesVehicles() {
		snap.Vehicles = decodeEntities(r.logger, domain.KindVehicle, data.Vehicles, wireVehicle.toDomain)
	}
	if mode.IncludesStations() {
		snap.Stations = decodeEntities(r.logger, domain.KindStation, data.Stations, wireStation.toDomain)
	}

	r.logger.Debug("Snapshot fetched",
		zap.String("mode", string(mode)),
		zap.Int("vehicles", len(snap.Vehicles)),
		zap.Int("stations", len(snap.Stations)),
		zap.Duration("duration", time.Since(start)))

	return snap, nil
}

// decodeEntities отбрасывает записи, не прошедшие валидацию; результат не nil
func decodeEntities[W any, T any](logger *zap.Logger, kind domain.EntityKind, raw []json.RawMessage, convert func(W) (T, error)) []T {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var w W
		if err := json.Unmarshal(item, &w); err != nil {
			metrics.InvalidEntitiesTotal.WithLabelValues(string(kind)).Inc()
			logger.Warn("Dropping undecodable entity", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		e, err := convert(w)
		if err != nil {
			metrics.InvalidEntitiesTotal.WithLabelValues(string(kind)).Inc()
			logger.Warn("Dropping invalid entity", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetOperators возвращает операторов всех систем
func (r *mobilityRepository) GetOperators(ctx context.Context) ([]domain.Operator, error) {
	var data struct {
		Operators []domain.Operator `json:"operators"`
	}
	if err := r.client.Do(ctx, operatorsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch operators: %w", err)
	}
	return data.Operators, nil
}

// GetCodespaces возвращает список кодспейсов
func (r *mobilityRepository) GetCodespaces(ctx context.Context) ([]string, error) {
	var data struct {
		Codespaces []string `json:"codespaces"`
	}
	if err := r.client.Do(ctx, codespacesQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch codespaces: %w", err)
	}
	return data.Codespaces, nil
}

// GetGeofencingZones загружает зоны геофенсинга для систем
func (r *mobilityRepository) GetGeofencingZones(ctx context.Context, systemIDs []string) ([]domain.GeofencingZones, error) {
	var vars map[string]interface{}
	if len(systemIDs) > 0 {
		vars = map[string]interface{}{"systemIds": systemIDs}
	}
	var data struct {
		GeofencingZones []domain.GeofencingZones `json:"geofencingZones"`
	}
	if err := r.client.Do(ctx, geofencingZonesQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("fetch geofencing zones: %w", err)
	}
	return data.GeofencingZones, nil
}
