package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mobility-map/internal/config"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/pkg/errors"
)

const (
	operatorsCacheKey  = "reference:operators"
	codespacesCacheKey = "reference:codespaces"
	zonesCacheKey      = "reference:geofencing:"
)

// ReferenceUseCase - справочники API мобильности, сначала из кеша
type ReferenceUseCase struct {
	mobilityRepo repository.MobilityRepository
	cacheRepo    repository.CacheRepository
	cfg          config.CacheConfig
	logger       *zap.Logger
}

// NewReferenceUseCase создает use case справочников с cache-aside
func NewReferenceUseCase(
	mobilityRepo repository.MobilityRepository,
	cacheRepo repository.CacheRepository,
	cfg config.CacheConfig,
	logger *zap.Logger,
) *ReferenceUseCase {
	return &ReferenceUseCase{
		mobilityRepo: mobilityRepo,
		cacheRepo:    cacheRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// GetOperators возвращает операторов из кеша или API
func (uc *ReferenceUseCase) GetOperators(ctx context.Context) ([]domain.Operator, error) {
	return cached(ctx, uc, operatorsCacheKey, uc.cfg.OperatorsCacheTTL, uc.mobilityRepo.GetOperators)
}

// GetCodespaces возвращает кодспейсы из кеша или API
func (uc *ReferenceUseCase) GetCodespaces(ctx context.Context) ([]string, error) {
	return cached(ctx, uc, codespacesCacheKey, uc.cfg.CodespacesCacheTTL, uc.mobilityRepo.GetCodespaces)
}

// GetGeofencingZones возвращает зоны систем; с bbox только пересекающие его
func (uc *ReferenceUseCase) GetGeofencingZones(ctx context.Context, systemIDs []string, bbox *domain.BoundingBox) ([]domain.GeofencingZones, error) {
	if len(systemIDs) == 0 {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"system_ids": "at least one system id is required",
		})
	}
	if bbox != nil {
		if err := bbox.Validate(); err != nil {
			return nil, err
		}
	}

	ids := slices.Clone(systemIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	key := zonesCacheKey + strings.Join(ids, ",")
	zones, err := cached(ctx, uc, key, uc.cfg.ZonesCacheTTL, func(ctx context.Context) ([]domain.GeofencingZones, error) {
		return uc.mobilityRepo.GetGeofencingZones(ctx, ids)
	})
	if err != nil {
		return nil, err
	}

	if bbox == nil {
		return zones, nil
	}
	visible := make([]domain.GeofencingZones, 0, len(zones))
	for _, z := range zones {
		if z.Intersects(*bbox) {
			visible = append(visible, z)
		}
	}
	return visible, nil
}

// cached: кеш недоступен - идём в API, ошибка API - ErrUpstreamError
func cached[T any](ctx context.Context, uc *ReferenceUseCase, key string, ttl time.Duration, load func(context.Context) ([]T, error)) ([]T, error) {
	var items []T
	found, err := uc.cacheRepo.GetJSON(ctx, key, &items)
	if err != nil {
		uc.logger.Warn("Failed to read reference cache", zap.String("key", key), zap.Error(err))
	}
	if found {
		uc.logger.Debug("Reference data from cache", zap.String("key", key))
		return items, nil
	}

	items, err = load(ctx)
	if err != nil {
		uc.logger.Error("Failed to load reference data", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrUpstreamError, err)
	}
	if items == nil {
		items = []T{}
	}

	if ttl > 0 {
		if err := uc.cacheRepo.SetJSON(ctx, key, items, ttl); err != nil {
			uc.logger.Warn("Failed to cache reference data", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}
