package repository

import (
	"context"
	"time"
)

// CacheRepository - cache-aside для справочников. Значения хранятся как JSON.
type CacheRepository interface {
	// GetJSON возвращает false при промахе. Нечитаемое значение тоже промах.
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)

	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
