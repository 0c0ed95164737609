package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/domain"
)

// getTestRedisClient пропускает тест, если локальный Redis недоступен
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	return client
}

func TestCacheRepository_JSON(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newCacheRepository(client, zap.NewNop())
	ctx := context.Background()
	key := "test:operators"
	defer repo.Delete(ctx, key)

	var miss []domain.Operator
	found, err := repo.GetJSON(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, found)

	operators := []domain.Operator{{ID: "YVO:Operator:voi"}}
	require.NoError(t, repo.SetJSON(ctx, key, operators, time.Minute))

	var got []domain.Operator
	found, err = repo.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, operators, got)

	ttl, err := client.TTL(ctx, KeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCacheRepository_CorruptedEntry(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := newCacheRepository(client, zap.NewNop())
	ctx := context.Background()
	key := "test:corrupted"

	require.NoError(t, repo.set(ctx, key, []byte("{not json"), time.Minute))

	var dst []string
	found, err := repo.GetJSON(ctx, key, &dst)
	require.NoError(t, err)
	assert.False(t, found)

	data, err := repo.get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)
}
