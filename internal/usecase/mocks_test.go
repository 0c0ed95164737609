package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/feed"
)

// MockMobilityRepository - мок GraphQL репозитория
type MockMobilityRepository struct {
	mock.Mock
}

func (m *MockMobilityRepository) FetchSnapshot(ctx context.Context, q domain.Query) (*repository.Snapshot, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Snapshot), args.Error(1)
}

func (m *MockMobilityRepository) GetOperators(ctx context.Context) ([]domain.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Operator), args.Error(1)
}

func (m *MockMobilityRepository) GetCodespaces(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMobilityRepository) GetGeofencingZones(ctx context.Context, systemIDs []string) ([]domain.GeofencingZones, error) {
	args := m.Called(ctx, systemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeofencingZones), args.Error(1)
}

// memoryCache - CacheRepository в памяти
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// fakeFeed запоминает каждый прогон; тест сам кладёт данные в его Sink
type fakeFeed struct {
	incremental bool

	mu   sync.Mutex
	runs []*fakeRun
}

type fakeRun struct {
	query domain.Query
	sink  feed.Sink
	ctx   context.Context
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) Incremental() bool { return f.incremental }

func (f *fakeFeed) Run(ctx context.Context, q domain.Query, sink feed.Sink) error {
	f.mu.Lock()
	f.runs = append(f.runs, &fakeRun{query: q, sink: sink, ctx: ctx})
	f.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeFeed) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func (f *fakeFeed) run(i int) *fakeRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[i]
}

func (f *fakeFeed) last() *fakeRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[len(f.runs)-1]
}
