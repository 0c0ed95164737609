package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/config"
	apperrors "github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/usecase"
	"github.com/mobility-map/internal/usecase/dto"
)

func newManager(f *fakeFeed, maxSessions int, idle time.Duration) *usecase.SessionManager {
	return usecase.NewSessionManager(f, cluster.DefaultOptions(),
		&config.FeedConfig{DebounceWindow: 0},
		&config.SessionConfig{IdleTimeout: idle, MaxSessions: maxSessions},
		zap.NewNop())
}

func TestSessionManager_Lifecycle(t *testing.T) {
	f := &fakeFeed{}
	m := newManager(f, 10, time.Minute)
	defer m.CloseAll()

	view, err := m.Create(dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID())
	assert.Equal(t, 1, m.Count())
	waitRuns(t, f, 1)

	info := view.Info()
	assert.Equal(t, "fake", info.Feed)
	assert.Equal(t, "all", string(info.Mode))

	got, err := m.Get(view.ID())
	require.NoError(t, err)
	assert.Same(t, view, got)

	require.NoError(t, m.Delete(view.ID()))
	assert.Error(t, f.run(0).ctx.Err(), "feed run is cancelled with the session")

	_, err = m.Get(view.ID())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(view.ID()), apperrors.ErrSessionNotFound)
}

func TestSessionManager_CreateWithQuery(t *testing.T) {
	f := &fakeFeed{}
	m := newManager(f, 10, time.Minute)
	defer m.CloseAll()

	view, err := m.Create(dto.CreateSessionRequest{
		Viewport: &dto.ViewportRequest{MinLat: 63.40, MinLon: 10.35, MaxLat: 63.45, MaxLon: 10.45, Zoom: 13},
		Filter:   &dto.FilterRequest{FormFactors: []string{"SCOOTER"}},
		Options:  &dto.OptionsRequest{Docked: true},
	})
	require.NoError(t, err)
	waitRuns(t, f, 1)

	q := f.run(0).query
	assert.Equal(t, 13, q.Viewport.Zoom)
	assert.Equal(t, "stations", string(q.Mode()))
	assert.Equal(t, 5000, q.Options.Radius)
	assert.Equal(t, view.Query(), q)

	_, err = m.Create(dto.CreateSessionRequest{
		Viewport: &dto.ViewportRequest{MinLat: 63.45, MinLon: 10.35, MaxLat: 63.40, MaxLon: 10.45},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidViewport)
}

func TestSessionManager_Limit(t *testing.T) {
	m := newManager(&fakeFeed{}, 2, time.Minute)
	defer m.CloseAll()

	for i := 0; i < 2; i++ {
		_, err := m.Create(dto.CreateSessionRequest{})
		require.NoError(t, err)
	}
	_, err := m.Create(dto.CreateSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrSessionLimit)
}

func TestSessionManager_ExpireIdle(t *testing.T) {
	m := newManager(&fakeFeed{}, 10, time.Minute)
	defer m.CloseAll()

	idle, err := m.Create(dto.CreateSessionRequest{})
	require.NoError(t, err)

	assert.Zero(t, m.ExpireIdle(time.Now()))
	assert.Equal(t, 1, m.ExpireIdle(time.Now().Add(2*time.Minute)))

	_, err = m.Get(idle.ID())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.Zero(t, m.Count())
}
