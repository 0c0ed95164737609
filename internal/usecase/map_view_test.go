package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mobility-map/internal/cluster"
	"github.com/mobility-map/internal/domain"
	"github.com/mobility-map/internal/domain/repository"
	"github.com/mobility-map/internal/feed"
	apperrors "github.com/mobility-map/internal/pkg/errors"
	"github.com/mobility-map/internal/usecase"
)

func defaultQuery() domain.Query {
	return domain.Query{Viewport: domain.DefaultViewport(), Options: domain.DefaultOptions()}
}

func newView(t *testing.T, f feed.Feed, debounce time.Duration) *usecase.MapView {
	t.Helper()
	v := usecase.NewMapView("test-session", defaultQuery(), f, usecase.MapViewOptions{
		Debounce: debounce,
		Cluster:  cluster.DefaultOptions(),
	}, zap.NewNop())
	v.Start()
	t.Cleanup(v.Close)
	return v
}

func waitRuns(t *testing.T, f *fakeFeed, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.runCount() >= n }, time.Second, 2*time.Millisecond)
}

func vehicle(id string, lat, lon float64) domain.Vehicle {
	return domain.Vehicle{ID: id, Lat: lat, Lon: lon}
}

func station(id string, lat, lon float64) domain.Station {
	return domain.Station{ID: id, Lat: lat, Lon: lon}
}

func viewportAt(minLat, minLon float64, zoom int) domain.Viewport {
	return domain.Viewport{
		BoundingBox: domain.BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: minLat + 0.05, MaxLon: minLon + 0.1},
		Zoom:        zoom,
	}
}

func TestMapView_DebounceCoalescesViewportChanges(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 50*time.Millisecond)
	waitRuns(t, f, 1)

	// три изменения в пределах окна дают один перезапуск с последним значением
	require.NoError(t, v.SetViewport(viewportAt(59.90, 10.70, 13)))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, v.SetViewport(viewportAt(59.91, 10.71, 13)))
	time.Sleep(10 * time.Millisecond)
	final := viewportAt(59.92, 10.72, 14)
	require.NoError(t, v.SetViewport(final))

	assert.Equal(t, final, v.Query().Viewport, "pending change is visible immediately")

	waitRuns(t, f, 2)
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 2, f.runCount())
	assert.Equal(t, final, f.last().query.Viewport)

	// первый прогон отменён
	assert.Error(t, f.run(0).ctx.Err())
}

func TestMapView_InvalidViewportRejected(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	err := v.SetViewport(domain.Viewport{
		BoundingBox: domain.BoundingBox{MinLat: 60, MinLon: 10, MaxLat: 59, MaxLon: 11},
		Zoom:        10,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidViewport)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.runCount())
}

func TestMapView_RadiusOutOfRangeRejected(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	opts := domain.DefaultOptions()
	opts.Radius = 10
	assert.ErrorIs(t, v.SetOptions(opts), apperrors.ErrInvalidRequest)

	opts.Radius = 100000
	assert.ErrorIs(t, v.SetOptions(opts), apperrors.ErrInvalidRequest)

	// 0 - радиус по умолчанию
	opts.Radius = 0
	opts.SystemTypes.Docked = false
	require.NoError(t, v.SetOptions(opts))
	waitRuns(t, f, 2)
	assert.Equal(t, domain.DefaultRadius, f.last().query.Options.Radius)
}

func TestMapView_UnchangedQueryDoesNotRestart(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	require.NoError(t, v.SetViewport(domain.DefaultViewport()))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.runCount())
}

func TestMapView_ZoomOnlyChangeKeepsFeed(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	f.run(0).sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75), vehicle("v2", 59.91001, 10.75001)},
		Stations: []domain.Station{},
	})

	zoomed := domain.DefaultViewport()
	zoomed.Zoom = 16
	require.NoError(t, v.SetViewport(zoomed))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.runCount())
	assert.NoError(t, f.run(0).ctx.Err(), "run is not cancelled")
	assert.Equal(t, 16, v.Query().Viewport.Zoom)

	res, err := v.Markers(nil)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Viewport.Zoom)
	assert.Equal(t, 2, v.Statistics().NumberOfVehicles)

	// смена bbox после зума перезапускает фид
	moved := viewportAt(59.90, 10.70, 16)
	require.NoError(t, v.SetViewport(moved))
	waitRuns(t, f, 2)
	assert.Equal(t, moved, f.last().query.Viewport)
}

func TestMapView_NoGhostUpdatesAfterSupersede(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)
	stale := f.run(0)

	require.NoError(t, v.SetViewport(viewportAt(59.90, 10.70, 13)))
	waitRuns(t, f, 2)
	fresh := f.run(1)

	stale.sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("ghost", 59.91, 10.75)},
		Stations: []domain.Station{},
	})
	assert.Equal(t, domain.Statistics{}, v.Statistics())

	fresh.sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75), vehicle("v2", 59.92, 10.75)},
		Stations: []domain.Station{station("s1", 59.91, 10.74)},
	})
	assert.Equal(t, domain.Statistics{NumberOfVehicles: 2, NumberOfStations: 1}, v.Statistics())

	stale.sink.ApplyVehicles([]domain.VehicleUpdate{domain.Delete[domain.Vehicle]("v1")})
	assert.Equal(t, 2, v.Statistics().NumberOfVehicles)

	_, err := v.Vehicle("ghost")
	assert.ErrorIs(t, err, apperrors.ErrEntityNotFound)
}

func TestMapView_ModeSwitchClearsState(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	f.run(0).sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75)},
		Stations: []domain.Station{station("s1", 59.91, 10.74)},
	})
	require.Equal(t, 1, v.Statistics().NumberOfVehicles)

	opts := domain.DefaultOptions()
	opts.SystemTypes = domain.SystemTypes{Docked: true}
	require.NoError(t, v.SetOptions(opts))

	assert.Equal(t, domain.Statistics{}, v.Statistics())
	waitRuns(t, f, 2)
	assert.Equal(t, domain.ModeStations, f.last().query.Mode())
}

func TestMapView_ModeNoneStopsFeed(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	f.run(0).sink.Replace(&repository.Snapshot{Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75)}})

	opts := domain.DefaultOptions()
	opts.SystemTypes = domain.SystemTypes{}
	require.NoError(t, v.SetOptions(opts))

	assert.Equal(t, domain.Statistics{}, v.Statistics())
	assert.Error(t, f.run(0).ctx.Err())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.runCount())
}

func TestMapView_ViewportChangeScope(t *testing.T) {
	seed := &repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75)},
		Stations: []domain.Station{},
	}

	t.Run("pull feed keeps state until next snapshot", func(t *testing.T) {
		f := &fakeFeed{}
		v := newView(t, f, 0)
		waitRuns(t, f, 1)
		f.run(0).sink.Replace(seed)

		require.NoError(t, v.SetViewport(viewportAt(59.90, 10.70, 13)))
		waitRuns(t, f, 2)
		assert.Equal(t, 1, v.Statistics().NumberOfVehicles)
	})

	t.Run("push feed clears on viewport change", func(t *testing.T) {
		f := &fakeFeed{incremental: true}
		v := newView(t, f, 0)
		waitRuns(t, f, 1)
		f.run(0).sink.ApplyVehicles([]domain.VehicleUpdate{domain.Upsert("v1", vehicle("v1", 59.91, 10.75))})
		require.Equal(t, 1, v.Statistics().NumberOfVehicles)

		require.NoError(t, v.SetViewport(viewportAt(59.90, 10.70, 13)))
		waitRuns(t, f, 2)
		assert.Equal(t, 0, v.Statistics().NumberOfVehicles)
	})

	t.Run("push feed keeps state on refresh", func(t *testing.T) {
		f := &fakeFeed{incremental: true}
		v := newView(t, f, 0)
		waitRuns(t, f, 1)
		f.run(0).sink.ApplyVehicles([]domain.VehicleUpdate{domain.Upsert("v1", vehicle("v1", 59.91, 10.75))})

		v.Refresh()
		waitRuns(t, f, 2)
		assert.Equal(t, 1, v.Statistics().NumberOfVehicles)
	})
}

func TestMapView_IncrementalMerge(t *testing.T) {
	f := &fakeFeed{incremental: true}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)
	sink := f.run(0).sink

	reserved := true
	sink.ApplyVehicles([]domain.VehicleUpdate{
		domain.Upsert("v1", domain.Vehicle{ID: "v1", Lat: 59.91, Lon: 10.75, IsReserved: &reserved}),
	})
	sink.ApplyVehicles([]domain.VehicleUpdate{
		{EntityID: "v1", Kind: domain.UpdateUpdate, Entity: &domain.Vehicle{ID: "v1", Lat: 59.92, Lon: 10.76}},
		domain.Delete[domain.Vehicle]("unknown"),
	})

	got, err := v.Vehicle("v1")
	require.NoError(t, err)
	assert.Equal(t, 59.92, got.Lat)
	require.NotNil(t, got.IsReserved, "fields absent from the patch survive the merge")
	assert.True(t, *got.IsReserved)
}

func TestMapView_MarkersAndExpansion(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	// три точки в пределах ~5 м и одна в нескольких км
	f.run(0).sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{
			vehicle("a", 59.91000, 10.75000),
			vehicle("b", 59.91003, 10.75003),
			vehicle("c", 59.91002, 10.74998),
			vehicle("far", 59.93500, 10.80000),
		},
		Stations: []domain.Station{},
	})

	res, err := v.Markers(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cluster.Total(res.Markers))
	assert.Equal(t, uint64(v.Version()), res.Version)

	var clusterID int
	found := false
	for _, m := range res.Markers {
		if m.IsCluster() {
			clusterID = m.Cluster.ID
			found = true
			assert.Equal(t, 3, m.Cluster.PointCount)
		}
	}
	require.True(t, found, "close points form a cluster at zoom 12")

	exp, err := v.ExpansionZoom(clusterID)
	require.NoError(t, err)
	assert.Greater(t, exp.Zoom, 12)
	assert.LessOrEqual(t, exp.Zoom, cluster.DefaultOptions().MaxZoom)
	assert.InDelta(t, 59.91, exp.Center.Lat, 0.001)
	assert.InDelta(t, 10.75, exp.Center.Lon, 0.001)

	leaves, err := v.ClusterLeaves(clusterID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, leaves.Leaves, 3)

	_, err = v.ExpansionZoom(999999)
	assert.ErrorIs(t, err, apperrors.ErrClusterNotFound)

	// на максимальном зуме только отдельные точки
	maxZoom := domain.Viewport{BoundingBox: domain.DefaultViewport().BoundingBox, Zoom: 16}
	res, err = v.Markers(&maxZoom)
	require.NoError(t, err)
	for _, m := range res.Markers {
		assert.False(t, m.IsCluster())
	}
	assert.Len(t, res.Markers, 4)
}

func TestMapView_MapTypeChangeRebuildsIcons(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	f.run(0).sink.Replace(&repository.Snapshot{
		Vehicles: []domain.Vehicle{{ID: "v1", Lat: 59.91, Lon: 10.75, VehicleType: &domain.VehicleType{FormFactor: domain.FormFactorBicycle}}},
		Stations: []domain.Station{},
	})
	vp := domain.Viewport{BoundingBox: domain.DefaultViewport().BoundingBox, Zoom: 16}

	res, err := v.Markers(&vp)
	require.NoError(t, err)
	require.Len(t, res.Markers, 1)
	assert.Equal(t, "bicycle", res.Markers[0].Point.Icon)

	opts := domain.DefaultOptions()
	opts.MapType = domain.MapTypeHeatmap
	require.NoError(t, v.SetOptions(opts))

	res, err = v.Markers(&vp)
	require.NoError(t, err)
	require.Len(t, res.Markers, 1)
	assert.Empty(t, res.Markers[0].Point.Icon)
}

func TestMapView_SubscribeReceivesChanges(t *testing.T) {
	f := &fakeFeed{}
	v := newView(t, f, 0)
	waitRuns(t, f, 1)

	changes, unsubscribe := v.Subscribe()
	defer unsubscribe()

	f.run(0).sink.Replace(&repository.Snapshot{Stations: []domain.Station{station("s1", 59.91, 10.74)}})

	select {
	case ev := <-changes:
		assert.Equal(t, "test-session", ev.SessionID)
		assert.Equal(t, 1, ev.Statistics.NumberOfStations)
	case <-time.After(time.Second):
		t.Fatal("no change event")
	}
}

func TestMapView_PollFailureKeepsLastKnownGood(t *testing.T) {
	repo := new(MockMobilityRepository)
	repo.On("FetchSnapshot", mock.Anything, mock.Anything).Return(&repository.Snapshot{
		Vehicles: []domain.Vehicle{vehicle("v1", 59.91, 10.75)},
		Stations: []domain.Station{station("s1", 59.91, 10.74)},
	}, nil).Once()
	repo.On("FetchSnapshot", mock.Anything, mock.Anything).Return(nil, errors.New("502 bad gateway"))

	f := feed.NewPollFeed(repo, 10*time.Millisecond, time.Second, zap.NewNop())
	v := newView(t, f, 0)

	want := domain.Statistics{NumberOfVehicles: 1, NumberOfStations: 1}
	require.Eventually(t, func() bool { return v.Statistics() == want }, time.Second, 2*time.Millisecond)

	// несколько неудачных тиков
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, want, v.Statistics())
	_, err := v.Station("s1")
	assert.NoError(t, err)
}

func TestMapView_CloseStopsFeed(t *testing.T) {
	f := &fakeFeed{}
	v := usecase.NewMapView("closing", defaultQuery(), f, usecase.MapViewOptions{Debounce: 10 * time.Millisecond}, zap.NewNop())
	v.Start()
	waitRuns(t, f, 1)

	changes, _ := v.Subscribe()
	require.NoError(t, v.SetViewport(viewportAt(59.90, 10.70, 13)))
	v.Close()

	assert.ErrorIs(t, f.run(0).ctx.Err(), context.Canceled)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, f.runCount(), "pending debounce must not fire after close")

	_, ok := <-changes
	assert.False(t, ok)
}
