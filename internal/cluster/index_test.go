package cluster

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobility-map/internal/domain"
)

var world = domain.Viewport{
	BoundingBox: domain.BoundingBox{MinLat: -85, MinLon: -180, MaxLat: 85, MaxLon: 180},
}

func at(vp domain.Viewport, zoom int) domain.Viewport {
	vp.Zoom = zoom
	return vp
}

func point(id string, lat, lon float64) domain.GeoPoint {
	return domain.GeoPoint{ID: id, Lat: lat, Lon: lon, Kind: domain.KindVehicle}
}

func randomPoints(n int, seed int64) []domain.GeoPoint {
	rnd := rand.New(rand.NewSource(seed))
	points := make([]domain.GeoPoint, n)
	for i := range points {
		points[i] = point("p"+strconv.Itoa(i), rnd.Float64()*160-80, rnd.Float64()*358-179)
	}
	return points
}

func TestGetClusters_Conservation(t *testing.T) {
	points := randomPoints(2000, 42)
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	for zoom := 0; zoom <= 18; zoom++ {
		markers, err := ix.GetClusters(at(world, zoom))
		require.NoError(t, err)
		assert.Equal(t, len(points), Total(markers), "zoom %d", zoom)
	}
}

func TestGetClusters_NoClusteringAtMaxZoom(t *testing.T) {
	points := []domain.GeoPoint{
		point("a", 59.9100, 10.7500),
		point("b", 59.9100, 10.7501),
		point("c", 59.9101, 10.7500),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	for _, zoom := range []int{16, 17, 22} {
		markers, err := ix.GetClusters(at(world, zoom))
		require.NoError(t, err)
		require.Len(t, markers, 3)
		for _, m := range markers {
			assert.False(t, m.IsCluster())
		}
	}
}

func TestGetClusters_FiveMetersApart(t *testing.T) {
	// 0.000045° широты ~ 5 м
	points := []domain.GeoPoint{
		point("v1", 59.911491, 10.757933),
		point("v2", 59.911536, 10.757933),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	markers, err := ix.GetClusters(at(world, 10))
	require.NoError(t, err)
	require.Len(t, markers, 1)
	require.True(t, markers[0].IsCluster())
	assert.Equal(t, 2, markers[0].Cluster.PointCount)
	assert.InDelta(t, 59.9115, markers[0].Cluster.Lat, 0.001)
	assert.InDelta(t, 10.7579, markers[0].Cluster.Lon, 0.001)

	markers, err = ix.GetClusters(at(world, ix.Options().MaxZoom))
	require.NoError(t, err)
	require.Len(t, markers, 2)
	assert.False(t, markers[0].IsCluster())
	assert.False(t, markers[1].IsCluster())
}

func TestGetClusters_ViewportFilter(t *testing.T) {
	points := []domain.GeoPoint{
		point("oslo", 59.91, 10.75),
		point("bergen", 60.39, 5.32),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	vp := domain.Viewport{
		BoundingBox: domain.BoundingBox{MinLat: 59.8, MinLon: 10.5, MaxLat: 60.0, MaxLon: 11.0},
		Zoom:        12,
	}
	markers, err := ix.GetClusters(vp)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "oslo", markers[0].Point.ID)
}

func TestGetClusters_EmptyAndInvalidViewport(t *testing.T) {
	ix := NewIndex(DefaultOptions(), nil).Load(nil)

	markers, err := ix.GetClusters(at(world, 5))
	require.NoError(t, err)
	assert.Empty(t, markers)

	bad := world
	bad.MinLat, bad.MaxLat = bad.MaxLat, bad.MinLat
	_, err = ix.GetClusters(bad)
	assert.Error(t, err)

	// индекс без Load
	markers, err = NewIndex(DefaultOptions(), nil).GetClusters(at(world, 5))
	require.NoError(t, err)
	assert.Empty(t, markers)
}

func TestLoad_ExcludesInvalidPoints(t *testing.T) {
	points := []domain.GeoPoint{
		point("ok", 59.91, 10.75),
		point("nan", math.NaN(), 10.75),
		point("inf", 59.91, math.Inf(1)),
		point("range", 95, 10.75),
		point("", 59.91, 10.75),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	assert.Equal(t, 1, ix.Len())
	assert.Equal(t, 4, ix.Dropped())

	markers, err := ix.GetClusters(at(world, 3))
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "ok", markers[0].Point.ID)
}

func TestExpansionZoom(t *testing.T) {
	// ~1 км по широте: кластер на средних зумах, раздельно ближе к 11
	points := []domain.GeoPoint{
		point("a", 59.9100, 10.75),
		point("b", 59.9190, 10.75),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	markers, err := ix.GetClusters(at(world, 5))
	require.NoError(t, err)
	require.Len(t, markers, 1)
	require.True(t, markers[0].IsCluster())

	zoom, err := ix.ExpansionZoom(markers[0].Cluster.ID)
	require.NoError(t, err)
	assert.Greater(t, zoom, 5)
	assert.LessOrEqual(t, zoom, ix.Options().MaxZoom)

	before, err := ix.GetClusters(at(world, zoom-1))
	require.NoError(t, err)
	assert.Len(t, before, 1)

	after, err := ix.GetClusters(at(world, zoom))
	require.NoError(t, err)
	assert.Len(t, after, 2)
}

func TestExpansionZoom_CappedAtMaxZoom(t *testing.T) {
	points := []domain.GeoPoint{
		point("v1", 59.911491, 10.757933),
		point("v2", 59.911492, 10.757933),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	markers, err := ix.GetClusters(at(world, 8))
	require.NoError(t, err)
	require.Len(t, markers, 1)

	zoom, err := ix.ExpansionZoom(markers[0].Cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, ix.Options().MaxZoom, zoom)
}

func TestExpansionZoom_UnknownCluster(t *testing.T) {
	ix := NewIndex(DefaultOptions(), nil).Load(randomPoints(10, 1))

	_, err := ix.ExpansionZoom(0)
	assert.Error(t, err)
	_, err = ix.ExpansionZoom(1 << 20)
	assert.Error(t, err)
	_, err = ix.Children(-5)
	assert.Error(t, err)
}

func TestChildrenAndLeaves(t *testing.T) {
	points := []domain.GeoPoint{
		point("a", 59.9100, 10.7500),
		point("b", 59.9101, 10.7501),
		point("c", 59.9102, 10.7502),
		point("d", 59.9103, 10.7503),
		point("e", 59.9104, 10.7504),
	}
	ix := NewIndex(DefaultOptions(), nil).Load(points)

	markers, err := ix.GetClusters(at(world, 5))
	require.NoError(t, err)
	require.Len(t, markers, 1)
	c := markers[0].Cluster
	require.NotNil(t, c)
	assert.Equal(t, 5, c.PointCount)

	children, err := ix.Children(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, Total(children))

	leaves, err := ix.Leaves(c.ID, 10, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(leaves))
	for _, l := range leaves {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, ids)

	page, err := ix.Leaves(c.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	tail, err := ix.Leaves(c.ID, 10, 4)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
}

func TestComputeClusters(t *testing.T) {
	points := randomPoints(300, 7)

	markers, err := ComputeClusters(points, at(world, 2), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 300, Total(markers))
	assert.Less(t, len(markers), 300)
}

func TestMinPoints(t *testing.T) {
	opts := DefaultOptions()
	opts.MinPoints = 3
	points := []domain.GeoPoint{
		point("a", 59.9100, 10.75),
		point("b", 59.9101, 10.75),
	}

	markers, err := ComputeClusters(points, at(world, 5), opts)
	require.NoError(t, err)
	assert.Len(t, markers, 2)
}
