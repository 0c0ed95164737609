package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobility-map/internal/domain"
)

type fakeSet struct {
	version uint64
	points  []domain.GeoPoint
	calls   int
}

func (s *fakeSet) Version() uint64 { return s.version }

func (s *fakeSet) Points() []domain.GeoPoint {
	s.calls++
	return s.points
}

func TestClusterer_Memoizes(t *testing.T) {
	set := &fakeSet{version: 1, points: randomPoints(200, 11)}
	c := NewClusterer(DefaultOptions(), nil)

	first, err := c.Markers(set, at(world, 3))
	require.NoError(t, err)
	second, err := c.Markers(set, at(world, 3))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Builds())
	assert.Equal(t, 1, set.calls)
	assert.Equal(t, first, second)
}

func TestClusterer_ZoomBucketAboveMax(t *testing.T) {
	set := &fakeSet{version: 1, points: randomPoints(50, 5)}
	c := NewClusterer(DefaultOptions(), nil)

	a, err := c.Markers(set, at(world, 17))
	require.NoError(t, err)
	b, err := c.Markers(set, at(world, 20))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 50)
}

func TestClusterer_RebuildsOnNewVersion(t *testing.T) {
	set := &fakeSet{version: 1, points: randomPoints(20, 9)}
	c := NewClusterer(DefaultOptions(), nil)

	_, err := c.Markers(set, at(world, 4))
	require.NoError(t, err)

	set.version = 2
	set.points = set.points[:10]
	markers, err := c.Markers(set, at(world, 4))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Builds())
	assert.Equal(t, 10, Total(markers))
}

func TestClusterer_ExpansionUsesCurrentIndex(t *testing.T) {
	set := &fakeSet{version: 7, points: []domain.GeoPoint{
		point("a", 59.9100, 10.75),
		point("b", 59.9101, 10.75),
	}}
	c := NewClusterer(DefaultOptions(), nil)

	markers, err := c.Markers(set, at(world, 5))
	require.NoError(t, err)
	require.Len(t, markers, 1)

	zoom, err := c.ExpansionZoom(set, markers[0].Cluster.ID)
	require.NoError(t, err)
	assert.Greater(t, zoom, 5)

	children, err := c.Children(set, markers[0].Cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, Total(children))

	leaves, err := c.Leaves(set, markers[0].Cluster.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, leaves, 2)
	assert.Equal(t, 1, c.Builds())
}

func TestClusterer_InvalidViewport(t *testing.T) {
	c := NewClusterer(DefaultOptions(), nil)
	_, err := c.Markers(&fakeSet{}, domain.Viewport{})
	assert.Error(t, err)
}
